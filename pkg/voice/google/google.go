// Package google implements voice input and output on the Google Cloud
// Speech-to-Text and Text-to-Speech APIs.
package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/speech/v1"
	"google.golang.org/api/texttospeech/v1"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/audio"
)

const (
	defaultLanguage   = "en-US"
	defaultRecordTime = 5 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
)

// Scopes returns the OAuth scopes both APIs need.
func Scopes() []string {
	return []string{speech.CloudPlatformScope}
}

// ClientOptions picks credentials for the Google APIs: an API key when set,
// otherwise the OAuth client, otherwise Application Default Credentials.
func ClientOptions(httpClient *http.Client, apiKey, endpoint string) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	case httpClient != nil:
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}

// RecognizerConfig configures a Recognizer.
type RecognizerConfig struct {
	// Language is the BCP 47 language of the speaker.
	Language string
	// RecordTime is the length of each capture.
	RecordTime time.Duration
	// Attempts and RetryDelay bound retries of transient API failures.
	Attempts   uint
	RetryDelay time.Duration
}

// Recognizer captures an utterance from the microphone and transcribes it.
type Recognizer struct {
	svc      *speech.Service
	recorder audio.Recorder
	cfg      RecognizerConfig
	logger   *slog.Logger
}

// NewRecognizer creates a Recognizer. opts select credentials and endpoint.
func NewRecognizer(ctx context.Context, recorder audio.Recorder, cfg RecognizerConfig, logger *slog.Logger, opts ...option.ClientOption) (*Recognizer, error) {
	if recorder == nil {
		return nil, fmt.Errorf("recorder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating speech service: %w", err)
	}

	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.RecordTime <= 0 {
		cfg.RecordTime = defaultRecordTime
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Recognizer{svc: svc, recorder: recorder, cfg: cfg, logger: logger}, nil
}

// Listen records one utterance and returns its lowercase transcript.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	r.logger.Debug("listening", "duration", r.cfg.RecordTime)

	pcm, err := r.recorder.Record(ctx, r.cfg.RecordTime)
	if err != nil {
		if errors.Is(err, audio.ErrCaptureFailed) {
			r.logger.Warn("microphone capture failed", "error", err)
			return "", fmt.Errorf("%w: %w", api.ErrServiceUnavailable, err)
		}
		return "", err
	}
	if len(pcm) == 0 {
		return "", api.ErrNotUnderstood
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: audio.SampleRate,
			LanguageCode:    r.cfg.Language,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(pcm),
		},
	}

	var resp *speech.RecognizeResponse
	err = retry.Do(
		func() error {
			var err error
			resp, err = r.svc.Speech.Recognize(req).Context(ctx).Do()
			return err
		},
		retry.RetryIf(func(err error) bool {
			if isTransient(err) && ctx.Err() == nil {
				r.logger.Warn("speech recognition failed, will retry", "error", err)
				return true
			}
			return false
		}),
		retry.Attempts(r.cfg.Attempts),
		retry.Delay(r.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return "", unavailable(ctx, "recognizing speech", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(result.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", api.ErrNotUnderstood
	}

	text := strings.ToLower(strings.Join(parts, " "))
	r.logger.Debug("recognized speech", "transcript", text)
	return text, nil
}

// SynthesizerConfig configures a Synthesizer.
type SynthesizerConfig struct {
	// Language is the BCP 47 language of the voice.
	Language string
	// Voice optionally names a specific voice, e.g. "en-US-Standard-C".
	Voice string
	// Echo, when set, receives each response as text before it is played.
	Echo io.Writer
	// Attempts and RetryDelay bound retries of transient API failures.
	Attempts   uint
	RetryDelay time.Duration
}

// Synthesizer speaks responses through the default output device.
type Synthesizer struct {
	svc    *texttospeech.Service
	player audio.Player
	cfg    SynthesizerConfig
	logger *slog.Logger
}

// NewSynthesizer creates a Synthesizer. opts select credentials and endpoint.
func NewSynthesizer(ctx context.Context, player audio.Player, cfg SynthesizerConfig, logger *slog.Logger, opts ...option.ClientOption) (*Synthesizer, error) {
	if player == nil {
		return nil, fmt.Errorf("player is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech service: %w", err)
	}

	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Synthesizer{svc: svc, player: player, cfg: cfg, logger: logger}, nil
}

// Speak synthesizes text and plays it to completion.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	if s.cfg.Echo != nil {
		fmt.Fprintln(s.cfg.Echo, text)
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: s.cfg.Language,
			Name:         s.cfg.Voice,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "LINEAR16",
		},
	}

	var resp *texttospeech.SynthesizeSpeechResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = s.svc.Text.Synthesize(req).Context(ctx).Do()
			return err
		},
		retry.RetryIf(func(err error) bool {
			if isTransient(err) && ctx.Err() == nil {
				s.logger.Warn("speech synthesis failed, will retry", "error", err)
				return true
			}
			return false
		}),
		retry.Attempts(s.cfg.Attempts),
		retry.Delay(s.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return unavailable(ctx, "synthesizing speech", err)
	}

	clip, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return fmt.Errorf("decoding synthesized audio: %w", err)
	}
	return s.player.Play(ctx, clip)
}

// isTransient reports whether err is worth retrying: rate limits, server
// errors and transport failures that never produced an API response.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

// unavailable maps a failed call to ErrServiceUnavailable when the failure
// was transient. Other API errors (bad credentials, bad requests) are returned
// as-is so the caller does not reprompt forever.
func unavailable(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, api.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
