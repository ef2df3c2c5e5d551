// Package google provides a plugin wrapper for Google Cloud Speech-to-Text input.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/audio"
	googlevoice "github.com/ArionMiles/voxpense/pkg/voice/google"
)

// Plugin implements the InputPlugin interface for microphone capture
// transcribed by Google Cloud Speech-to-Text.
type Plugin struct {
	// Recorder overrides the capture program chosen from config.
	Recorder audio.Recorder
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "google"
}

// Description returns a human-readable description.
func (p *Plugin) Description() string {
	return "Capture speech from the microphone and transcribe it with Google Cloud Speech-to-Text"
}

// RequiredScopes returns the OAuth scopes needed by this plugin.
func (p *Plugin) RequiredScopes() []string {
	return googlevoice.Scopes()
}

// ConfigSchema returns a JSON schema describing the plugin's configuration.
func (p *Plugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"language": map[string]any{
				"type":        "string",
				"description": "BCP 47 language of the speaker (default: en-US)",
				"default":     "en-US",
			},
			"recordSeconds": map[string]any{
				"type":        "integer",
				"description": "Length of each microphone capture in seconds (default: 5)",
				"default":     5,
			},
			"recorder": map[string]any{
				"type":        "string",
				"description": "Capture program: arecord, rec or sox (default: platform specific)",
			},
			"apiKey": map[string]any{
				"type":        "string",
				"description": "API key used instead of OAuth credentials",
			},
			"endpoint": map[string]any{
				"type":        "string",
				"description": "Override the API endpoint",
			},
		},
	}
}

// Config represents the Google input configuration.
type Config struct {
	Language      string `json:"language,omitempty"`
	RecordSeconds int    `json:"recordSeconds,omitempty"`
	Recorder      string `json:"recorder,omitempty"`
	APIKey        string `json:"apiKey,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"`
}

// NewInput creates a new Google recognizer.
func (p *Plugin) NewInput(ctx context.Context, httpClient *http.Client, configData json.RawMessage, logger *slog.Logger) (api.VoiceInput, error) {
	var cfg Config
	if len(configData) > 0 {
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling google input config: %w", err)
		}
	}
	if cfg.RecordSeconds < 0 {
		return nil, fmt.Errorf("recordSeconds must not be negative")
	}

	recorder := p.Recorder
	if recorder == nil {
		r, err := audio.NewRecorder(cfg.Recorder)
		if err != nil {
			return nil, fmt.Errorf("creating recorder: %w", err)
		}
		recorder = r
	}

	return googlevoice.NewRecognizer(ctx, recorder, googlevoice.RecognizerConfig{
		Language:   cfg.Language,
		RecordTime: time.Duration(cfg.RecordSeconds) * time.Second,
	}, logger, googlevoice.ClientOptions(httpClient, cfg.APIKey, cfg.Endpoint)...)
}
