// Package google provides a plugin wrapper for Google Cloud Text-to-Speech output.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/audio"
	googlevoice "github.com/ArionMiles/voxpense/pkg/voice/google"
)

// Plugin implements the OutputPlugin interface for speech synthesized by
// Google Cloud Text-to-Speech.
type Plugin struct {
	// Player overrides the playback program chosen from config.
	Player audio.Player
	// Echo receives the text of each response; defaults to os.Stdout.
	Echo io.Writer
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "google"
}

// Description returns a human-readable description.
func (p *Plugin) Description() string {
	return "Speak responses with Google Cloud Text-to-Speech"
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
				"description": "BCP 47 language of the voice (default: en-US)",
				"default":     "en-US",
			},
			"voice": map[string]any{
				"type":        "string",
				"description": "Voice name, e.g. en-US-Standard-C",
			},
			"player": map[string]any{
				"type":        "string",
				"description": "Playback program: aplay, afplay, ffplay, play or powershell",
			},
			"echo": map[string]any{
				"type":        "boolean",
				"description": "Also print each response (default: true)",
				"default":     true,
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

// Config represents the Google output configuration.
type Config struct {
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Player   string `json:"player,omitempty"`
	Echo     *bool  `json:"echo,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// NewOutput creates a new Google synthesizer.
func (p *Plugin) NewOutput(ctx context.Context, httpClient *http.Client, configData json.RawMessage, logger *slog.Logger) (api.VoiceOutput, error) {
	var cfg Config
	if len(configData) > 0 {
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling google output config: %w", err)
		}
	}

	player := p.Player
	if player == nil {
		pl, err := audio.NewPlayer(cfg.Player)
		if err != nil {
			return nil, fmt.Errorf("creating player: %w", err)
		}
		player = pl
	}

	var echo io.Writer
	if cfg.Echo == nil || *cfg.Echo {
		echo = p.Echo
		if echo == nil {
			echo = os.Stdout
		}
	}

	return googlevoice.NewSynthesizer(ctx, player, googlevoice.SynthesizerConfig{
		Language: cfg.Language,
		Voice:    cfg.Voice,
		Echo:     echo,
	}, logger, googlevoice.ClientOptions(httpClient, cfg.APIKey, cfg.Endpoint)...)
}
