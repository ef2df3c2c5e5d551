// Package console provides a plugin wrapper for typed voice input.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/ArionMiles/voxpense/pkg/api"
	consolevoice "github.com/ArionMiles/voxpense/pkg/voice/console"
)

// Plugin implements the InputPlugin interface for a terminal.
type Plugin struct {
	// In and Prompt default to os.Stdin and os.Stdout.
	In     io.Reader
	Prompt io.Writer
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "console"
}

// Description returns a human-readable description.
func (p *Plugin) Description() string {
	return "Read commands typed on standard input, one per line"
}

// RequiredScopes returns the OAuth scopes needed by this plugin.
func (p *Plugin) RequiredScopes() []string {
	return nil
}

// ConfigSchema returns a JSON schema describing the plugin's configuration.
func (p *Plugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "boolean",
				"description": "Print a \"> \" marker before each read (default: true)",
				"default":     true,
			},
		},
	}
}

// Config represents the console input configuration.
type Config struct {
	Prompt *bool `json:"prompt,omitempty"`
}

// NewInput creates a new console listener.
func (p *Plugin) NewInput(_ context.Context, _ *http.Client, configData json.RawMessage, logger *slog.Logger) (api.VoiceInput, error) {
	var cfg Config
	if len(configData) > 0 {
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling console input config: %w", err)
		}
	}

	in := p.In
	if in == nil {
		in = os.Stdin
	}

	var prompt io.Writer
	if cfg.Prompt == nil || *cfg.Prompt {
		prompt = p.Prompt
		if prompt == nil {
			prompt = os.Stdout
		}
	}

	if logger != nil {
		logger.Debug("console input ready", "prompt", prompt != nil)
	}
	return consolevoice.NewListener(in, prompt), nil
}
