// Package console provides a plugin wrapper for printed voice output.
package console

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/ArionMiles/voxpense/pkg/api"
	consolevoice "github.com/ArionMiles/voxpense/pkg/voice/console"
)

// Plugin implements the OutputPlugin interface for a terminal.
type Plugin struct {
	// Out defaults to os.Stdout.
	Out io.Writer
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "console"
}

// Description returns a human-readable description.
func (p *Plugin) Description() string {
	return "Print responses on standard output"
}

// RequiredScopes returns the OAuth scopes needed by this plugin.
func (p *Plugin) RequiredScopes() []string {
	return nil
}

// ConfigSchema returns a JSON schema describing the plugin's configuration.
func (p *Plugin) ConfigSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// NewOutput creates a new console speaker. The config is ignored.
func (p *Plugin) NewOutput(_ context.Context, _ *http.Client, _ json.RawMessage, _ *slog.Logger) (api.VoiceOutput, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	return consolevoice.NewSpeaker(out), nil
}
