// Package plugins provides a plugin registry for voice inputs and outputs.
package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/ArionMiles/voxpense/pkg/api"
)

// InputPlugin defines the interface for voice input plugins.
type InputPlugin interface {
	// Name returns the plugin name (e.g., "console", "google").
	Name() string
	// Description returns a human-readable description.
	Description() string
	// RequiredScopes returns the OAuth scopes needed by this plugin.
	RequiredScopes() []string
	// ConfigSchema returns a JSON schema describing the plugin's configuration.
	ConfigSchema() map[string]any
	// NewInput creates a new input instance with the given config.
	NewInput(ctx context.Context, httpClient *http.Client, config json.RawMessage, logger *slog.Logger) (api.VoiceInput, error)
}

// OutputPlugin defines the interface for voice output plugins.
type OutputPlugin interface {
	// Name returns the plugin name (e.g., "console", "google").
	Name() string
	// Description returns a human-readable description.
	Description() string
	// RequiredScopes returns the OAuth scopes needed by this plugin.
	RequiredScopes() []string
	// ConfigSchema returns a JSON schema describing the plugin's configuration.
	ConfigSchema() map[string]any
	// NewOutput creates a new output instance with the given config.
	NewOutput(ctx context.Context, httpClient *http.Client, config json.RawMessage, logger *slog.Logger) (api.VoiceOutput, error)
}

// Registry manages available input and output plugins.
type Registry struct {
	inputs  map[string]InputPlugin
	outputs map[string]OutputPlugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		inputs:  make(map[string]InputPlugin),
		outputs: make(map[string]OutputPlugin),
	}
}

// RegisterInput registers an input plugin.
func (r *Registry) RegisterInput(plugin InputPlugin) error {
	name := plugin.Name()
	if _, exists := r.inputs[name]; exists {
		return fmt.Errorf("input plugin %q already registered", name)
	}
	r.inputs[name] = plugin
	return nil
}

// RegisterOutput registers an output plugin.
func (r *Registry) RegisterOutput(plugin OutputPlugin) error {
	name := plugin.Name()
	if _, exists := r.outputs[name]; exists {
		return fmt.Errorf("output plugin %q already registered", name)
	}
	r.outputs[name] = plugin
	return nil
}

// GetInput returns an input plugin by name.
func (r *Registry) GetInput(name string) (InputPlugin, error) {
	plugin, exists := r.inputs[name]
	if !exists {
		return nil, fmt.Errorf("input plugin %q not found", name)
	}
	return plugin, nil
}

// GetOutput returns an output plugin by name.
func (r *Registry) GetOutput(name string) (OutputPlugin, error) {
	plugin, exists := r.outputs[name]
	if !exists {
		return nil, fmt.Errorf("output plugin %q not found", name)
	}
	return plugin, nil
}

// ListInputs returns all registered input plugins ordered by name.
func (r *Registry) ListInputs() []InputPlugin {
	plugins := make([]InputPlugin, 0, len(r.inputs))
	for _, plugin := range r.inputs {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name() < plugins[j].Name() })
	return plugins
}

// ListOutputs returns all registered output plugins ordered by name.
func (r *Registry) ListOutputs() []OutputPlugin {
	plugins := make([]OutputPlugin, 0, len(r.outputs))
	for _, plugin := range r.outputs {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name() < plugins[j].Name() })
	return plugins
}

// GetAllScopes returns the sorted, deduplicated OAuth scopes required by the
// given input and output.
func (r *Registry) GetAllScopes(inputName, outputName string) ([]string, error) {
	input, err := r.GetInput(inputName)
	if err != nil {
		return nil, err
	}

	output, err := r.GetOutput(outputName)
	if err != nil {
		return nil, err
	}

	scopeSet := make(map[string]struct{})
	for _, scope := range input.RequiredScopes() {
		scopeSet[scope] = struct{}{}
	}
	for _, scope := range output.RequiredScopes() {
		scopeSet[scope] = struct{}{}
	}

	scopes := make([]string, 0, len(scopeSet))
	for scope := range scopeSet {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)

	return scopes, nil
}

// CreateInput creates an input instance from a plugin.
func (r *Registry) CreateInput(ctx context.Context, name string, httpClient *http.Client, config json.RawMessage, logger *slog.Logger) (api.VoiceInput, error) {
	plugin, err := r.GetInput(name)
	if err != nil {
		return nil, err
	}
	return plugin.NewInput(ctx, httpClient, config, logger)
}

// CreateOutput creates an output instance from a plugin.
func (r *Registry) CreateOutput(ctx context.Context, name string, httpClient *http.Client, config json.RawMessage, logger *slog.Logger) (api.VoiceOutput, error) {
	plugin, err := r.GetOutput(name)
	if err != nil {
		return nil, err
	}
	return plugin.NewOutput(ctx, httpClient, config, logger)
}
