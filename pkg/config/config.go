// Package config loads voxpense configuration from defaults, an optional
// JSON file and VOXPENSE_* environment variables, in that order.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	kJson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ArionMiles/voxpense/pkg/store/expenses"
)

const (
	// DefaultConfigFile is the JSON config file read when present.
	DefaultConfigFile = "config.json"
	// ClientSecretFile is the default path to the Google OAuth credentials JSON file.
	ClientSecretFile = "data/client_secret.json"
	// TokenFile is the default path to the cached OAuth token.
	TokenFile = "data/token.json"
)

// Config holds the application configuration. JSON config keys and
// environment variables share the same names.
type Config struct {
	// BudgetFile is the one-line budget file.
	// Environment variable: VOXPENSE_BUDGET_FILE
	BudgetFile string `koanf:"VOXPENSE_BUDGET_FILE"`

	// ExpensesFile is the append-only expense log.
	// Environment variable: VOXPENSE_EXPENSES_FILE
	ExpensesFile string `koanf:"VOXPENSE_EXPENSES_FILE"`

	// CorruptLines is the expense log policy for malformed lines: abort or skip.
	// Environment variable: VOXPENSE_CORRUPT_LINES
	CorruptLines string `koanf:"VOXPENSE_CORRUPT_LINES"`

	// Input is the name of the voice input plugin (console, google).
	// Environment variable: VOXPENSE_INPUT
	Input string `koanf:"VOXPENSE_INPUT"`

	// Output is the name of the voice output plugin (console, google).
	// Environment variable: VOXPENSE_OUTPUT
	Output string `koanf:"VOXPENSE_OUTPUT"`

	// InputConfig is raw JSON handed to the input plugin. Built from the
	// fields below when empty.
	// Environment variable: VOXPENSE_INPUT_CONFIG
	InputConfig string `koanf:"VOXPENSE_INPUT_CONFIG"`

	// OutputConfig is raw JSON handed to the output plugin.
	// Environment variable: VOXPENSE_OUTPUT_CONFIG
	OutputConfig string `koanf:"VOXPENSE_OUTPUT_CONFIG"`

	// Language is the BCP 47 tag used for recognition, synthesis and number formatting.
	// Environment variable: VOXPENSE_LANGUAGE
	Language string `koanf:"VOXPENSE_LANGUAGE"`

	// Voice optionally names a specific Text-to-Speech voice.
	// Environment variable: VOXPENSE_VOICE
	Voice string `koanf:"VOXPENSE_VOICE"`

	// RecordSeconds is how long each microphone capture lasts.
	// Environment variable: VOXPENSE_RECORD_SECONDS
	RecordSeconds int `koanf:"VOXPENSE_RECORD_SECONDS"`

	// Recorder overrides the capture program (e.g. "arecord", "rec").
	// Environment variable: VOXPENSE_RECORDER
	Recorder string `koanf:"VOXPENSE_RECORDER"`

	// Player overrides the playback program (e.g. "aplay", "afplay").
	// Environment variable: VOXPENSE_PLAYER
	Player string `koanf:"VOXPENSE_PLAYER"`

	// SecretsFile is the Google OAuth client secret JSON.
	// Environment variable: VOXPENSE_SECRETS_FILE
	SecretsFile string `koanf:"VOXPENSE_SECRETS_FILE"`

	// TokenFile caches the OAuth token between runs.
	// Environment variable: VOXPENSE_TOKEN_FILE
	TokenFile string `koanf:"VOXPENSE_TOKEN_FILE"`

	// GoogleAPIKey authenticates the Google plugins without OAuth when set.
	// Environment variable: VOXPENSE_GOOGLE_API_KEY
	GoogleAPIKey string `koanf:"VOXPENSE_GOOGLE_API_KEY"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		BudgetFile:    "budget.txt",
		ExpensesFile:  "expenses.csv",
		CorruptLines:  string(expenses.PolicyAbort),
		Input:         "console",
		Output:        "console",
		Language:      "en-US",
		RecordSeconds: 5,
		SecretsFile:   ClientSecretFile,
		TokenFile:     TokenFile,
	}
}

// Load layers defaults, the JSON file at path (skipped when it does not
// exist) and the environment. A .env file in the working directory is loaded
// into the environment first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), kJson.Parser()); err != nil {
				return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("VOXPENSE_", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a session.
func (c Config) Validate() error {
	if c.BudgetFile == "" {
		return fmt.Errorf("VOXPENSE_BUDGET_FILE must not be empty")
	}
	if c.ExpensesFile == "" {
		return fmt.Errorf("VOXPENSE_EXPENSES_FILE must not be empty")
	}
	if _, err := expenses.ParsePolicy(c.CorruptLines); err != nil {
		return fmt.Errorf("VOXPENSE_CORRUPT_LINES: %w", err)
	}
	if c.RecordSeconds <= 0 {
		return fmt.Errorf("VOXPENSE_RECORD_SECONDS must be positive, got %d", c.RecordSeconds)
	}
	if c.InputConfig != "" && !json.Valid([]byte(c.InputConfig)) {
		return fmt.Errorf("VOXPENSE_INPUT_CONFIG is not valid JSON")
	}
	if c.OutputConfig != "" && !json.Valid([]byte(c.OutputConfig)) {
		return fmt.Errorf("VOXPENSE_OUTPUT_CONFIG is not valid JSON")
	}
	return nil
}

// CorruptPolicy returns the parsed corrupt line policy.
func (c Config) CorruptPolicy() expenses.Policy {
	p, err := expenses.ParsePolicy(c.CorruptLines)
	if err != nil {
		return expenses.PolicyAbort
	}
	return p
}

// InputPluginConfig returns the JSON handed to the input plugin:
// VOXPENSE_INPUT_CONFIG verbatim when set, otherwise one built from the
// individual settings.
func (c Config) InputPluginConfig() (json.RawMessage, error) {
	if c.InputConfig != "" {
		return json.RawMessage(c.InputConfig), nil
	}

	cfg := map[string]any{
		"language":      c.Language,
		"recordSeconds": c.RecordSeconds,
	}
	if c.Recorder != "" {
		cfg["recorder"] = c.Recorder
	}
	if c.GoogleAPIKey != "" {
		cfg["apiKey"] = c.GoogleAPIKey
	}

	return json.Marshal(cfg)
}

// OutputPluginConfig returns the JSON handed to the output plugin.
func (c Config) OutputPluginConfig() (json.RawMessage, error) {
	if c.OutputConfig != "" {
		return json.RawMessage(c.OutputConfig), nil
	}

	cfg := map[string]any{
		"language": c.Language,
	}
	if c.Voice != "" {
		cfg["voice"] = c.Voice
	}
	if c.Player != "" {
		cfg["player"] = c.Player
	}
	if c.GoogleAPIKey != "" {
		cfg["apiKey"] = c.GoogleAPIKey
	}

	return json.Marshal(cfg)
}
