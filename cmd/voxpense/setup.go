package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ArionMiles/voxpense/pkg/client"
	"github.com/ArionMiles/voxpense/pkg/config"
	googlevoice "github.com/ArionMiles/voxpense/pkg/voice/google"
)

// runSetup handles the OAuth setup flow.
func runSetup(force bool) error {
	fmt.Println(titleStyle.Render("voxpense setup"))
	fmt.Println()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(cfg.SecretsFile); os.IsNotExist(err) {
		return fmt.Errorf("credentials file not found: %s\n\nTo get your credentials:\n"+
			"1. Go to https://console.cloud.google.com/apis/credentials\n"+
			"2. Enable the Cloud Speech-to-Text and Cloud Text-to-Speech APIs\n"+
			"3. Create an OAuth 2.0 Client ID (Desktop application)\n"+
			"4. Download the JSON file and save it as '%s'", cfg.SecretsFile, cfg.SecretsFile)
	}

	if !force {
		if _, err := os.Stat(cfg.TokenFile); err == nil {
			fmt.Printf("Already authenticated! Token file exists: %s\n", cfg.TokenFile)
			fmt.Println()
			fmt.Println("To re-authenticate, run: voxpense setup --force")
			return nil
		}
	}

	if force {
		if err := os.Remove(cfg.TokenFile); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove existing token", "error", err)
		}
		fmt.Println("Forcing re-authentication...")
		fmt.Println()
	}

	fmt.Println("This will set up OAuth authentication with Google.")
	fmt.Println()
	fmt.Println("Required permissions:")
	fmt.Println("  - Cloud Platform: transcribe your voice commands and synthesize replies")
	fmt.Println()
	fmt.Println("Starting authentication...")
	fmt.Println()

	_, err = client.New(client.Config{
		SecretsFile: cfg.SecretsFile,
		TokenFile:   cfg.TokenFile,
		Interactive: true,
	}, googlevoice.Scopes()...)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Println()
	fmt.Println(okStyle.Render("Setup complete"))
	fmt.Println()
	fmt.Printf("Token saved to: %s\n", cfg.TokenFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Set VOXPENSE_INPUT=google and VOXPENSE_OUTPUT=google (or add them to config.json)")
	fmt.Println("  2. Run 'voxpense status' to check your microphone and speaker programs")
	fmt.Println("  3. Run 'voxpense' and say \"input my expense\"")
	fmt.Println()

	return nil
}
