package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ArionMiles/voxpense/internal/plugins"
	"github.com/ArionMiles/voxpense/internal/session"
	"github.com/ArionMiles/voxpense/pkg/client"
	"github.com/ArionMiles/voxpense/pkg/config"
)

// runVoxpense holds a voice session until the user says "exit".
func runVoxpense(parent context.Context) error {
	logger := slog.Default()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := plugins.Builtin()

	httpClient, err := oauthClient(registry, cfg, false)
	if err != nil {
		return err
	}

	// Setup context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := session.NewRunner(registry, httpClient, logger)
	return runner.Run(ctx, cfg)
}

// oauthClient returns the OAuth client for the selected plugins, or nil when
// they need no scopes or an API key is configured.
func oauthClient(registry *plugins.Registry, cfg config.Config, interactive bool) (*http.Client, error) {
	scopes, err := registry.GetAllScopes(cfg.Input, cfg.Output)
	if err != nil {
		return nil, err
	}
	if len(scopes) == 0 || cfg.GoogleAPIKey != "" {
		return nil, nil
	}

	slog.Debug("OAuth scopes required", "scopes", scopes)

	httpClient, err := client.New(client.Config{
		SecretsFile: cfg.SecretsFile,
		TokenFile:   cfg.TokenFile,
		Interactive: interactive,
	}, scopes...)
	if err != nil {
		if errors.Is(err, client.ErrNoToken) {
			return nil, fmt.Errorf("%w, or set VOXPENSE_GOOGLE_API_KEY", err)
		}
		return nil, fmt.Errorf("creating http client: %w", err)
	}
	return httpClient, nil
}
