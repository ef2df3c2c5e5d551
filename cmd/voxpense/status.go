package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/texttospeech/v1"

	"github.com/ArionMiles/voxpense/internal/plugins"
	"github.com/ArionMiles/voxpense/pkg/audio"
	"github.com/ArionMiles/voxpense/pkg/client"
	"github.com/ArionMiles/voxpense/pkg/config"
	"github.com/ArionMiles/voxpense/pkg/format"
	"github.com/ArionMiles/voxpense/pkg/logging"
	"github.com/ArionMiles/voxpense/pkg/store/budget"
	"github.com/ArionMiles/voxpense/pkg/store/expenses"
	googlevoice "github.com/ArionMiles/voxpense/pkg/voice/google"
)

// runStatus checks the configuration, data files and credentials.
func runStatus() error {
	fmt.Println(titleStyle.Render("voxpense status"))
	fmt.Println()

	allGood := true
	fail := func() { allGood = false }

	cfg, ok := checkConfig(fail)
	if !ok {
		printFinalStatus(false)
		return nil
	}

	checkDataFiles(cfg, fail)

	registry := plugins.Builtin()
	scopes, err := registry.GetAllScopes(cfg.Input, cfg.Output)
	if err != nil {
		printCheck("Plugins", checkFail, err.Error())
		fail()
	} else {
		printCheck("Plugins", checkOK, fmt.Sprintf("input=%s output=%s", cfg.Input, cfg.Output))
	}

	if len(scopes) > 0 {
		checkAudio(cfg, fail)
		if httpClient, ok := checkCredentials(cfg, fail); ok {
			checkAPIConnectivity(cfg, httpClient, fail)
		}
	}

	printFinalStatus(allGood)
	return nil
}

func checkConfig(fail func()) (config.Config, bool) {
	fmt.Println(headerStyle.Render("Configuration"))

	if _, err := os.Stat(flagConfig); err == nil {
		printCheck("Config file", checkOK, flagConfig)
	} else {
		printCheck("Config file", checkWarn, fmt.Sprintf("%s not found, using defaults and environment", flagConfig))
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		printCheck("Settings", checkFail, err.Error())
		fail()
		return config.Config{}, false
	}
	printCheck("Settings", checkOK, fmt.Sprintf("language=%s corrupt lines=%s", cfg.Language, cfg.CorruptPolicy()))
	return cfg, true
}

func checkDataFiles(cfg config.Config, fail func()) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Data"))

	logger := logging.Discard()
	f := format.New(cfg.Language)

	budgets, err := budget.New(cfg.BudgetFile, logger)
	if err != nil {
		printCheck("Budget", checkFail, err.Error())
		fail()
	} else {
		v, err := budgets.Get()
		var corrupt *budget.CorruptError
		switch {
		case err == nil:
			printCheck("Budget", checkOK, f.Amount(v))
		case errors.As(err, &corrupt):
			printCheck("Budget", checkWarn, fmt.Sprintf("%s is corrupt (%q), you will be asked for a new budget", cfg.BudgetFile, corrupt.Contents))
		case errors.Is(err, budget.ErrNotSet):
			printCheck("Budget", checkWarn, "not set, you will be asked on first run")
		default:
			printCheck("Budget", checkFail, err.Error())
			fail()
		}
	}

	store, err := expenses.New(expenses.Config{FilePath: cfg.ExpensesFile, Policy: cfg.CorruptPolicy()}, logger)
	if err != nil {
		printCheck("Expense log", checkFail, err.Error())
		fail()
		return
	}
	all, err := store.LoadAll()
	var lineErr *expenses.LineError
	switch {
	case err == nil:
		printCheck("Expense log", checkOK, fmt.Sprintf("%s (%d expenses)", cfg.ExpensesFile, len(all)))
	case errors.As(err, &lineErr):
		printCheck("Expense log", checkFail, fmt.Sprintf("%s line %d: %s", cfg.ExpensesFile, lineErr.Line, lineErr.Reason))
		fail()
	default:
		printCheck("Expense log", checkFail, err.Error())
		fail()
	}
}

func checkAudio(cfg config.Config, fail func()) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Audio"))

	if cfg.Input == "google" {
		if r, err := audio.NewRecorder(cfg.Recorder); err != nil {
			printCheck("Recorder", checkFail, err.Error())
			fail()
		} else {
			checkProgram("Recorder", r.Program(), fail)
		}
	}

	if cfg.Output == "google" {
		if p, err := audio.NewPlayer(cfg.Player); err != nil {
			printCheck("Player", checkFail, err.Error())
			fail()
		} else {
			checkProgram("Player", p.Program(), fail)
		}
	}
}

func checkProgram(label, program string, fail func()) {
	path, err := exec.LookPath(program)
	if err != nil {
		printCheck(label, checkFail, fmt.Sprintf("%s not found in PATH", program))
		fail()
		return
	}
	printCheck(label, checkOK, path)
}

func checkCredentials(cfg config.Config, fail func()) (*http.Client, bool) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Google credentials"))

	if cfg.GoogleAPIKey != "" {
		printCheck("API key", checkOK, "VOXPENSE_GOOGLE_API_KEY is set")
		return nil, true
	}

	if _, err := os.Stat(cfg.SecretsFile); os.IsNotExist(err) {
		printCheck("Credentials file", checkFail, fmt.Sprintf("%s not found", cfg.SecretsFile))
		fail()
		return nil, false
	}
	printCheck("Credentials file", checkOK, cfg.SecretsFile)

	token, err := checkToken(cfg.TokenFile)
	if err != nil {
		printCheck("OAuth token", checkFail, err.Error())
		fail()
		return nil, false
	}
	if token.Expiry.Before(time.Now()) {
		printCheck("OAuth token", checkWarn, "expired (will refresh on next run)")
	} else {
		printCheck("OAuth token", checkOK, fmt.Sprintf("valid (expires: %s)", token.Expiry.Format(time.RFC3339)))
	}

	httpClient, err := client.New(client.Config{SecretsFile: cfg.SecretsFile, TokenFile: cfg.TokenFile}, googlevoice.Scopes()...)
	if err != nil {
		printCheck("OAuth client", checkFail, err.Error())
		fail()
		return nil, false
	}
	return httpClient, true
}

func checkToken(tokenPath string) (*oauth2.Token, error) {
	token, err := client.TokenFromFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found (run 'voxpense setup')", tokenPath)
		}
		return nil, fmt.Errorf("invalid format")
	}
	return token, nil
}

func checkAPIConnectivity(cfg config.Config, httpClient *http.Client, fail func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, err := texttospeech.NewService(ctx, googlevoice.ClientOptions(httpClient, cfg.GoogleAPIKey, "")...)
	if err != nil {
		printCheck("Text-to-Speech API", checkFail, fmt.Sprintf("creating service: %v", err))
		fail()
		return
	}

	// Listing voices exercises the credentials without synthesizing audio.
	resp, err := svc.Voices.List().LanguageCode(cfg.Language).Context(ctx).Do()
	if err != nil {
		printCheck("Text-to-Speech API", checkFail, fmt.Sprintf("API call failed: %v", err))
		fail()
		return
	}
	printCheck("Text-to-Speech API", checkOK, fmt.Sprintf("connected (%d voices for %s)", len(resp.Voices), cfg.Language))
}

func printFinalStatus(allGood bool) {
	fmt.Println()
	if allGood {
		fmt.Println(okStyle.Render("Status: ready"))
		fmt.Println()
		fmt.Println("Run 'voxpense' and say \"input my expense\".")
	} else {
		fmt.Println(errStyle.Render("Status: configuration issues detected"))
		fmt.Println()
		fmt.Println("Fix the issues above, then run 'voxpense status' again.")
	}
}
