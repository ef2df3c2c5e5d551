package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ArionMiles/voxpense/internal/plugins"
	"github.com/ArionMiles/voxpense/pkg/config"
	"github.com/ArionMiles/voxpense/pkg/format"
	"github.com/ArionMiles/voxpense/pkg/store/budget"
	"github.com/ArionMiles/voxpense/pkg/store/expenses"
)

// Runner wires configuration, plugins and stores into a Session.
type Runner struct {
	registry   *plugins.Registry
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRunner creates a runner. httpClient may be nil when no plugin needs OAuth.
func NewRunner(registry *plugins.Registry, httpClient *http.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		registry:   registry,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Run holds one session with the given configuration. It blocks until the
// user exits, the input closes or the context is canceled.
func (r *Runner) Run(ctx context.Context, cfg config.Config) error {
	r.logger.Info("starting voxpense session",
		"input", cfg.Input,
		"output", cfg.Output,
		"budget_file", cfg.BudgetFile,
		"expenses_file", cfg.ExpensesFile,
	)

	inputCfg, err := cfg.InputPluginConfig()
	if err != nil {
		return fmt.Errorf("building input config: %w", err)
	}
	input, err := r.registry.CreateInput(ctx,
		cfg.Input,
		r.httpClient,
		inputCfg,
		r.logger.With("component", "input", "plugin", cfg.Input),
	)
	if err != nil {
		return fmt.Errorf("creating input: %w", err)
	}

	outputCfg, err := cfg.OutputPluginConfig()
	if err != nil {
		return fmt.Errorf("building output config: %w", err)
	}
	output, err := r.registry.CreateOutput(ctx,
		cfg.Output,
		r.httpClient,
		outputCfg,
		r.logger.With("component", "output", "plugin", cfg.Output),
	)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	expenseStore, err := expenses.New(expenses.Config{
		FilePath: cfg.ExpensesFile,
		Policy:   cfg.CorruptPolicy(),
	}, r.logger.With("component", "expenses"))
	if err != nil {
		return fmt.Errorf("creating expense store: %w", err)
	}

	budgetStore, err := budget.New(cfg.BudgetFile, r.logger.With("component", "budget"))
	if err != nil {
		return fmt.Errorf("creating budget store: %w", err)
	}

	s, err := New(Config{
		Input:     input,
		Output:    output,
		Expenses:  expenseStore,
		Budget:    budgetStore,
		Formatter: format.New(cfg.Language),
		Logger:    r.logger.With("component", "session"),
	})
	if err != nil {
		return err
	}

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	r.logger.Info("voxpense session stopped", "state", s.State())
	return nil
}
