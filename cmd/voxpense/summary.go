package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ArionMiles/voxpense/pkg/config"
	"github.com/ArionMiles/voxpense/pkg/format"
	"github.com/ArionMiles/voxpense/pkg/logging"
	"github.com/ArionMiles/voxpense/pkg/store/budget"
	"github.com/ArionMiles/voxpense/pkg/store/expenses"
	"github.com/ArionMiles/voxpense/pkg/summary"
)

// runSummary prints the current month's report for the expense log.
func runSummary() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Discard()

	budgets, err := budget.New(cfg.BudgetFile, logger)
	if err != nil {
		return err
	}
	b, err := budgets.Get()
	budgetSet := err == nil
	if err != nil && !errors.Is(err, budget.ErrNotSet) {
		return fmt.Errorf("reading budget: %w", err)
	}

	store, err := expenses.New(expenses.Config{FilePath: cfg.ExpensesFile, Policy: cfg.CorruptPolicy()}, logger)
	if err != nil {
		return err
	}
	all, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("reading expenses: %w", err)
	}

	report := summary.Summarize(all, b, time.Now())
	renderSummary(os.Stdout, report, budgetSet, format.New(cfg.Language))
	return nil
}

func renderSummary(w io.Writer, r summary.Report, budgetSet bool, f *format.Formatter) {
	fmt.Fprintln(w, titleStyle.Render("Expense summary"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("By category"))
	if len(r.ByCategory) == 0 {
		fmt.Fprintln(w, labelStyle.Render("no expenses recorded"))
	}
	for _, c := range r.ByCategory {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(string(c.Category)), valueStyle.Render(f.Amount(c.Amount)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headerStyle.Render("This month"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Spent"), valueStyle.Render(f.Amount(r.TotalSpent)))
	if !budgetSet {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Budget"), warnStyle.Render("not set (run voxpense and say \"change my budget\")"))
		return
	}

	remaining := valueStyle.Render(f.Amount(r.RemainingBudget))
	perDay := valueStyle.Render(f.Amount(r.DailyAllowance))
	if r.RemainingBudget < 0 {
		remaining = errStyle.Render(f.Amount(r.RemainingBudget))
		perDay = errStyle.Render(f.Amount(r.DailyAllowance))
	}

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Budget"), valueStyle.Render(f.Amount(r.Budget)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Remaining"), remaining)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Days left"), valueStyle.Render(strconv.Itoa(r.RemainingDays)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Per day"), perDay)
}
