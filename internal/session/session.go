// Package session drives a voxpense conversation: it announces or sets the
// budget, then dispatches spoken commands until the user says "exit".
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/format"
	"github.com/ArionMiles/voxpense/pkg/numwords"
	"github.com/ArionMiles/voxpense/pkg/store/budget"
	"github.com/ArionMiles/voxpense/pkg/store/expenses"
	"github.com/ArionMiles/voxpense/pkg/summary"
)

// Spoken commands, matched case-insensitively against the whole transcript.
const (
	CommandInputExpense = "input my expense"
	CommandSummarize    = "read and summarize my expenses"
	CommandChangeBudget = "change my budget"
	CommandExit         = "exit"
)

// Responses.
const (
	msgCurrentBudget   = "Your current budget is %s"
	msgCorruptBudget   = "Error reading budget file. Setting a new budget."
	msgSetBudget       = "Please set your budget for this month."
	msgInvalidBudget   = "Invalid input. Please provide a valid number for the budget."
	msgBudgetSet       = "You've set your budget to %s"
	msgWhatToDo        = "What would you like to do"
	msgExpenseDetails  = "Getting details for expenses"
	msgExpenseName     = "please say the expense name"
	msgInvalidName     = "Invalid input. The expense name cannot contain commas or quotes."
	msgExpenseAmount   = "please say the expense amount"
	msgInvalidAmount   = "Invalid input. Please provide a valid number for the expense amount."
	msgExpenseCategory = "please select a category for your expense: "
	msgInvalidCategory = "Invalid category, please try again."
	msgCaptured        = "Expense details captured. %s"
	msgCorruptLog      = "I couldn't read your expenses: line %d of the expense log is invalid. Please fix or remove it."
	msgExiting         = "Exiting the program."
	msgUnrecognized    = "I'm sorry, I didn't understand that command. Please try again."
)

// State is a position in the conversation.
type State int

// Conversation states.
const (
	AwaitingCommand State = iota
	RecordingExpenseName
	RecordingExpenseAmount
	RecordingExpenseCategory
	SettingBudget
	Exited
)

func (s State) String() string {
	switch s {
	case AwaitingCommand:
		return "awaiting_command"
	case RecordingExpenseName:
		return "recording_expense_name"
	case RecordingExpenseAmount:
		return "recording_expense_amount"
	case RecordingExpenseCategory:
		return "recording_expense_category"
	case SettingBudget:
		return "setting_budget"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	Append(e api.Expense) error
	LoadAll() ([]api.Expense, error)
}

// BudgetStore persists the monthly budget.
type BudgetStore interface {
	Get() (int64, error)
	Set(v int64) error
}

// Config holds the collaborators of a Session.
type Config struct {
	Input    api.VoiceInput
	Output   api.VoiceOutput
	Expenses ExpenseStore
	Budget   BudgetStore
	// Formatter renders spoken amounts. Defaults to English.
	Formatter *format.Formatter
	// Now returns the current time. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Session is a single conversation. It is not safe for concurrent use.
type Session struct {
	input     api.VoiceInput
	output    api.VoiceOutput
	expenses  ExpenseStore
	budgets   BudgetStore
	formatter *format.Formatter
	now       func() time.Time
	logger    *slog.Logger

	state  State
	budget int64
	draft  api.Expense
}

// New creates a Session.
func New(cfg Config) (*Session, error) {
	switch {
	case cfg.Input == nil:
		return nil, fmt.Errorf("voice input is required")
	case cfg.Output == nil:
		return nil, fmt.Errorf("voice output is required")
	case cfg.Expenses == nil:
		return nil, fmt.Errorf("expense store is required")
	case cfg.Budget == nil:
		return nil, fmt.Errorf("budget store is required")
	}

	if cfg.Formatter == nil {
		cfg.Formatter = format.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Session{
		input:     cfg.Input,
		output:    cfg.Output,
		expenses:  cfg.Expenses,
		budgets:   cfg.Budget,
		formatter: cfg.Formatter,
		now:       cfg.Now,
		logger:    cfg.Logger,
		state:     AwaitingCommand,
	}, nil
}

// State returns the current conversation state.
func (s *Session) State() State {
	return s.state
}

// Budget returns the budget in effect.
func (s *Session) Budget() int64 {
	return s.budget
}

// Run holds the conversation until the user exits or the input is closed.
// It returns an error only when the context is canceled or a file cannot be
// read or written.
func (s *Session) Run(ctx context.Context) error {
	if err := s.start(ctx); err != nil {
		return s.finish(err)
	}

	for s.state != Exited {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.step(ctx); err != nil {
			return s.finish(err)
		}
	}

	s.logger.Info("session ended")
	return nil
}

func (s *Session) finish(err error) error {
	if errors.Is(err, api.ErrInputClosed) {
		s.logger.Info("voice input closed, ending session", "state", s.state)
		return nil
	}
	return err
}

// start loads the budget, announcing it or falling into the set flow.
func (s *Session) start(ctx context.Context) error {
	b, err := s.budgets.Get()
	if err == nil {
		s.budget = b
		s.say(ctx, fmt.Sprintf(msgCurrentBudget, s.formatter.Amount(b)))
		s.state = AwaitingCommand
		return nil
	}

	var corrupt *budget.CorruptError
	switch {
	case errors.As(err, &corrupt):
		s.say(ctx, msgCorruptBudget)
	case errors.Is(err, budget.ErrNotSet):
	default:
		return fmt.Errorf("loading budget: %w", err)
	}

	s.state = SettingBudget
	return nil
}

func (s *Session) step(ctx context.Context) error {
	switch s.state {
	case AwaitingCommand:
		return s.awaitCommand(ctx)
	case RecordingExpenseName:
		return s.recordName(ctx)
	case RecordingExpenseAmount:
		return s.recordAmount(ctx)
	case RecordingExpenseCategory:
		return s.recordCategory(ctx)
	case SettingBudget:
		return s.setBudget(ctx)
	default:
		return fmt.Errorf("unexpected session state %s", s.state)
	}
}

func (s *Session) awaitCommand(ctx context.Context) error {
	s.say(ctx, msgWhatToDo)

	text, heard, err := s.listen(ctx)
	if err != nil {
		return err
	}
	if !heard {
		s.say(ctx, msgUnrecognized)
		return nil
	}

	s.logger.Debug("command received", "command", text)

	switch text {
	case CommandInputExpense:
		s.say(ctx, msgExpenseDetails)
		s.draft = api.Expense{}
		s.state = RecordingExpenseName
	case CommandSummarize:
		return s.summarize(ctx)
	case CommandChangeBudget:
		s.state = SettingBudget
	case CommandExit:
		s.say(ctx, msgExiting)
		s.state = Exited
	default:
		s.say(ctx, msgUnrecognized)
	}
	return nil
}

func (s *Session) recordName(ctx context.Context) error {
	s.say(ctx, msgExpenseName)

	text, heard, err := s.listen(ctx)
	if err != nil || !heard {
		return err
	}
	if !expenses.ValidName(text) {
		s.say(ctx, msgInvalidName)
		return nil
	}

	s.draft.Name = text
	s.state = RecordingExpenseAmount
	return nil
}

func (s *Session) recordAmount(ctx context.Context) error {
	s.say(ctx, msgExpenseAmount)

	text, heard, err := s.listen(ctx)
	if err != nil || !heard {
		return err
	}

	amount, ok := numwords.ParseTranscript(text)
	if !ok || amount < 0 {
		s.say(ctx, msgInvalidAmount)
		return nil
	}

	s.logger.Info("expense amount entered", "amount", s.formatter.Amount(amount))
	s.draft.Amount = amount
	s.state = RecordingExpenseCategory
	return nil
}

func (s *Session) recordCategory(ctx context.Context) error {
	names := make([]string, 0, len(api.Categories()))
	for _, c := range api.Categories() {
		names = append(names, string(c))
	}
	s.say(ctx, msgExpenseCategory+strings.Join(names, ", "))

	text, heard, err := s.listen(ctx)
	if err != nil || !heard {
		return err
	}

	category, err := api.ParseCategory(text)
	if err != nil {
		s.say(ctx, msgInvalidCategory)
		return nil
	}

	s.draft.Category = category
	s.say(ctx, fmt.Sprintf(msgCaptured, s.draft))

	if err := s.expenses.Append(s.draft); err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	s.logger.Info("expense saved", "name", s.draft.Name, "category", s.draft.Category, "amount", s.draft.Amount)

	s.draft = api.Expense{}
	s.state = AwaitingCommand
	return nil
}

func (s *Session) setBudget(ctx context.Context) error {
	s.say(ctx, msgSetBudget)

	text, heard, err := s.listen(ctx)
	if err != nil || !heard {
		return err
	}

	v, ok := numwords.ParseTranscript(text)
	if !ok || v < 0 {
		s.say(ctx, msgInvalidBudget)
		return nil
	}

	if err := s.budgets.Set(v); err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}
	s.budget = v
	s.say(ctx, fmt.Sprintf(msgBudgetSet, s.formatter.Amount(v)))

	s.state = AwaitingCommand
	return nil
}

// summarize speaks the report for the whole log. A corrupt line abandons the
// command and tells the user where the problem is.
func (s *Session) summarize(ctx context.Context) error {
	all, err := s.expenses.LoadAll()
	if err != nil {
		var lineErr *expenses.LineError
		if errors.As(err, &lineErr) {
			s.logger.Warn("summary abandoned", "error", err)
			s.say(ctx, fmt.Sprintf(msgCorruptLog, lineErr.Line))
			return nil
		}
		return fmt.Errorf("loading expenses: %w", err)
	}

	report := summary.Summarize(all, s.budget, s.now())
	for _, line := range report.Lines(s.formatter) {
		s.say(ctx, line)
	}
	return nil
}

// listen returns the next transcript. heard is false after a recoverable
// recognition failure; err is set only when the session must stop.
func (s *Session) listen(ctx context.Context) (text string, heard bool, err error) {
	text, err = s.input.Listen(ctx)
	if err != nil {
		if api.IsRecognitionFailure(err) {
			s.logger.Info("could not recognize speech", "state", s.state, "error", err)
			return "", false, nil
		}
		return "", false, err
	}
	text = strings.ToLower(strings.TrimSpace(text))
	return text, text != "", nil
}

func (s *Session) say(ctx context.Context, text string) {
	if err := s.output.Speak(ctx, text); err != nil {
		s.logger.Warn("failed to speak response", "text", text, "error", err)
	}
}
