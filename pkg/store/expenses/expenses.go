// Package expenses implements the append-only expense log.
//
// Each record is one line of the form "name, category, amount". There is no
// header row and no quoting, so names may not contain commas.
package expenses

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ArionMiles/voxpense/pkg/api"
)

// ErrInvalidName is returned by Append for names that would corrupt the log.
var ErrInvalidName = errors.New("expense name must be non-empty and contain no commas, quotes or newlines")

// ErrCorruptLine marks a log line that is not a valid record.
var ErrCorruptLine = errors.New("corrupt expense line")

// Policy decides what LoadAll does with a corrupt line.
type Policy string

const (
	// PolicyAbort fails the whole load on the first corrupt line.
	PolicyAbort Policy = "abort"
	// PolicySkip drops corrupt lines and logs a warning for each.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name. The empty string means PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown corrupt line policy %q (want %q or %q)", s, PolicyAbort, PolicySkip)
	}
}

// LineError reports a corrupt line and its 1-based line number.
type LineError struct {
	Line   int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Unwrap makes errors.Is(err, ErrCorruptLine) hold for every LineError.
func (e *LineError) Unwrap() error {
	return ErrCorruptLine
}

// Config holds configuration for the expense log.
type Config struct {
	// FilePath is the path to the log file.
	FilePath string
	// Policy selects the corrupt line behavior. Defaults to PolicyAbort.
	Policy Policy
}

// Store reads and appends expense records.
type Store struct {
	filePath string
	policy   Policy
	logger   *slog.Logger
}

// New creates a new expense store. The file is created lazily on first Append.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("expense log path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}

	return &Store{
		filePath: cfg.FilePath,
		policy:   policy,
		logger:   logger,
	}, nil
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.filePath
}

// ValidName reports whether name can be stored and read back unchanged.
// The reader treats a double quote as the start of a quoted field.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ",\"\r\n")
}

// Append writes one record to the end of the log, creating the file if needed.
func (s *Store) Append(e api.Expense) error {
	if !ValidName(e.Name) {
		return ErrInvalidName
	}

	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening expense log: %w", err)
	}

	if _, err := fmt.Fprintf(f, "%s\n", e); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return fmt.Errorf("writing expense: %w (close error: %w)", err, closeErr)
		}
		return fmt.Errorf("writing expense: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing expense log: %w", err)
	}

	s.logger.Debug("appended expense", "file", s.filePath, "category", e.Category, "amount", e.Amount)
	return nil
}

// LoadAll reads every record in file order. A missing file is an empty log.
func (s *Store) LoadAll() ([]api.Expense, error) {
	f, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening expense log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.ReuseRecord = true

	var out []api.Expense
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("reading expense log: %w", err)
			}
			if err := s.corrupt(&LineError{Line: parseErr.StartLine, Reason: parseErr.Err.Error()}); err != nil {
				return nil, err
			}
			continue
		}

		line, _ := r.FieldPos(0)
		e, lineErr := parseRecord(record, line)
		if lineErr != nil {
			if err := s.corrupt(lineErr); err != nil {
				return nil, err
			}
			continue
		}
		out = append(out, e)
	}

	s.logger.Debug("loaded expenses", "file", s.filePath, "count", len(out))
	return out, nil
}

// corrupt applies the policy to a bad line.
func (s *Store) corrupt(lineErr *LineError) error {
	if s.policy == PolicySkip {
		s.logger.Warn("skipping corrupt expense line",
			"file", s.filePath,
			"line", lineErr.Line,
			"reason", lineErr.Reason,
		)
		return nil
	}
	return fmt.Errorf("loading %s: %w", s.filePath, lineErr)
}

func parseRecord(record []string, line int) (api.Expense, *LineError) {
	if len(record) != 3 {
		return api.Expense{}, &LineError{
			Line:   line,
			Reason: fmt.Sprintf("expected 3 fields, got %d", len(record)),
		}
	}

	amountField := strings.TrimSpace(record[2])
	amount, err := strconv.ParseInt(amountField, 10, 64)
	if err != nil {
		return api.Expense{}, &LineError{
			Line:   line,
			Reason: fmt.Sprintf("amount %q is not an integer", amountField),
		}
	}

	// Categories are not validated on read.
	return api.Expense{
		Name:     strings.TrimSpace(record[0]),
		Category: api.Category(strings.TrimSpace(record[1])),
		Amount:   amount,
	}, nil
}
