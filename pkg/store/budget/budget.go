// Package budget persists the monthly budget as a one-line text file.
package budget

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ErrNotSet is returned by Get when no usable budget is stored.
var ErrNotSet = errors.New("budget not set")

// ErrNegative is returned by Set for negative budgets.
var ErrNegative = errors.New("budget must not be negative")

// Store reads and writes the budget file.
type Store struct {
	filePath string
	logger   *slog.Logger
}

// New creates a new budget store.
func New(filePath string, logger *slog.Logger) (*Store, error) {
	if filePath == "" {
		return nil, fmt.Errorf("budget file path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{filePath: filePath, logger: logger}, nil
}

// Path returns the budget file path.
func (s *Store) Path() string {
	return s.filePath
}

// Get returns the stored budget. A missing file and unparseable contents
// both wrap ErrNotSet; the latter also reports the bad contents.
func (s *Store) Get() (int64, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotSet
		}
		return 0, fmt.Errorf("reading budget file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || v < 0 {
		s.logger.Warn("budget file is corrupt", "file", s.filePath, "contents", text)
		return 0, &CorruptError{Contents: text}
	}

	return v, nil
}

// Set overwrites the budget file with v.
func (s *Store) Set(v int64) error {
	if v < 0 {
		return ErrNegative
	}

	if err := os.WriteFile(s.filePath, []byte(strconv.FormatInt(v, 10)), 0o600); err != nil {
		return fmt.Errorf("writing budget file: %w", err)
	}

	s.logger.Debug("budget saved", "file", s.filePath, "budget", v)
	return nil
}

// CorruptError reports a budget file whose contents are not a valid budget.
type CorruptError struct {
	Contents string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("budget file contents %q are not a valid budget", e.Contents)
}

// Unwrap lets callers treat a corrupt file as an unset budget.
func (e *CorruptError) Unwrap() error {
	return ErrNotSet
}
