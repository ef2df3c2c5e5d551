// Package api defines the core interfaces and data structures for voxpense.
package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Recognition failures. Both are recoverable: the caller reprompts.
var (
	// ErrNotUnderstood is returned when speech was captured but could not be transcribed.
	ErrNotUnderstood = errors.New("could not understand audio")
	// ErrServiceUnavailable is returned when the recognition service could not be reached.
	ErrServiceUnavailable = errors.New("speech service unavailable")
)

// ErrInputClosed is returned by a VoiceInput whose source has no more input.
var ErrInputClosed = errors.New("voice input closed")

// ErrInvalidCategory is returned by ParseCategory for values outside the fixed set.
var ErrInvalidCategory = errors.New("invalid category")

// Category groups expenses. The set is closed.
type Category string

// Expense categories.
const (
	CategoryFood   Category = "food"
	CategoryHome   Category = "home"
	CategoryWork   Category = "work"
	CategoryFun    Category = "fun"
	CategoryOthers Category = "others"
)

// Categories returns the fixed category set in prompt order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryHome, CategoryWork, CategoryFun, CategoryOthers}
}

// ParseCategory trims and lowercases s and checks it against the fixed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Expense is a single recorded expense.
type Expense struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Amount   int64    `json:"amount"`
}

// String renders the expense the way it is persisted and read back to the user.
func (e Expense) String() string {
	return e.Name + ", " + string(e.Category) + ", " + strconv.FormatInt(e.Amount, 10)
}

// VoiceInput captures one utterance and returns its lowercase transcript.
// Implementations return ErrNotUnderstood or ErrServiceUnavailable (possibly
// wrapped) for recoverable failures and ErrInputClosed when no input remains.
type VoiceInput interface {
	Listen(ctx context.Context) (string, error)
}

// VoiceOutput delivers a response to the user.
type VoiceOutput interface {
	Speak(ctx context.Context, text string) error
}

// IsRecognitionFailure reports whether err is a recoverable recognition failure.
func IsRecognitionFailure(err error) bool {
	return errors.Is(err, ErrNotUnderstood) || errors.Is(err, ErrServiceUnavailable)
}
