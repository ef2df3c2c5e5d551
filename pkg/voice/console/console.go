// Package console implements voice input and output over a terminal: typed
// lines stand in for transcripts and responses are printed.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ArionMiles/voxpense/pkg/api"
)

// Listener reads one transcript per line.
type Listener struct {
	reader *bufio.Reader
	prompt io.Writer
	mu     sync.Mutex
}

// NewListener creates a Listener reading from r. When prompt is non-nil a
// "> " marker is written to it before each read.
func NewListener(r io.Reader, prompt io.Writer) *Listener {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &Listener{reader: bufio.NewReader(r), prompt: prompt}
}

// Listen returns the next line, trimmed and lowercased. Blank lines yield
// ErrNotUnderstood and the end of input yields ErrInputClosed.
func (l *Listener) Listen(ctx context.Context) (string, error) {
	if l.prompt != nil {
		fmt.Fprint(l.prompt, "> ")
	}

	type result struct {
		line string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		line, err := l.reader.ReadString('\n')
		resultCh <- result{line: line, err: err}
	}()

	// The reading goroutine outlives a canceled context until the line arrives.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			if !errors.Is(res.err, io.EOF) {
				return "", fmt.Errorf("reading input: %w", res.err)
			}
			if strings.TrimSpace(res.line) == "" {
				return "", api.ErrInputClosed
			}
		}
		text := strings.ToLower(strings.TrimSpace(res.line))
		if text == "" {
			return "", api.ErrNotUnderstood
		}
		return text, nil
	}
}

// Speaker prints each response on its own line.
type Speaker struct {
	w io.Writer
}

// NewSpeaker creates a Speaker writing to w.
func NewSpeaker(w io.Writer) *Speaker {
	return &Speaker{w: w}
}

// Speak writes text followed by a newline.
func (s *Speaker) Speak(_ context.Context, text string) error {
	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
