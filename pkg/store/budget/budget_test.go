package budget

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "budget.txt"), slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestGet_MissingFile(t *testing.T) {
	s := newStore(t)

	_, err := s.Get()
	if !errors.Is(err, ErrNotSet) {
		t.Fatalf("Get() error = %v, want ErrNotSet", err)
	}

	var corrupt *CorruptError
	if errors.As(err, &corrupt) {
		t.Error("missing file reported as corrupt")
	}
}

func TestGet_CorruptFile(t *testing.T) {
	tests := []string{"lots", "12.5", "-3", ""}

	for _, contents := range tests {
		t.Run(contents, func(t *testing.T) {
			s := newStore(t)
			if err := os.WriteFile(s.Path(), []byte(contents), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := s.Get()
			if !errors.Is(err, ErrNotSet) {
				t.Fatalf("Get() error = %v, want ErrNotSet", err)
			}
			var corrupt *CorruptError
			if !errors.As(err, &corrupt) {
				t.Fatalf("Get() error = %v, want *CorruptError", err)
			}
		})
	}
}

func TestSetThenGet(t *testing.T) {
	s := newStore(t)

	if err := s.Set(2050); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2050" {
		t.Errorf("file contents = %q, want %q", data, "2050")
	}

	got, err := s.Get()
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != 2050 {
		t.Errorf("Get() = %d, want 2050", got)
	}

	if err := s.Set(0); err != nil {
		t.Fatalf("Set(0) error: %v", err)
	}
	if got, _ := s.Get(); got != 0 {
		t.Errorf("Get() after overwrite = %d, want 0", got)
	}
}

func TestGet_TrailingNewline(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path(), []byte("1500\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get()
	if err != nil || got != 1500 {
		t.Errorf("Get() = (%d, %v), want (1500, nil)", got, err)
	}
}

func TestSet_Negative(t *testing.T) {
	s := newStore(t)
	if err := s.Set(-1); !errors.Is(err, ErrNegative) {
		t.Errorf("Set(-1) error = %v, want ErrNegative", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Set(-1) created the budget file")
	}
}
