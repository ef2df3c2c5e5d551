package expenses

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ArionMiles/voxpense/pkg/api"
)

func newStore(t *testing.T, policy Policy) *Store {
	t.Helper()
	s, err := New(Config{
		FilePath: filepath.Join(t.TempDir(), "expenses.csv"),
		Policy:   policy,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func writeLog(t *testing.T, s *Store, contents string) {
	t.Helper()
	if err := os.WriteFile(s.Path(), []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestAppendThenLoad(t *testing.T) {
	s := newStore(t, PolicyAbort)

	want := []api.Expense{
		{Name: "groceries", Category: api.CategoryFood, Amount: 200},
		{Name: "cinema tickets", Category: api.CategoryFun, Amount: 300},
		{Name: "rent", Category: api.CategoryHome, Amount: 0},
	}
	for _, e := range want {
		if err := s.Append(e); err != nil {
			t.Fatalf("Append(%v) error: %v", e, err)
		}
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	wantFile := "groceries, food, 200\ncinema tickets, fun, 300\nrent, home, 0\n"
	if string(data) != wantFile {
		t.Errorf("file contents = %q, want %q", data, wantFile)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadAll() = %v, want %v", got, want)
	}
}

func TestLoadAll_MissingFile(t *testing.T) {
	s := newStore(t, PolicyAbort)

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadAll() = %v, want empty", got)
	}
}

func TestLoadAll_TrimsAndSkipsBlankLines(t *testing.T) {
	s := newStore(t, PolicyAbort)
	writeLog(t, s, "  coffee ,food,  40  \n\nbus pass, work ,120\r\n")

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	want := []api.Expense{
		{Name: "coffee", Category: api.CategoryFood, Amount: 40},
		{Name: "bus pass", Category: api.CategoryWork, Amount: 120},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadAll() = %v, want %v", got, want)
	}
}

func TestLoadAll_UnknownCategoryKept(t *testing.T) {
	s := newStore(t, PolicyAbort)
	writeLog(t, s, "gift, presents, 75\n")

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(got) != 1 || got[0].Category != "presents" {
		t.Errorf("LoadAll() = %v, want one expense in category presents", got)
	}
}

func TestLoadAll_CorruptLines(t *testing.T) {
	const contents = "coffee, food, 40\n" +
		"broken line\n" +
		"lunch, food, twelve\n" +
		"a, b, c, 4\n" +
		"tram, work, 3\n"

	t.Run("abort", func(t *testing.T) {
		s := newStore(t, PolicyAbort)
		writeLog(t, s, contents)

		got, err := s.LoadAll()
		if err == nil {
			t.Fatalf("LoadAll() = %v, want error", got)
		}
		if !errors.Is(err, ErrCorruptLine) {
			t.Errorf("LoadAll() error = %v, want ErrCorruptLine", err)
		}
		var lineErr *LineError
		if !errors.As(err, &lineErr) {
			t.Fatalf("LoadAll() error = %v, want *LineError", err)
		}
		if lineErr.Line != 2 {
			t.Errorf("LineError.Line = %d, want 2", lineErr.Line)
		}
	})

	t.Run("skip", func(t *testing.T) {
		s := newStore(t, PolicySkip)
		writeLog(t, s, contents)

		got, err := s.LoadAll()
		if err != nil {
			t.Fatalf("LoadAll() error: %v", err)
		}
		want := []api.Expense{
			{Name: "coffee", Category: api.CategoryFood, Amount: 40},
			{Name: "tram", Category: api.CategoryWork, Amount: 3},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("LoadAll() = %v, want %v", got, want)
		}
	})
}

func TestAppend_RejectsUnsafeNames(t *testing.T) {
	s := newStore(t, PolicyAbort)

	for _, name := range []string{"", "milk, eggs", "two\nlines", `"big" lunch`, `"taxi`, `big "lunch"`} {
		err := s.Append(api.Expense{Name: name, Category: api.CategoryFood, Amount: 1})
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Append(name=%q) error = %v, want ErrInvalidName", name, err)
		}
	}

	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("rejected appends created the log file")
	}
}

func TestAppend_QuotedNameKeepsLogReadable(t *testing.T) {
	s := newStore(t, PolicyAbort)

	entries := []api.Expense{
		{Name: `"big" lunch`, Category: api.CategoryFood, Amount: 5},
		{Name: `"taxi`, Category: api.CategoryWork, Amount: 7},
		{Name: "rent", Category: api.CategoryHome, Amount: 900},
	}
	for _, e := range entries {
		err := s.Append(e)
		if e.Name != "rent" && !errors.Is(err, ErrInvalidName) {
			t.Errorf("Append(name=%q) error = %v, want ErrInvalidName", e.Name, err)
		}
		if e.Name == "rent" && err != nil {
			t.Fatalf("Append(rent) error: %v", err)
		}
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	want := []api.Expense{{Name: "rent", Category: api.CategoryHome, Amount: 900}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadAll() = %v, want %v", got, want)
	}
}

func TestValidName(t *testing.T) {
	tests := map[string]bool{
		"coffee":      true,
		"big lunch":   true,
		"":            false,
		"milk, eggs":  false,
		`"big" lunch`: false,
		"line\r":      false,
	}
	for name, want := range tests {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: PolicyAbort},
		{in: "abort", want: PolicyAbort},
		{in: " SKIP ", want: PolicySkip},
		{in: "ignore", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParsePolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
