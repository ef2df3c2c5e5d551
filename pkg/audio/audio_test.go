package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

type call struct {
	name string
	args []string
}

func TestRecordArgs(t *testing.T) {
	tests := []struct {
		program string
		d       time.Duration
		want    []string
	}{
		{
			program: "arecord",
			d:       5 * time.Second,
			want:    []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw", "-d", "5", "-"},
		},
		{
			program: "/usr/bin/rec",
			d:       3 * time.Second,
			want:    []string{"-q", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", "16000", "-c", "1", "-", "trim", "0", "3"},
		},
		{
			program: "sox",
			d:       200 * time.Millisecond,
			want:    []string{"-q", "-d", "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", "16000", "-c", "1", "-", "trim", "0", "1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.program, func(t *testing.T) {
			got, err := recordArgs(tc.program, tc.d)
			if err != nil {
				t.Fatalf("recordArgs() error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("recordArgs() = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := recordArgs("gstreamer", time.Second); err == nil {
		t.Error("recordArgs(gstreamer) returned nil error")
	}
}

func TestCommandRecorder_Record(t *testing.T) {
	var calls []call
	r := &CommandRecorder{
		program: "arecord",
		run: func(_ context.Context, name string, args ...string) ([]byte, error) {
			calls = append(calls, call{name: name, args: args})
			return []byte{1, 2, 3, 4}, nil
		},
	}

	pcm, err := r.Record(context.Background(), 2*time.Second)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if len(pcm) != 4 {
		t.Errorf("Record() returned %d bytes, want 4", len(pcm))
	}
	if len(calls) != 1 || calls[0].name != "arecord" {
		t.Fatalf("calls = %+v, want one arecord call", calls)
	}
}

func TestCommandRecorder_RecordError(t *testing.T) {
	boom := errors.New("device busy")
	r := &CommandRecorder{
		program: "arecord",
		run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, boom
		},
	}

	_, err := r.Record(context.Background(), time.Second)
	if !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrCaptureFailed) {
		t.Errorf("Record() error = %v, a start failure is not a capture failure", err)
	}
}

func TestCommandRecorder_RecordExitError(t *testing.T) {
	r := &CommandRecorder{
		program: "arecord",
		run: func(_ context.Context, name string, _ ...string) ([]byte, error) {
			return nil, fmt.Errorf("%s: %w", name, &exec.ExitError{})
		},
	}

	_, err := r.Record(context.Background(), time.Second)
	if !errors.Is(err, ErrCaptureFailed) {
		t.Errorf("Record() error = %v, want ErrCaptureFailed", err)
	}
}

func TestCommandPlayer_Play(t *testing.T) {
	dir := t.TempDir()
	var played []byte
	var gotArgs []string

	p := &CommandPlayer{
		program: "aplay",
		tempDir: dir,
		run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
			gotArgs = args
			data, err := os.ReadFile(args[len(args)-1])
			if err != nil {
				return nil, err
			}
			played = data
			return nil, nil
		},
	}

	if err := p.Play(context.Background(), []byte("RIFF....WAVE")); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if string(played) != "RIFF....WAVE" {
		t.Errorf("played %q, want clip contents", played)
	}
	if gotArgs[0] != "-q" {
		t.Errorf("args = %q, want -q first", gotArgs)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary clip not removed: %d files left", len(entries))
	}
}

func TestNewPlayer_Unsupported(t *testing.T) {
	if _, err := NewPlayer("winamp"); err == nil {
		t.Error("NewPlayer(winamp) returned nil error")
	}
}

func TestNewRecorder_Explicit(t *testing.T) {
	r, err := NewRecorder("rec")
	if err != nil {
		t.Fatalf("NewRecorder() error: %v", err)
	}
	if r.Program() != "rec" {
		t.Errorf("Program() = %q, want rec", r.Program())
	}
}
