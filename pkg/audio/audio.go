// Package audio captures microphone input and plays synthesized speech by
// running the platform's command line audio tools.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// SampleRate is the capture rate in Hz. Captures are 16-bit signed
// little-endian mono PCM without a header.
const SampleRate = 16000

// ErrNoProgram is returned when no capture or playback program is known for the platform.
var ErrNoProgram = errors.New("no audio program available")

// ErrCaptureFailed is returned when the capture program ran but exited with
// an error, e.g. because the device was busy.
var ErrCaptureFailed = errors.New("audio capture failed")

// Recorder captures audio from the default microphone.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) ([]byte, error)
}

// Player plays an encoded audio clip (WAV) on the default output device.
type Player interface {
	Play(ctx context.Context, clip []byte) error
}

// runFunc executes a program and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// CommandRecorder records with arecord (ALSA) or rec (SoX).
type CommandRecorder struct {
	program string
	run     runFunc
}

// NewRecorder returns a recorder using program, or the platform default when empty.
func NewRecorder(program string) (*CommandRecorder, error) {
	if program == "" {
		program = DefaultRecorder()
	}
	if program == "" {
		return nil, fmt.Errorf("%w: set VOXPENSE_RECORDER", ErrNoProgram)
	}
	if _, err := recordArgs(program, time.Second); err != nil {
		return nil, err
	}
	return &CommandRecorder{program: program, run: runCommand}, nil
}

// Program returns the capture program name.
func (r *CommandRecorder) Program() string {
	return r.program
}

// Record captures d of audio as raw PCM.
func (r *CommandRecorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	args, err := recordArgs(r.program, d)
	if err != nil {
		return nil, err
	}
	pcm, err := r.run(ctx, r.program, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil, fmt.Errorf("recording audio: %w: %w", ErrCaptureFailed, err)
		}
		return nil, fmt.Errorf("recording audio: %w", err)
	}
	return pcm, nil
}

func recordArgs(program string, d time.Duration) ([]string, error) {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	rate := strconv.Itoa(SampleRate)

	switch filepath.Base(program) {
	case "arecord":
		return []string{"-q", "-f", "S16_LE", "-r", rate, "-c", "1", "-t", "raw", "-d", strconv.Itoa(secs), "-"}, nil
	case "rec", "sox":
		args := []string{"-q"}
		if filepath.Base(program) == "sox" {
			// rec implies the default input device, sox needs -d.
			args = append(args, "-d")
		}
		args = append(args, "-t", "raw", "-b", "16", "-e", "signed-integer", "-r", rate, "-c", "1", "-", "trim", "0", strconv.Itoa(secs))
		return args, nil
	default:
		return nil, fmt.Errorf("unsupported recorder %q (want arecord, rec or sox)", program)
	}
}

// DefaultRecorder returns the capture program for the current platform.
func DefaultRecorder() string {
	switch runtime.GOOS {
	case "linux":
		return "arecord"
	case "darwin":
		return "rec"
	default:
		return ""
	}
}

// CommandPlayer plays clips through aplay, afplay, ffplay or PowerShell.
type CommandPlayer struct {
	program string
	run     runFunc
	tempDir string
}

// NewPlayer returns a player using program, or the platform default when empty.
func NewPlayer(program string) (*CommandPlayer, error) {
	if program == "" {
		program = DefaultPlayer()
	}
	if program == "" {
		return nil, fmt.Errorf("%w: set VOXPENSE_PLAYER", ErrNoProgram)
	}
	if _, err := playArgs(program, "clip.wav"); err != nil {
		return nil, err
	}
	return &CommandPlayer{program: program, run: runCommand}, nil
}

// Program returns the playback program name.
func (p *CommandPlayer) Program() string {
	return p.program
}

// Play writes clip to a temporary file and plays it to completion.
func (p *CommandPlayer) Play(ctx context.Context, clip []byte) error {
	f, err := os.CreateTemp(p.tempDir, "voxpense-*.wav")
	if err != nil {
		return fmt.Errorf("creating audio file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(clip); err != nil {
		f.Close()
		return fmt.Errorf("writing audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing audio file: %w", err)
	}

	args, err := playArgs(p.program, f.Name())
	if err != nil {
		return err
	}
	if _, err := p.run(ctx, p.program, args...); err != nil {
		return fmt.Errorf("playing audio: %w", err)
	}
	return nil
}

func playArgs(program, path string) ([]string, error) {
	switch filepath.Base(program) {
	case "aplay":
		return []string{"-q", path}, nil
	case "afplay":
		return []string{path}, nil
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}, nil
	case "play":
		return []string{"-q", path}, nil
	case "powershell", "powershell.exe":
		return []string{"-NoProfile", "-Command", fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)}, nil
	default:
		return nil, fmt.Errorf("unsupported player %q (want aplay, afplay, ffplay, play or powershell)", program)
	}
}

// DefaultPlayer returns the playback program for the current platform.
func DefaultPlayer() string {
	switch runtime.GOOS {
	case "linux":
		return "aplay"
	case "darwin":
		return "afplay"
	case "windows":
		return "powershell"
	default:
		return ""
	}
}
