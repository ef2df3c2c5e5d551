package plugins

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArionMiles/voxpense/pkg/logging"
	consoleinput "github.com/ArionMiles/voxpense/pkg/plugins/inputs/console"
	googleinput "github.com/ArionMiles/voxpense/pkg/plugins/inputs/google"
	consoleoutput "github.com/ArionMiles/voxpense/pkg/plugins/outputs/console"
	googleoutput "github.com/ArionMiles/voxpense/pkg/plugins/outputs/google"
)

type stubRecorder struct{}

func (stubRecorder) Record(context.Context, time.Duration) ([]byte, error) {
	return []byte{0, 1, 0, 1}, nil
}

type stubPlayer struct {
	played int
}

func (p *stubPlayer) Play(context.Context, []byte) error {
	p.played++
	return nil
}

func TestBuiltin(t *testing.T) {
	r := Builtin()

	var inputs, outputs []string
	for _, p := range r.ListInputs() {
		inputs = append(inputs, p.Name())
	}
	for _, p := range r.ListOutputs() {
		outputs = append(outputs, p.Name())
	}

	if strings.Join(inputs, ",") != "console,google" {
		t.Errorf("inputs = %v, want [console google]", inputs)
	}
	if strings.Join(outputs, ",") != "console,google" {
		t.Errorf("outputs = %v, want [console google]", outputs)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterInput(&consoleinput.Plugin{}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterInput(&consoleinput.Plugin{}); err == nil {
		t.Error("RegisterInput() duplicate returned nil error")
	}
	if err := r.RegisterOutput(&consoleoutput.Plugin{}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterOutput(&consoleoutput.Plugin{}); err == nil {
		t.Error("RegisterOutput() duplicate returned nil error")
	}
}

func TestGetAllScopes(t *testing.T) {
	r := Builtin()

	tests := []struct {
		input, output string
		want          int
		wantErr       bool
	}{
		{input: "console", output: "console", want: 0},
		{input: "google", output: "console", want: 1},
		{input: "google", output: "google", want: 1},
		{input: "whisper", output: "console", wantErr: true},
		{input: "console", output: "espeak", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input+"/"+tc.output, func(t *testing.T) {
			scopes, err := r.GetAllScopes(tc.input, tc.output)
			if tc.wantErr {
				if err == nil {
					t.Error("GetAllScopes() returned nil error")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetAllScopes() error: %v", err)
			}
			if len(scopes) != tc.want {
				t.Errorf("GetAllScopes() = %v, want %d scopes", scopes, tc.want)
			}
		})
	}
}

func TestCreateConsole(t *testing.T) {
	var out bytes.Buffer
	r := NewRegistry()
	if err := r.RegisterInput(&consoleinput.Plugin{In: strings.NewReader("Exit\n")}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterOutput(&consoleoutput.Plugin{Out: &out}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	in, err := r.CreateInput(ctx, "console", nil, json.RawMessage(`{"prompt":false}`), logging.Discard())
	if err != nil {
		t.Fatalf("CreateInput() error: %v", err)
	}
	got, err := in.Listen(ctx)
	if err != nil || got != "exit" {
		t.Errorf("Listen() = %q, %v; want exit", got, err)
	}

	speaker, err := r.CreateOutput(ctx, "console", nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("CreateOutput() error: %v", err)
	}
	if err := speaker.Speak(ctx, "Exiting the program."); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Exiting the program.\n" {
		t.Errorf("output = %q", out.String())
	}

	if _, err := r.CreateInput(ctx, "console", nil, json.RawMessage(`{"prompt":"yes"}`), nil); err == nil {
		t.Error("CreateInput() with bad config returned nil error")
	}
}

func TestCreateGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", req.URL.Query().Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(req.URL.Path, "speech:recognize"):
			_, _ = w.Write([]byte(`{"results":[{"alternatives":[{"transcript":"change my budget"}]}]}`))
		case strings.HasSuffix(req.URL.Path, "text:synthesize"):
			_, _ = w.Write([]byte(`{"audioContent":"` + base64.StdEncoding.EncodeToString([]byte("wav")) + `"}`))
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	player := &stubPlayer{}
	r := NewRegistry()
	if err := r.RegisterInput(&googleinput.Plugin{Recorder: stubRecorder{}}); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterOutput(&googleoutput.Plugin{Player: player}); err != nil {
		t.Fatal(err)
	}

	cfg, _ := json.Marshal(map[string]any{
		"apiKey":   "test-key",
		"endpoint": srv.URL + "/",
		"echo":     false,
	})

	ctx := context.Background()
	in, err := r.CreateInput(ctx, "google", nil, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("CreateInput() error: %v", err)
	}
	got, err := in.Listen(ctx)
	if err != nil || got != "change my budget" {
		t.Errorf("Listen() = %q, %v; want change my budget", got, err)
	}

	out, err := r.CreateOutput(ctx, "google", nil, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("CreateOutput() error: %v", err)
	}
	if err := out.Speak(ctx, "Please set your budget for this month."); err != nil {
		t.Fatalf("Speak() error: %v", err)
	}
	if player.played != 1 {
		t.Errorf("played %d clips, want 1", player.played)
	}
}
