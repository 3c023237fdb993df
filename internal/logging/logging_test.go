package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInit_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	if err := Init(Options{LogDir: dir, Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	log.Info().Str("mode", "peak").Msg("timeline ready")

	if !strings.Contains(console.String(), "timeline ready") {
		t.Errorf("console output = %q", console.String())
	}
	if strings.Contains(console.String(), "\x1b[") {
		t.Errorf("console output is colored for a non-terminal writer")
	}
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), `"mode":"peak"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestInit_VerboseEnablesDebug(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Options{Console: &console, NoFile: true}); err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("hidden")
	if strings.Contains(console.String(), "hidden") {
		t.Errorf("debug line logged at info level")
	}

	if err := Init(Options{Verbose: true, Console: &console, NoFile: true}); err != nil {
		t.Fatal(err)
	}
	log.Debug().Msg("shown")
	if !strings.Contains(console.String(), "shown") {
		t.Errorf("debug line missing in verbose mode: %q", console.String())
	}
}

func TestInit_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Options{LogDir: file, Console: &bytes.Buffer{}}); err == nil {
		t.Error("Init() with a file as log dir returned nil error")
	}
}
