package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"teatime/internal/selection"
	"teatime/internal/timeline"

	"github.com/joho/godotenv"
)

func TestResolveBackendURL_Priority(t *testing.T) {
	t.Setenv(BackendURLEnv, "http://env.example:9000")

	tests := []struct {
		name       string
		override   string
		unsetEnv   bool
		wantURL    string
		wantSource string
	}{
		{"RuntimeWins", "http://runtime.example", false, "http://runtime.example", "runtime"},
		{"EnvNext", "", false, "http://env.example:9000", "env"},
		{"DefaultLast", "", true, DefaultBackendURL, "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.unsetEnv {
				t.Setenv(BackendURLEnv, "")
			}
			url, source := ResolveBackendURL(tt.override)
			if url != tt.wantURL || source != tt.wantSource {
				t.Errorf("ResolveBackendURL(%q) = (%q, %q), want (%q, %q)", tt.override, url, source, tt.wantURL, tt.wantSource)
			}
		})
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv(BackendURLEnv, "")
	t.Setenv("SELECTION_MODE", "bucket")
	t.Setenv("FULL_SPAN_POLICY", "forced-start")
	t.Setenv("TIMELINE_START_YEAR", "2016")
	t.Setenv("TIMELINE_ANCHOR_MONTH", "4")
	t.Setenv("PREDICT_TIMEOUT_SECONDS", "15")
	t.Setenv("PREDICT_DEDUPE", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mode != selection.ModeBucket {
		t.Errorf("Mode = %q, want bucket", cfg.Mode)
	}
	if cfg.SpanPolicy != timeline.SpanFromForcedStart {
		t.Errorf("SpanPolicy = %q", cfg.SpanPolicy)
	}
	if cfg.StartYear != 2016 || cfg.AnchorMonth != time.April {
		t.Errorf("anchor = %d-%d, want 2016-4", cfg.StartYear, cfg.AnchorMonth)
	}
	if cfg.Predict.Timeout != 15*time.Second || !cfg.Predict.Dedupe {
		t.Errorf("Predict = %+v", cfg.Predict)
	}
	if cfg.Predict.BaseURL != DefaultBackendURL || cfg.BackendSource != "default" {
		t.Errorf("backend = %q from %q", cfg.Predict.BaseURL, cfg.BackendSource)
	}
	if cfg.CacheDir != filepath.Join(dir, "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if _, err := os.Stat(cfg.CacheDir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}

func TestLoad_RejectsBadSettings(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SELECTION_MODE", "scatter"},
		{"FULL_SPAN_POLICY", "guess"},
		{"TIMELINE_ANCHOR_MONTH", "13"},
		{"BUCKET_MONTHS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("DATA_PATH", t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("Load() with %s=%s returned nil error", tt.key, tt.value)
			}
		})
	}
}

func TestGodotenvQuoting(t *testing.T) {
	content := `BACKEND_URL='http://host:8000/?q="quoted"'`
	path := filepath.Join(t.TempDir(), ".env.test")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `http://host:8000/?q="quoted"`
	if env["BACKEND_URL"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["BACKEND_URL"])
	}
}
