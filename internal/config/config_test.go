package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear anything the host environment may set.
	for _, key := range []string{"PORT", "LOAD_WORKERS", "SEARCH_LIMIT", "WATCH_DEBOUNCE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8085" {
		t.Errorf("expected default port 8085, got %q", cfg.Port)
	}
	if cfg.LoadWorkers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.LoadWorkers)
	}
	if cfg.SearchLimit != 100 {
		t.Errorf("expected search limit 100, got %d", cfg.SearchLimit)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", cfg.WatchDebounce)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOAD_WORKERS", "8")
	t.Setenv("WATCH_LIBRARY", "true")
	t.Setenv("WATCH_DEBOUNCE", "2s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.LoadWorkers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.LoadWorkers)
	}
	if !cfg.WatchLibrary {
		t.Error("expected watch enabled")
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.WatchDebounce)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 upload bytes, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("LOAD_WORKERS", "not-a-number")
	t.Setenv("WATCH_DEBOUNCE", "soon")

	cfg := Load()
	if cfg.LoadWorkers != 4 {
		t.Errorf("expected fallback workers 4, got %d", cfg.LoadWorkers)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected fallback debounce, got %v", cfg.WatchDebounce)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}
	cfg.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
