package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.API.Endpoint != DefaultSearchEndpoint {
		t.Errorf("endpoint = %q, want default", cfg.API.Endpoint)
	}
	if cfg.Search.PageSize != DefaultPageSize {
		t.Errorf("page size = %d, want %d", cfg.Search.PageSize, DefaultPageSize)
	}
	if cfg.Search.Debounce.Duration != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", cfg.Search.Debounce.Duration, DefaultDebounce)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_dir = "` + dir + `"

[api]
endpoint = "http://localhost:9999/search.json"
rate_limit = 10.0

[search]
page_size = 5
debounce = "20ms"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.API.Endpoint != "http://localhost:9999/search.json" {
		t.Errorf("endpoint = %q", cfg.API.Endpoint)
	}
	if cfg.Search.PageSize != 5 {
		t.Errorf("page size = %d, want 5", cfg.Search.PageSize)
	}
	if cfg.Search.Debounce.Duration != 20*time.Millisecond {
		t.Errorf("debounce = %v, want 20ms", cfg.Search.Debounce.Duration)
	}
	// Unset fields still get defaults.
	if cfg.API.CoversEndpoint != DefaultCoversEndpoint {
		t.Errorf("covers endpoint = %q, want default", cfg.API.CoversEndpoint)
	}
	if cfg.FavoritesDBPath() != filepath.Join(dir, "favorites.db") {
		t.Errorf("favorites path = %q", cfg.FavoritesDBPath())
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("data_dir = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
