package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"STORAGE_DRIVER", "PAGE_DEFAULT_LIMIT", "PAGE_MAX_LIMIT", "DATABASE_URL", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverPostgres)
	}
	if cfg.Pagination.DefaultLimit != 10 || cfg.Pagination.MaxLimit != 100 {
		t.Errorf("Pagination = %+v, want default 10 max 100", cfg.Pagination)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Database.URL != "postgres://todo:@localhost:5432/todos?sslmode=disable" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "bolt")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverBolt {
		t.Errorf("Storage.Driver = %q, want bolt", cfg.Storage.Driver)
	}
	if cfg.Context.RequestTimeout != 7*time.Second {
		t.Errorf("RequestTimeout = %v, want 7s", cfg.Context.RequestTimeout)
	}
	if cfg.Context.ShutdownTimeout != time.Minute {
		t.Errorf("ShutdownTimeout = %v, want 1m", cfg.Context.ShutdownTimeout)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "max below default", env: map[string]string{"PAGE_DEFAULT_LIMIT": "20", "PAGE_MAX_LIMIT": "5"}},
		{name: "zero default", env: map[string]string{"PAGE_DEFAULT_LIMIT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("Load() succeeded, want error")
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadClient(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("LoadClient(missing): %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" || cfg.PageSize != 10 || cfg.Timeout != 5*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}

	path := filepath.Join(dir, "config.toml")
	content := "base_url = \"http://todo.internal:9000\"\npage_size = 25\ntimeout = \"2s\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.BaseURL != "http://todo.internal:9000" || cfg.PageSize != 25 || cfg.Timeout != 2*time.Second {
		t.Errorf("LoadClient = %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("page_size = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClient(path); err == nil {
		t.Errorf("LoadClient(page_size = 0) succeeded, want error")
	}
}
