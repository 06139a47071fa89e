package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROPSENSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("unexpected base URL %q", cfg.Backend.BaseURL)
	}
	if cfg.Poll.Dashboard != 5*time.Second {
		t.Errorf("dashboard interval = %s, want 5s", cfg.Poll.Dashboard)
	}
	if cfg.Poll.Sensors != 8*time.Second {
		t.Errorf("sensors interval = %s, want 8s", cfg.Poll.Sensors)
	}
	if cfg.Cache.PruneCron != "@daily" {
		t.Errorf("prune cron = %q", cfg.Cache.PruneCron)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROPSENSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PROPSENSE_API_URL", "http://backend:9000")
	t.Setenv("PROPSENSE_POLL_DASHBOARD", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend.BaseURL != "http://backend:9000" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Poll.Dashboard != 2*time.Second {
		t.Errorf("dashboard interval = %s, want 2s", cfg.Poll.Dashboard)
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
backend:
  base_url: http://yaml-host:8000
poll:
  sensors: 12s
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROPSENSE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend.BaseURL != "http://yaml-host:8000" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Poll.Sensors != 12*time.Second {
		t.Errorf("sensors interval = %s, want 12s", cfg.Poll.Sensors)
	}
	// env-derived default survives where the file is silent
	if cfg.Poll.Dashboard != 5*time.Second {
		t.Errorf("dashboard interval = %s, want 5s", cfg.Poll.Dashboard)
	}
}
