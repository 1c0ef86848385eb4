package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected level info, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Pretty {
		t.Error("expected pretty disabled by default")
	}
	if cfg.State.Dir == "" {
		t.Error("expected a default state directory")
	}
	if cfg.Defaults.TableStyle != "TableGrid" {
		t.Errorf("expected table style TableGrid, got %s", cfg.Defaults.TableStyle)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("expected metrics disabled by default, got %s", cfg.Metrics.Addr)
	}
}

func TestLoader_LoadMissingFileReturnsDefaults(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level, got %s", cfg.Logging.Level)
	}
	if loader.Exists() {
		t.Error("Exists should be false for a missing file")
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(path)

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Metrics.Addr = "127.0.0.1:9090"
	cfg.Defaults.FontName = "Calibri"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loader.Exists() {
		t.Fatal("Exists should be true after Save")
	}

	got, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", got.Logging.Level)
	}
	if got.Metrics.Addr != "127.0.0.1:9090" {
		t.Errorf("expected metrics addr, got %s", got.Metrics.Addr)
	}
	if got.Defaults.FontName != "Calibri" {
		t.Errorf("expected font Calibri, got %s", got.Defaults.FontName)
	}
}

func TestLoader_LoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := NewLoaderWithPath(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Defaults.TableStyle != "TableGrid" {
		t.Errorf("unset keys should keep defaults, got %s", cfg.Defaults.TableStyle)
	}
}

func TestLoader_ExpandsEnvVars(t *testing.T) {
	t.Setenv("DOCFORGE_TEST_DIR", "/var/docforge")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("state:\n  dir: ${DOCFORGE_TEST_DIR}\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := NewLoaderWithPath(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.State.Dir != "/var/docforge" {
		t.Errorf("expected expanded dir, got %s", cfg.State.Dir)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("DOCFORGE_LOG_LEVEL", "error")
	t.Setenv("DOCFORGE_METRICS_ADDR", ":9100")

	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected env override error, got %s", cfg.Logging.Level)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("expected env override :9100, got %s", cfg.Metrics.Addr)
	}
}

func TestLoader_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewLoaderWithPath(path)

	if err := loader.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := loader.Init(); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Setenv("DOCFORGE_TEST_BOOL", tt.value)
		if got := GetEnvBool("DOCFORGE_TEST_BOOL"); got != tt.want {
			t.Errorf("GetEnvBool(%q): expected %v, got %v", tt.value, tt.want, got)
		}
	}
}
