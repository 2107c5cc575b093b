package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gmetrans/internal/config"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	tmp := t.TempDir()
	gme := filepath.Join(tmp, "in.gme")
	if err := os.WriteFile(gme, []byte("gme"), 0o644); err != nil {
		t.Fatalf("write gme fixture: %v", err)
	}
	return Config{
		GMEPath: gme,
		WorkDir: filepath.Join(tmp, "work"),
		App:     config.Default(),
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty input", func(c *Config) { c.GMEPath = "" }, "input cartridge path is empty"},
		{"missing input", func(c *Config) { c.GMEPath = c.GMEPath + ".nope" }, "stat input"},
		{"empty work dir", func(c *Config) { c.WorkDir = "" }, "work dir is empty"},
		{"bad app config", func(c *Config) { c.App.Thresholds.MaxClipSeconds = -1 }, "max_clip_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
