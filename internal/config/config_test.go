package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend != "tmux" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "tmux")
	}
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should default to true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if !cfg.Sync.Archive {
		t.Error("Sync.Archive should default to true")
	}
	if cfg.Sync.Delete {
		t.Error("Sync.Delete should default to false")
	}
}

func TestIsValidBackend(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"tmux", true},
		{"zellij", true},
		{"screen", false},
		{"", false},
		{"TMUX", false},
	}
	for _, tt := range tests {
		if got := IsValidBackend(tt.name); got != tt.want {
			t.Errorf("IsValidBackend(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "tmux" {
		t.Errorf("Backend = %q, want default %q", cfg.Backend, "tmux")
	}
	if !cfg.Sync.Archive {
		t.Error("Sync.Archive should default to true")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("backend", "screen")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "tmux" {
		t.Errorf("unknown backend should fall back to tmux, got %q", cfg.Backend)
	}
}

func TestLoadOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("backend", "zellij")
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != "zellij" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "zellij")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir := ConfigDir()
	if dir != filepath.Join("/tmp/xdg-test", "deskmux") {
		t.Errorf("ConfigDir() = %q", dir)
	}
	if !strings.HasSuffix(ConfigFile(), "config.yaml") {
		t.Errorf("ConfigFile() = %q", ConfigFile())
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~/snap.yaml", "/home/tester/snap.yaml"},
		{"~", "/home/tester"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
