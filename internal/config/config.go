// Package config loads application-level deskmux configuration through
// viper: YAML file under the user config directory, environment overrides
// with the DESKMUX_ prefix, and flag bindings from the cobra layer.
//
// The session manager's own four persisted settings (save-on-exit toggle,
// auto-attach toggle, file paths) deliberately do not live here; they use
// the flat key=value settings file managed by internal/manager so the file
// stays hand-editable and self-contained.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete deskmux configuration
type Config struct {
	Backend   string          `mapstructure:"backend"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Drives    DrivesConfig    `mapstructure:"drives"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// SyncConfig controls the file-copy orchestration defaults
type SyncConfig struct {
	// Archive passes -a to rsync/cp (default: true)
	Archive bool `mapstructure:"archive"`
	// Delete removes destination files absent from the source (default: false)
	Delete bool `mapstructure:"delete"`
}

// DrivesConfig controls drive mounting behavior
type DrivesConfig struct {
	// RemovableOnly restricts listings to removable devices (default: false)
	RemovableOnly bool `mapstructure:"removable_only"`
}

// VaultConfig controls credential encryption behavior
type VaultConfig struct {
	// Armor writes age ciphertext in ASCII-armored form (default: false)
	Armor bool `mapstructure:"armor"`
}

// BootstrapConfig controls dev-environment bootstrap behavior
type BootstrapConfig struct {
	// Tools is the list of binaries the bootstrap command ensures are
	// installed. Empty means the built-in default set.
	Tools []string `mapstructure:"tools"`
}

// ValidBackends returns the supported multiplexer backend names.
func ValidBackends() []string {
	return []string{"tmux", "zellij"}
}

// IsValidBackend checks if the given backend name is supported.
func IsValidBackend(name string) bool {
	for _, valid := range ValidBackends() {
		if name == valid {
			return true
		}
	}
	return false
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Backend: "tmux",
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Sync: SyncConfig{
			Archive: true,
			Delete:  false,
		},
		Drives: DrivesConfig{
			RemovableOnly: false,
		},
		Vault: VaultConfig{
			Armor: false,
		},
		Bootstrap: BootstrapConfig{
			Tools: []string{},
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("backend", defaults.Backend)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	viper.SetDefault("sync.archive", defaults.Sync.Archive)
	viper.SetDefault("sync.delete", defaults.Sync.Delete)

	viper.SetDefault("drives.removable_only", defaults.Drives.RemovableOnly)

	viper.SetDefault("vault.armor", defaults.Vault.Armor)

	viper.SetDefault("bootstrap.tools", defaults.Bootstrap.Tools)
}

// Load reads the configuration from viper into a Config struct
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Backend != "" && !IsValidBackend(cfg.Backend) {
		cfg.Backend = Default().Backend
	}
	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "deskmux")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deskmux"
	}
	return filepath.Join(home, ".config", "deskmux")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for runtime state (logs, snapshots,
// manager settings).
func StateDir() string {
	return ConfigDir()
}

// ExpandHome expands a leading ~ or ~/ in path to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
