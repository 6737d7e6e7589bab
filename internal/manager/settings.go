// Package manager owns the session manager's state: the persisted
// key=value settings file, the registry that resolves user identifiers
// against the live multiplexer, and the ManagerState handed to the menu
// loop. There are no package-level globals; all state is explicit.
package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/errors"
)

// Settings file keys. The file is deliberately a flat key=value list so
// it stays hand-editable: one line per field, no escaping, no comments,
// rewritten wholesale on every change.
const (
	keySessionFileEnabled  = "session_file_enabled"
	keyAttachAfterCreation = "attach_after_creation"
	keySessionFile         = "session_file"
	keyConfigFile          = "config_file"
)

// Toggleable field names accepted by Settings.Toggle.
const (
	FieldSessionFileEnabled  = keySessionFileEnabled
	FieldAttachAfterCreation = keyAttachAfterCreation
)

// Settings holds the session manager's persisted configuration. Every
// mutation is written back immediately; there is no batching. The write
// is a plain truncate-and-rewrite, not an atomic replace, so a crash
// mid-write can lose the file (recovered as defaults on next load).
type Settings struct {
	// SessionFileEnabled controls whether snapshots are written on save
	// and replayed on startup.
	SessionFileEnabled bool

	// AttachAfterCreation attaches to a session immediately after
	// creating it, blocking until the user detaches.
	AttachAfterCreation bool

	// SessionFilePath is where the persisted snapshot lives.
	SessionFilePath string

	// ConfigFilePath is the path of this settings file itself.
	ConfigFilePath string
}

// DefaultSettings returns the hard-coded defaults: both toggles off,
// files under the user's deskmux config directory.
func DefaultSettings(path string) *Settings {
	if path == "" {
		path = filepath.Join(config.StateDir(), "manager.conf")
	}
	return &Settings{
		SessionFileEnabled:  false,
		AttachAfterCreation: false,
		SessionFilePath:     filepath.Join(config.StateDir(), "sessions.yaml"),
		ConfigFilePath:      path,
	}
}

// LoadSettings reads the settings file at path. A missing file yields
// defaults which are immediately persisted so the file exists for the
// next run. An unreadable or corrupt file also yields defaults; the
// returned error is then a notice wrapping ErrConfigLoad, and the
// settings are still usable.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings(path)

	data, err := os.ReadFile(s.ConfigFilePath)
	if os.IsNotExist(err) {
		// First run: persist the defaults. A failed write is tolerated;
		// state simply does not survive the process.
		if saveErr := s.Save(); saveErr != nil {
			return s, errors.Wrap(errors.Join(errors.ErrConfigLoad, saveErr), "could not create settings file")
		}
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(errors.Join(errors.ErrConfigLoad, err), "using defaults")
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case keySessionFileEnabled:
			if b, err := strconv.ParseBool(value); err == nil {
				s.SessionFileEnabled = b
			}
		case keyAttachAfterCreation:
			if b, err := strconv.ParseBool(value); err == nil {
				s.AttachAfterCreation = b
			}
		case keySessionFile:
			if value != "" {
				s.SessionFilePath = config.ExpandHome(value)
			}
		case keyConfigFile:
			// Informational; the file we actually read wins.
		}
	}
	return s, nil
}

// Save overwrites the settings file with the four key=value lines.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.ConfigFilePath), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s=%t\n", keySessionFileEnabled, s.SessionFileEnabled)
	fmt.Fprintf(&b, "%s=%t\n", keyAttachAfterCreation, s.AttachAfterCreation)
	fmt.Fprintf(&b, "%s=%s\n", keySessionFile, s.SessionFilePath)
	fmt.Fprintf(&b, "%s=%s\n", keyConfigFile, s.ConfigFilePath)

	return os.WriteFile(s.ConfigFilePath, []byte(b.String()), 0644)
}

// Toggle flips a boolean field and saves immediately.
func (s *Settings) Toggle(field string) error {
	switch field {
	case FieldSessionFileEnabled:
		s.SessionFileEnabled = !s.SessionFileEnabled
	case FieldAttachAfterCreation:
		s.AttachAfterCreation = !s.AttachAfterCreation
	default:
		return fmt.Errorf("unknown settings field %q", field)
	}
	return s.Save()
}
