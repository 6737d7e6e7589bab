package manager

import (
	"context"

	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/multiplexer"
	"github.com/deskmux/deskmux/internal/snapshot"
)

// State bundles everything the menu loop and the CLI commands operate
// on: the loaded settings, the registry over the active backend, and
// access to snapshots. One State lives per process.
type State struct {
	Settings *Settings
	Registry *Registry

	backend multiplexer.Backend
	log     *logging.Logger

	// Notice carries the load-time settings warning, if any, so the
	// caller can show it once before the first menu.
	Notice error
}

// NewState loads settings from settingsPath (empty means the default
// location) and wires a registry over backend. Settings trouble never
// fails construction; it surfaces as Notice.
func NewState(backend multiplexer.Backend, settingsPath string, log *logging.Logger) *State {
	if log == nil {
		log = logging.NopLogger()
	}

	settings, notice := LoadSettings(settingsPath)
	if notice != nil {
		log.Warn("settings load", "error", notice)
	}

	return &State{
		Settings: settings,
		Registry: NewRegistry(backend, settings, log.WithComponent("registry")),
		backend:  backend,
		log:      log,
		Notice:   notice,
	}
}

// Backend returns the active multiplexer adapter.
func (s *State) Backend() multiplexer.Backend { return s.backend }

// Serializer builds a snapshot serializer reflecting the settings as
// they are right now. Built fresh each time so a toggle mid-session
// takes effect without restart.
func (s *State) Serializer() *snapshot.Serializer {
	return snapshot.NewSerializer(
		s.backend,
		s.Settings.SessionFilePath,
		s.Settings.SessionFileEnabled,
		s.log.WithComponent("snapshot"),
	)
}

// SaveSnapshot captures the current sessions to the session file, if
// the session file is enabled.
func (s *State) SaveSnapshot(ctx context.Context) error {
	return s.Serializer().Save(ctx)
}

// RestoreSnapshot replays the session file, if enabled. Called once at
// startup before the first menu.
func (s *State) RestoreSnapshot(ctx context.Context) error {
	return s.Serializer().Restore(ctx)
}
