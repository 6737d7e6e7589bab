// Package snapshot persists the shape of running sessions to a YAML
// file and replays it. Only structure survives a round trip: session
// names, window names, and per-pane working directories. Running
// programs, scrollback, and exact pane geometry do not; restored
// windows get a tiled layout.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/multiplexer"
)

// Pane records one pane's working directory.
type Pane struct {
	Dir string `yaml:"dir"`
}

// Window records a window's name and its panes, in pane-index order.
type Window struct {
	Name  string `yaml:"name,omitempty"`
	Panes []Pane `yaml:"panes"`
}

// Session records one session's windows in window-index order.
type Session struct {
	Name    string   `yaml:"name"`
	Windows []Window `yaml:"windows"`
}

// Snapshot is the on-disk document: every session the multiplexer was
// running when the snapshot was taken.
type Snapshot struct {
	Sessions []Session `yaml:"sessions"`
}

// Take captures the current state of every running session.
func Take(ctx context.Context, backend multiplexer.Backend) (*Snapshot, error) {
	names, err := backend.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for _, name := range names {
		sess, err := backend.Describe(ctx, name)
		if err != nil {
			return nil, err
		}
		snap.Sessions = append(snap.Sessions, fromBackend(sess))
	}
	return snap, nil
}

func fromBackend(s multiplexer.Session) Session {
	out := Session{Name: s.Name}
	for _, w := range s.Windows {
		win := Window{Name: w.Name}
		for _, p := range w.Panes {
			win.Panes = append(win.Panes, Pane{Dir: p.WorkingDir})
		}
		out.Windows = append(out.Windows, win)
	}
	return out
}

// Write marshals the snapshot to path, creating parent directories.
func Write(snap *Snapshot, path string) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads a snapshot from path.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Restore replays a snapshot against the backend. Sessions that already
// exist are skipped, never merged into. There is no rollback: a session
// that fails partway stays as far as it got, and restoration moves on
// to the next one. The returned error joins everything that went wrong.
func Restore(ctx context.Context, backend multiplexer.Backend, snap *Snapshot, log *logging.Logger) error {
	if log == nil {
		log = logging.NopLogger()
	}

	existing, err := backend.Sessions(ctx)
	if err != nil {
		return err
	}
	running := make(map[string]bool, len(existing))
	for _, name := range existing {
		running[name] = true
	}

	var errs []error
	for _, sess := range snap.Sessions {
		if running[sess.Name] {
			log.Debug("session already running, skipping", "session", sess.Name)
			continue
		}
		if err := restoreSession(ctx, backend, sess); err != nil {
			log.Warn("session restore failed", "session", sess.Name, "error", err)
			errs = append(errs, fmt.Errorf("restoring %q: %w", sess.Name, err))
		}
	}
	return errors.Join(errs...)
}

func restoreSession(ctx context.Context, backend multiplexer.Backend, sess Session) error {
	if len(sess.Windows) == 0 {
		return backend.Create(ctx, sess.Name, "")
	}

	// The session comes with its first window; its first pane's
	// directory becomes the session's starting directory.
	if err := backend.Create(ctx, sess.Name, firstDir(sess.Windows[0])); err != nil {
		return err
	}

	for i, win := range sess.Windows {
		if i > 0 {
			if err := backend.NewWindow(ctx, sess.Name, win.Name, firstDir(win)); err != nil {
				return err
			}
		}
		for j, pane := range win.Panes {
			if j == 0 {
				continue
			}
			if err := backend.SplitPane(ctx, sess.Name, i, pane.Dir); err != nil {
				return err
			}
		}
		if len(win.Panes) > 1 {
			if err := backend.SelectLayout(ctx, sess.Name, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func firstDir(w Window) string {
	if len(w.Panes) == 0 {
		return ""
	}
	return w.Panes[0].Dir
}

// Serializer ties snapshots to the session-file setting: both Save and
// Restore are no-ops while the setting is off.
type Serializer struct {
	backend multiplexer.Backend
	path    string
	enabled bool
	log     *logging.Logger
}

// NewSerializer builds a serializer for path, active only when enabled.
func NewSerializer(backend multiplexer.Backend, path string, enabled bool, log *logging.Logger) *Serializer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Serializer{backend: backend, path: path, enabled: enabled, log: log}
}

// Enabled reports whether the serializer will do anything.
func (s *Serializer) Enabled() bool { return s.enabled }

// Path returns the snapshot file path.
func (s *Serializer) Path() string { return s.path }

// Save captures and writes a snapshot. Disabled serializers do nothing.
func (s *Serializer) Save(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	snap, err := Take(ctx, s.backend)
	if err != nil {
		return err
	}
	if err := Write(snap, s.path); err != nil {
		return err
	}
	s.log.Info("snapshot saved", "path", s.path, "sessions", len(snap.Sessions))
	return nil
}

// Restore replays the snapshot file. A missing file is not an error;
// there is simply nothing to restore yet.
func (s *Serializer) Restore(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	snap, err := Read(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return Restore(ctx, s.backend, snap, s.log)
}
