// Package multiplexer defines the narrow boundary between deskmux and a
// terminal multiplexer's CLI. Each backend adapter owns its parsing
// fragility (format strings, ANSI stripping, field splitting); nothing
// outside this package interprets multiplexer output.
//
// The live multiplexer is always the source of truth for what sessions
// exist. Adapters re-query it on every call and never cache.
package multiplexer

import (
	"context"
	"os/exec"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/run"
)

// Pane is a single split within a window. Only the working directory is
// observable from outside the multiplexer; running process state is not.
type Pane struct {
	WorkingDir string
}

// Window is an ordered collection of panes owned by a session.
type Window struct {
	Name  string
	Panes []Pane
}

// Session is the multiplexer's top-level unit: a named, ordered list of
// windows.
type Session struct {
	Name    string
	Windows []Window
}

// Backend drives one multiplexer flavor through its CLI.
type Backend interface {
	// Name returns the backend identifier ("tmux" or "zellij").
	Name() string

	// Available reports whether the multiplexer binary is installed.
	Available() bool

	// Sessions returns live session names in the multiplexer's own
	// order. An empty slice with no error is the normal state when the
	// multiplexer is not running.
	Sessions(ctx context.Context) ([]string, error)

	// Describe returns the full window/pane structure of one session.
	Describe(ctx context.Context, name string) (Session, error)

	// Create creates a detached session. If dir is non-empty the initial
	// pane starts (or is changed) there.
	Create(ctx context.Context, name, dir string) error

	// Kill destroys a session.
	Kill(ctx context.Context, name string) error

	// Rename renames a session. Backends without rename support return
	// ErrUnsupportedOperation.
	Rename(ctx context.Context, oldName, newName string) error

	// SupportsRename reports whether Rename can succeed at all.
	SupportsRename() bool

	// Attach hands the terminal to the multiplexer in the foreground and
	// blocks until the user detaches.
	Attach(name string) error

	// AttachCommand returns the attach invocation as an exec.Cmd for
	// callers that manage the terminal themselves (the TUI).
	AttachCommand(name string) *exec.Cmd

	// NewWindow adds a window to a session.
	NewWindow(ctx context.Context, session, name, dir string) error

	// SplitPane splits a new pane in the given window (0-based index).
	SplitPane(ctx context.Context, session string, window int, dir string) error

	// SelectLayout applies a tiled layout to the given window. Backends
	// that tile automatically treat this as a no-op.
	SelectLayout(ctx context.Context, session string, window int) error
}

// New returns the backend for the given name. Unknown names fall back to
// tmux.
func New(name string, runner run.Runner) Backend {
	switch name {
	case "zellij":
		return NewZellij(runner)
	default:
		return NewTmux(runner)
	}
}

// FromConfig returns the backend selected by the application config.
func FromConfig(cfg *config.Config, runner run.Runner) Backend {
	return New(cfg.Backend, runner)
}

// toolError wraps a CLI failure so it matches both ErrExternalTool and
// the original cause.
func toolError(backend, msg string, cause error) *errors.MultiplexerError {
	return errors.NewMultiplexerError(msg, errors.Join(errors.ErrExternalTool, cause)).
		WithBackend(backend)
}
