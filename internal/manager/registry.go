package manager

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/google/uuid"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/multiplexer"
)

// Registry answers session questions by asking the live multiplexer.
// It never caches for correctness: every resolve re-lists sessions so
// the answer reflects what is actually running, even when sessions were
// created or killed outside this process. The last listing is kept only
// so callers can render the numbered list the user just saw.
type Registry struct {
	backend  multiplexer.Backend
	settings *Settings
	log      *logging.Logger

	lastList []string
}

// NewRegistry wires a registry over a backend.
func NewRegistry(backend multiplexer.Backend, settings *Settings, log *logging.Logger) *Registry {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Registry{backend: backend, settings: settings, log: log}
}

// Backend exposes the underlying multiplexer adapter.
func (r *Registry) Backend() multiplexer.Backend { return r.backend }

// List returns the names of the sessions currently running, in the
// order the multiplexer reports them. An empty list is not an error.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	names, err := r.backend.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	r.lastList = names
	return names, nil
}

// Last returns the most recent listing without asking the multiplexer
// again. Useful for rendering; never for resolution.
func (r *Registry) Last() []string { return r.lastList }

// Create makes a new detached session. An empty name gets a generated
// one. The duplicate check runs against the live session list, so a
// session created by another tool moments ago still counts. When
// attach-after-creation is on, Create blocks until the user detaches.
func (r *Registry) Create(ctx context.Context, name, dir string) (string, error) {
	name, err := r.CreateDetached(ctx, name, dir)
	if err != nil {
		return "", err
	}
	if r.settings != nil && r.settings.AttachAfterCreation {
		if err := r.backend.Attach(name); err != nil {
			return name, err
		}
	}
	return name, nil
}

// CreateDetached is Create without the attach-after-creation side
// effect, for callers that own the terminal and attach on their own
// terms.
func (r *Registry) CreateDetached(ctx context.Context, name, dir string) (string, error) {
	if name == "" {
		name = "deskmux-" + uuid.NewString()[:8]
	}

	existing, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range existing {
		if s == name {
			return "", errors.Wrapf(errors.ErrDuplicateSession, "session %q", name)
		}
	}

	if err := r.backend.Create(ctx, name, dir); err != nil {
		return "", err
	}
	r.log.Info("session created", "session", name, "backend", r.backend.Name())
	return name, nil
}

// Resolve turns a user-supplied identifier into a session name. A
// numeric identifier is always an index into the current listing,
// 1-based; an out-of-range index is not retried as a literal name. Only
// non-numeric identifiers are matched by name.
func (r *Registry) Resolve(ctx context.Context, identifier string) (string, error) {
	names, err := r.List(ctx)
	if err != nil {
		return "", err
	}

	if n, err := strconv.Atoi(identifier); err == nil {
		if n < 1 || n > len(names) {
			return "", errors.Wrapf(errors.ErrSessionNotFound, "index %d out of range (1-%d)", n, len(names))
		}
		return names[n-1], nil
	}

	for _, name := range names {
		if name == identifier {
			return name, nil
		}
	}
	return "", errors.Wrapf(errors.ErrSessionNotFound, "session %q", identifier)
}

// Delete kills the session the identifier resolves to and returns its
// name.
func (r *Registry) Delete(ctx context.Context, identifier string) (string, error) {
	name, err := r.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if err := r.backend.Kill(ctx, name); err != nil {
		return name, err
	}
	r.log.Info("session deleted", "session", name, "backend", r.backend.Name())
	return name, nil
}

// Rename renames the resolved session. Backends that cannot rename
// report ErrUnsupportedOperation; the registry surfaces it untouched.
func (r *Registry) Rename(ctx context.Context, identifier, newName string) (string, error) {
	name, err := r.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if err := r.backend.Rename(ctx, name, newName); err != nil {
		return name, err
	}
	r.log.Info("session renamed", "session", name, "new", newName, "backend", r.backend.Name())
	return name, nil
}

// Attach resolves the identifier and attaches, blocking until detach.
func (r *Registry) Attach(ctx context.Context, identifier string) (string, error) {
	name, err := r.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}
	if err := r.backend.Attach(name); err != nil {
		return name, err
	}
	return name, nil
}

// AttachCommand resolves the identifier and returns the command that
// would attach to it, for callers that hand terminal control to an
// outer event loop instead of blocking here.
func (r *Registry) AttachCommand(ctx context.Context, identifier string) (string, *exec.Cmd, error) {
	name, err := r.Resolve(ctx, identifier)
	if err != nil {
		return "", nil, err
	}
	return name, r.backend.AttachCommand(name), nil
}
