package multiplexer

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/run"
)

// zellij colors its list-sessions output; names are recovered by
// stripping SGR escape sequences and taking the first field.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Zellij drives zellij through its CLI.
//
// Zellij's CLI cannot enumerate tabs and panes of a detached session, so
// Describe degrades to the session name only: snapshots of zellij
// sessions record names, not window/pane structure. Rename is not
// supported by zellij at all and returns ErrUnsupportedOperation.
type Zellij struct {
	runner run.Runner
}

// NewZellij returns a zellij-backed multiplexer adapter.
func NewZellij(runner run.Runner) *Zellij {
	return &Zellij{runner: runner}
}

func (z *Zellij) Name() string { return "zellij" }

func (z *Zellij) Available() bool {
	_, err := z.runner.LookPath("zellij")
	return err == nil
}

func (z *Zellij) Sessions(ctx context.Context) ([]string, error) {
	out, err := z.runner.CombinedOutput(ctx, "zellij", "list-sessions")
	if err != nil {
		// Exit status 1 with this message is zellij's way of saying the
		// list is empty.
		if strings.Contains(strings.ToLower(out), "no active zellij sessions") {
			return nil, nil
		}
		return nil, toolError("zellij", "listing sessions failed", err)
	}

	clean := ansiEscape.ReplaceAllString(out, "")
	var names []string
	for _, line := range strings.Split(clean, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// Sessions marked EXITED are resurrectable corpses, not live
		// sessions.
		if strings.Contains(line, "EXITED") {
			continue
		}
		names = append(names, fields[0])
	}
	return names, nil
}

func (z *Zellij) Describe(ctx context.Context, name string) (Session, error) {
	// Structure enumeration is not exposed by the zellij CLI.
	return Session{Name: name}, nil
}

func (z *Zellij) Create(ctx context.Context, name, dir string) error {
	if err := z.runner.Run(ctx, "zellij", "attach", "--create-background", name); err != nil {
		return toolError("zellij", "creating session failed", err).WithSession(name)
	}
	if dir != "" {
		return z.changeDir(ctx, name, dir)
	}
	return nil
}

// changeDir sends a cd to the focused pane of the session. Zellij has no
// equivalent of tmux's -c flag, so the working directory is set by
// typing into the pane's shell.
func (z *Zellij) changeDir(ctx context.Context, session, dir string) error {
	if err := z.runner.Run(ctx, "zellij", "--session", session, "action", "write-chars", "cd "+dir); err != nil {
		return toolError("zellij", "setting working directory failed", err).WithSession(session)
	}
	// Carriage return to execute the cd.
	if err := z.runner.Run(ctx, "zellij", "--session", session, "action", "write", "13"); err != nil {
		return toolError("zellij", "setting working directory failed", err).WithSession(session)
	}
	return nil
}

func (z *Zellij) Kill(ctx context.Context, name string) error {
	if err := z.runner.Run(ctx, "zellij", "kill-session", name); err != nil {
		return toolError("zellij", "killing session failed", err).WithSession(name)
	}
	return nil
}

func (z *Zellij) Rename(ctx context.Context, oldName, newName string) error {
	return errors.NewMultiplexerError("rename session", errors.ErrUnsupportedOperation).
		WithBackend("zellij").WithSession(oldName)
}

func (z *Zellij) SupportsRename() bool { return false }

func (z *Zellij) Attach(name string) error {
	if err := z.runner.Interactive("zellij", "attach", name); err != nil {
		return toolError("zellij", "attach failed", err).WithSession(name)
	}
	return nil
}

func (z *Zellij) AttachCommand(name string) *exec.Cmd {
	return exec.Command("zellij", "attach", name)
}

func (z *Zellij) NewWindow(ctx context.Context, session, name, dir string) error {
	args := []string{"--session", session, "action", "new-tab"}
	if name != "" {
		args = append(args, "--name", name)
	}
	if err := z.runner.Run(ctx, "zellij", args...); err != nil {
		return toolError("zellij", "creating tab failed", err).WithSession(session)
	}
	if dir != "" {
		return z.changeDir(ctx, session, dir)
	}
	return nil
}

func (z *Zellij) SplitPane(ctx context.Context, session string, window int, dir string) error {
	// Actions apply to the focused tab; restore creates tabs in order so
	// the focus is already on the window being populated.
	if err := z.runner.Run(ctx, "zellij", "--session", session, "action", "new-pane"); err != nil {
		return toolError("zellij", "splitting pane failed", err).WithSession(session)
	}
	if dir != "" {
		return z.changeDir(ctx, session, dir)
	}
	return nil
}

func (z *Zellij) SelectLayout(ctx context.Context, session string, window int) error {
	// Zellij tiles new panes automatically.
	return nil
}
