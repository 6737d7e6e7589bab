package multiplexer

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/deskmux/deskmux/internal/run"
)

// fieldSep separates fields in tmux -F format strings. The pipe is safe
// because tmux session and window names cannot contain it unescaped in
// the positions we query.
const fieldSep = "|"

// Tmux drives the user's default tmux server through the tmux CLI.
type Tmux struct {
	runner run.Runner
}

// NewTmux returns a tmux-backed multiplexer adapter.
func NewTmux(runner run.Runner) *Tmux {
	return &Tmux{runner: runner}
}

func (t *Tmux) Name() string { return "tmux" }

func (t *Tmux) Available() bool {
	_, err := t.runner.LookPath("tmux")
	return err == nil
}

// serverDown reports whether a failed tmux invocation just means no
// server is running, which callers treat as an empty session list.
func serverDown(output string) bool {
	msg := strings.ToLower(output)
	return strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "no such file or directory") ||
		strings.Contains(msg, "error connecting")
}

func (t *Tmux) Sessions(ctx context.Context) ([]string, error) {
	out, err := t.runner.CombinedOutput(ctx, "tmux", "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if serverDown(out) {
			return nil, nil
		}
		return nil, toolError("tmux", "listing sessions failed", err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (t *Tmux) Describe(ctx context.Context, name string) (Session, error) {
	sess := Session{Name: name}

	winOut, err := t.runner.CombinedOutput(ctx, "tmux", "list-windows", "-t", name,
		"-F", "#{window_index}"+fieldSep+"#{window_name}")
	if err != nil {
		return sess, toolError("tmux", "listing windows failed", err)
	}

	// Window indexes as reported by tmux; base-index is user configurable
	// so positions are mapped, not assumed.
	indexPos := make(map[string]int)
	for _, line := range strings.Split(winOut, "\n") {
		idx, rest, ok := strings.Cut(strings.TrimSpace(line), fieldSep)
		if !ok {
			continue
		}
		indexPos[idx] = len(sess.Windows)
		sess.Windows = append(sess.Windows, Window{Name: rest})
	}

	paneOut, err := t.runner.CombinedOutput(ctx, "tmux", "list-panes", "-s", "-t", name,
		"-F", "#{window_index}"+fieldSep+"#{pane_current_path}")
	if err != nil {
		return sess, toolError("tmux", "listing panes failed", err)
	}
	for _, line := range strings.Split(paneOut, "\n") {
		idx, dir, ok := strings.Cut(strings.TrimSpace(line), fieldSep)
		if !ok {
			continue
		}
		pos, ok := indexPos[idx]
		if !ok {
			continue
		}
		sess.Windows[pos].Panes = append(sess.Windows[pos].Panes, Pane{WorkingDir: dir})
	}

	return sess, nil
}

func (t *Tmux) Create(ctx context.Context, name, dir string) error {
	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if err := t.runner.Run(ctx, "tmux", args...); err != nil {
		return toolError("tmux", "creating session failed", err).WithSession(name)
	}
	return nil
}

func (t *Tmux) Kill(ctx context.Context, name string) error {
	if err := t.runner.Run(ctx, "tmux", "kill-session", "-t", name); err != nil {
		return toolError("tmux", "killing session failed", err).WithSession(name)
	}
	return nil
}

func (t *Tmux) Rename(ctx context.Context, oldName, newName string) error {
	if err := t.runner.Run(ctx, "tmux", "rename-session", "-t", oldName, newName); err != nil {
		return toolError("tmux", "renaming session failed", err).WithSession(oldName)
	}
	return nil
}

func (t *Tmux) SupportsRename() bool { return true }

func (t *Tmux) Attach(name string) error {
	if err := t.runner.Interactive("tmux", "attach-session", "-t", name); err != nil {
		return toolError("tmux", "attach failed", err).WithSession(name)
	}
	return nil
}

func (t *Tmux) AttachCommand(name string) *exec.Cmd {
	return exec.Command("tmux", "attach-session", "-t", name)
}

func (t *Tmux) NewWindow(ctx context.Context, session, name, dir string) error {
	args := []string{"new-window", "-t", session + ":"}
	if name != "" {
		args = append(args, "-n", name)
	}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if err := t.runner.Run(ctx, "tmux", args...); err != nil {
		return toolError("tmux", "creating window failed", err).WithSession(session)
	}
	return nil
}

func (t *Tmux) SplitPane(ctx context.Context, session string, window int, dir string) error {
	target := windowTarget(session, window)
	args := []string{"split-window", "-t", target}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if err := t.runner.Run(ctx, "tmux", args...); err != nil {
		return toolError("tmux", fmt.Sprintf("splitting pane in %s failed", target), err).WithSession(session)
	}
	return nil
}

func (t *Tmux) SelectLayout(ctx context.Context, session string, window int) error {
	target := windowTarget(session, window)
	if err := t.runner.Run(ctx, "tmux", "select-layout", "-t", target, "tiled"); err != nil {
		return toolError("tmux", fmt.Sprintf("selecting layout for %s failed", target), err).WithSession(session)
	}
	return nil
}

// windowTarget builds a tmux target for the nth window created during a
// restore. Restored sessions start from a default server, so windows are
// addressed by creation order from base index 0.
func windowTarget(session string, window int) string {
	return session + ":" + strconv.Itoa(window)
}
