// Package run provides an abstraction over external command execution.
// Production code uses the Exec runner backed by os/exec, while tests
// inject a FakeRunner that replays canned responses, so code driving
// tmux, zellij, rsync or lsblk can be exercised without the binaries
// installed.
package run

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Runner abstracts external command execution.
type Runner interface {
	// Output runs the command and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// CombinedOutput runs the command and returns trimmed stdout+stderr.
	CombinedOutput(ctx context.Context, name string, args ...string) (string, error)

	// Run executes the command, discarding output.
	Run(ctx context.Context, name string, args ...string) error

	// Interactive runs the command with the caller's stdin, stdout and
	// stderr attached, blocking until it exits. Used for foreground
	// handoffs such as attaching to a multiplexer session.
	Interactive(name string, args ...string) error

	// LookPath reports the full path of the named binary, or an error
	// if it is not installed.
	LookPath(name string) (string, error)
}

// Exec is the os/exec backed Runner used in production.
type Exec struct{}

// NewExec returns a Runner backed by os/exec.
func NewExec() *Exec {
	return &Exec{}
}

func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimRight(string(out), "\n"), err
}

func (e *Exec) CombinedOutput(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimRight(string(out), "\n"), err
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (e *Exec) Interactive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
