package run

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeResponse is a canned result for a single command invocation.
type FakeResponse struct {
	Output string
	Err    error
}

// FakeRunner replays canned responses keyed by the full command line and
// records every invocation. Safe for concurrent use.
type FakeRunner struct {
	mu sync.Mutex

	// Responses maps "name arg1 arg2 ..." to the canned result.
	Responses map[string]FakeResponse

	// Missing lists binaries LookPath should report as not installed.
	Missing []string

	// Calls records every command line executed, in order.
	Calls []string
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: make(map[string]FakeResponse)}
}

// Respond registers a canned response for the given command line.
func (f *FakeRunner) Respond(cmdline, output string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[cmdline] = FakeResponse{Output: output, Err: err}
}

func (f *FakeRunner) lookup(name string, args []string) (FakeResponse, error) {
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, cmdline)
	if resp, ok := f.Responses[cmdline]; ok {
		return resp, nil
	}
	return FakeResponse{}, fmt.Errorf("fake runner: no response for %q", cmdline)
}

func (f *FakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	resp, err := f.lookup(name, args)
	if err != nil {
		return "", err
	}
	return resp.Output, resp.Err
}

func (f *FakeRunner) CombinedOutput(_ context.Context, name string, args ...string) (string, error) {
	return f.Output(context.Background(), name, args...)
}

func (f *FakeRunner) Run(_ context.Context, name string, args ...string) error {
	resp, err := f.lookup(name, args)
	if err != nil {
		return err
	}
	return resp.Err
}

func (f *FakeRunner) Interactive(name string, args ...string) error {
	return f.Run(context.Background(), name, args...)
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.Missing {
		if m == name {
			return "", fmt.Errorf("fake runner: %s not installed", name)
		}
	}
	return "/usr/bin/" + name, nil
}

// CalledWith reports whether any recorded call starts with the given prefix.
func (f *FakeRunner) CalledWith(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
