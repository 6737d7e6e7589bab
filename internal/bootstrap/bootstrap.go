// Package bootstrap installs the working set of tools a fresh
// workstation needs. It detects the system package manager, diffs a
// declarative tool list against what is already on PATH, and runs one
// install command for the gap.
package bootstrap

import (
	"context"
	"strings"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/run"
)

// PackageManager is a detected system package manager and the argument
// prefix for a non-interactive install.
type PackageManager struct {
	Name        string
	InstallArgs []string
}

// managers in detection order. The first binary found on PATH wins;
// a system with both (brew on Linux) gets the native one.
var managers = []PackageManager{
	{Name: "apt-get", InstallArgs: []string{"install", "-y"}},
	{Name: "dnf", InstallArgs: []string{"install", "-y"}},
	{Name: "pacman", InstallArgs: []string{"-S", "--noconfirm"}},
	{Name: "brew", InstallArgs: []string{"install"}},
}

// Detect finds the system package manager.
func Detect(runner run.Runner) (*PackageManager, error) {
	for _, m := range managers {
		if _, err := runner.LookPath(m.Name); err == nil {
			pm := m
			return &pm, nil
		}
	}
	return nil, errors.Wrap(errors.ErrExternalTool, "no supported package manager found")
}

// Tool pairs a binary name with the package that provides it, when the
// two differ.
type Tool struct {
	Name    string
	Package string
}

func (t Tool) packageName() string {
	if t.Package != "" {
		return t.Package
	}
	return t.Name
}

// DefaultTools is the baseline deskmux workstation set.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "git"},
		{Name: "tmux"},
		{Name: "zellij"},
		{Name: "rsync"},
		{Name: "age"},
		{Name: "lsblk", Package: "util-linux"},
		{Name: "udisksctl", Package: "udisks2"},
	}
}

// Plan is the result of diffing a tool list against PATH.
type Plan struct {
	Manager *PackageManager
	Present []string
	Missing []Tool
}

// NewPlan checks each tool with LookPath and splits present from
// missing. Detection failure is fatal only when something is actually
// missing.
func NewPlan(runner run.Runner, tools []Tool) (*Plan, error) {
	p := &Plan{}
	for _, t := range tools {
		if _, err := runner.LookPath(t.Name); err == nil {
			p.Present = append(p.Present, t.Name)
		} else {
			p.Missing = append(p.Missing, t)
		}
	}

	if len(p.Missing) == 0 {
		return p, nil
	}

	pm, err := Detect(runner)
	if err != nil {
		return nil, err
	}
	p.Manager = pm
	return p, nil
}

// Apply installs every missing tool with a single package manager
// invocation. A plan with nothing missing is a no-op.
func (p *Plan) Apply(ctx context.Context, runner run.Runner, log *logging.Logger) error {
	if log == nil {
		log = logging.NopLogger()
	}
	if len(p.Missing) == 0 {
		return nil
	}

	packages := make([]string, 0, len(p.Missing))
	for _, t := range p.Missing {
		packages = append(packages, t.packageName())
	}

	args := append(append([]string{}, p.Manager.InstallArgs...), packages...)
	log.Info("installing", "manager", p.Manager.Name, "packages", strings.Join(packages, " "))

	out, err := runner.CombinedOutput(ctx, p.Manager.Name, args...)
	if err != nil {
		return errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "%s install failed: %s", p.Manager.Name, strings.TrimSpace(out))
	}
	return nil
}
