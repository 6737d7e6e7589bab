// Package syncer copies files and directory trees by orchestrating
// rsync, falling back to cp when rsync is not installed. It never
// copies bytes itself; it builds the right invocation, runs it once,
// and reports the tool's verdict.
package syncer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/deskmux/deskmux/internal/errors"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/run"
)

// Options select the copy behavior.
type Options struct {
	// Archive preserves permissions, times, and symlinks (rsync -a,
	// cp -a).
	Archive bool

	// Delete removes destination files absent from the source. rsync
	// only.
	Delete bool

	// DryRun previews the transfer without writing. rsync only.
	DryRun bool
}

// Syncer runs copy jobs.
type Syncer struct {
	runner run.Runner
	log    *logging.Logger
}

// New builds a syncer.
func New(runner run.Runner, log *logging.Logger) *Syncer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Syncer{runner: runner, log: log.WithComponent("syncer")}
}

// Sync copies src to dst and returns the tool's output. The source must
// exist, and src and dst must not be the same path. Delete and DryRun
// require rsync; without it they fail rather than silently copying
// everything.
func (s *Syncer) Sync(ctx context.Context, src, dst string, opts Options) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", err
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return "", errors.New("source and destination are the same path")
	}

	if _, err := s.runner.LookPath("rsync"); err == nil {
		return s.rsync(ctx, src, dst, opts)
	}
	if opts.Delete || opts.DryRun {
		return "", errors.Wrap(errors.ErrUnsupportedOperation, "--delete and --dry-run need rsync")
	}
	return s.cp(ctx, src, dst, opts)
}

func (s *Syncer) rsync(ctx context.Context, src, dst string, opts Options) (string, error) {
	args := []string{}
	if opts.Archive {
		args = append(args, "-a")
	} else {
		args = append(args, "-r", "-t")
	}
	if opts.Delete {
		args = append(args, "--delete")
	}
	if opts.DryRun {
		args = append(args, "--dry-run", "-v")
	}
	args = append(args, src, dst)

	s.log.Info("rsync", "src", src, "dst", dst, "args", args)
	out, err := s.runner.CombinedOutput(ctx, "rsync", args...)
	if err != nil {
		return out, errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "rsync %s -> %s", src, dst)
	}
	return out, nil
}

func (s *Syncer) cp(ctx context.Context, src, dst string, opts Options) (string, error) {
	args := []string{}
	if opts.Archive {
		args = append(args, "-a")
	} else {
		args = append(args, "-r")
	}
	args = append(args, src, dst)

	s.log.Info("cp fallback", "src", src, "dst", dst)
	out, err := s.runner.CombinedOutput(ctx, "cp", args...)
	if err != nil {
		return out, errors.Wrapf(errors.Join(errors.ErrExternalTool, err), "cp %s -> %s", src, dst)
	}
	return out, nil
}
