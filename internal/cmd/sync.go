package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/run"
	"github.com/deskmux/deskmux/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync <source> <destination>",
	Short: "Copy files or directory trees",
	Long: `Copy source to destination with rsync, or cp when rsync is not
installed. Trailing-slash semantics are rsync's own: "src/" copies the
contents, "src" copies the directory itself.`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

var (
	syncDelete bool
	syncDryRun bool
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncDelete, "delete", false, "remove destination files absent from the source (rsync only)")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "show what would be copied without copying (rsync only)")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	log := newLogger(cfg)
	defer log.Close()

	opts := syncer.Options{
		Archive: cfg.Sync.Archive,
		Delete:  syncDelete || cfg.Sync.Delete,
		DryRun:  syncDryRun,
	}

	out, err := syncer.New(run.NewExec(), log).Sync(cmd.Context(), args[0], args[1], opts)
	if out != "" {
		fmt.Println(out)
	}
	return err
}
