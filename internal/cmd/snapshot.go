package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore session layouts",
	Long: `Save the running sessions' structure (windows and pane working
directories) to the session file, or replay a saved file. Running
programs are not captured; a restore recreates the layout only.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the session file from the live sessions",
	RunE:  runSnapshotSave,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Recreate sessions from the session file",
	Long: `Recreate saved sessions. Sessions already running are left alone.
A failure partway leaves the earlier sessions in place.`,
	RunE: runSnapshotRestore,
}

// snapshotForce bypasses the session-file toggle for explicit
// command-line use; the menu loop always honors the toggle.
var snapshotForce bool

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)

	snapshotCmd.PersistentFlags().BoolVarP(&snapshotForce, "force", "f", false, "act even when the session file is disabled")
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	if !state.Settings.SessionFileEnabled && !snapshotForce {
		return fmt.Errorf("session file is disabled (enable it in the config menu, or pass --force)")
	}

	snap, err := snapshot.Take(cmd.Context(), state.Backend())
	if err != nil {
		return err
	}
	if err := snapshot.Write(snap, state.Settings.SessionFilePath); err != nil {
		return err
	}
	fmt.Printf("saved %d session(s) to %s\n", len(snap.Sessions), state.Settings.SessionFilePath)
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	if !state.Settings.SessionFileEnabled && !snapshotForce {
		return fmt.Errorf("session file is disabled (enable it in the config menu, or pass --force)")
	}

	snap, err := snapshot.Read(state.Settings.SessionFilePath)
	if err != nil {
		return err
	}
	if err := snapshot.Restore(cmd.Context(), state.Backend(), snap, log); err != nil {
		return err
	}
	fmt.Printf("restored from %s\n", state.Settings.SessionFilePath)
	return nil
}
