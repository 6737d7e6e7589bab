package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage multiplexer sessions",
	Long:  `Commands for listing, creating, attaching, renaming, and deleting sessions without the interactive menu.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live sessions",
	Long: `List the sessions the multiplexer is currently running, numbered.
The numbers are valid identifiers for the other session commands.`,
	RunE: runSessionsList,
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a detached session",
	Long: `Create a new detached session. Without a name, one is generated.
Fails if a session of that name is already running.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsCreate,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <number|name>",
	Short: "Kill a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <number|name> <new-name>",
	Short: "Rename a session",
	Long: `Rename a session. Not every backend supports renaming; zellij
reports the attempt as unsupported.`,
	Args: cobra.ExactArgs(2),
	RunE: runSessionsRename,
}

var sessionsAttachCmd = &cobra.Command{
	Use:   "attach <number|name>",
	Short: "Attach to a session",
	Long:  `Attach to a session in the foreground. Returns when you detach.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsAttach,
}

var createDir string

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsAttachCmd)

	sessionsCreateCmd.Flags().StringVarP(&createDir, "dir", "d", "", "working directory for the initial pane")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	names, err := state.Registry.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no sessions")
		return nil
	}
	for i, name := range names {
		fmt.Printf("%d. %s\n", i+1, name)
	}
	return nil
}

func runSessionsCreate(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	created, err := state.Registry.Create(cmd.Context(), name, createDir)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", created)
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	name, err := state.Registry.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", name)
	return nil
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	name, err := state.Registry.Rename(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("renamed %s to %s\n", name, args[1])
	return nil
}

func runSessionsAttach(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()

	_, err := state.Registry.Attach(cmd.Context(), args[0])
	return err
}
