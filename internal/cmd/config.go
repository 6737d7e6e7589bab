package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/manager"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify deskmux settings",
	Long: `View or modify settings.

Without arguments, shows the session manager's settings and the
application configuration. Use "toggle" to flip the manager's boolean
settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configToggleCmd = &cobra.Command{
	Use:   "toggle <field>",
	Short: "Flip a boolean manager setting",
	Long: `Flip a boolean setting and persist it immediately.

Valid fields:
  session_file_enabled   - save sessions on exit, restore on start
  attach_after_creation  - attach to a session right after creating it`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigToggle,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configToggleCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	settings, notice := manager.LoadSettings("")
	if notice != nil {
		fmt.Printf("notice: %v\n\n", notice)
	}

	fmt.Println("manager settings:")
	fmt.Printf("  session_file_enabled   %t\n", settings.SessionFileEnabled)
	fmt.Printf("  attach_after_creation  %t\n", settings.AttachAfterCreation)
	fmt.Printf("  session_file           %s\n", settings.SessionFilePath)
	fmt.Printf("  config_file            %s\n", settings.ConfigFilePath)

	fmt.Println("\napplication config:")
	fmt.Printf("  backend                %s\n", cfg.Backend)
	fmt.Printf("  logging.enabled        %t\n", cfg.Logging.Enabled)
	fmt.Printf("  logging.level          %s\n", cfg.Logging.Level)
	fmt.Printf("  sync.archive           %t\n", cfg.Sync.Archive)
	fmt.Printf("  drives.removable_only  %t\n", cfg.Drives.RemovableOnly)
	fmt.Printf("  vault.armor            %t\n", cfg.Vault.Armor)
	return nil
}

func runConfigToggle(cmd *cobra.Command, args []string) error {
	settings, notice := manager.LoadSettings("")
	if notice != nil {
		fmt.Printf("notice: %v\n", notice)
	}

	if err := settings.Toggle(args[0]); err != nil {
		return err
	}

	value := settings.SessionFileEnabled
	if args[0] == manager.FieldAttachAfterCreation {
		value = settings.AttachAfterCreation
	}
	fmt.Printf("%s = %t\n", args[0], value)
	return nil
}
