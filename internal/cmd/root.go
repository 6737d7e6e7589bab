package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/logging"
	"github.com/deskmux/deskmux/internal/manager"
	"github.com/deskmux/deskmux/internal/multiplexer"
	"github.com/deskmux/deskmux/internal/run"
	"github.com/deskmux/deskmux/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "deskmux",
	Short: "Terminal-multiplexer session manager and workstation toolkit",
	Long: `Deskmux manages tmux and zellij sessions: list, create, attach,
rename, delete, and save/restore them across restarts. Run without
arguments for the interactive menu.

The toolkit side covers the rest of a workstation's chores: file
syncing, removable-drive mounting, credential encryption, and
first-time tool installation.`,
	RunE: runRoot,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/deskmux/config.yaml)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "multiplexer backend (tmux or zellij)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/deskmux")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DESKMUX")
	// Replace dots with underscores for nested keys in env vars
	// e.g., DESKMUX_LOGGING_LEVEL for logging.level
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// newLogger builds the file logger, or a nop logger when file logging
// is off.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	log, err := logging.NewLogger(config.StateDir(), strings.ToUpper(cfg.Logging.Level))
	if err != nil {
		return logging.NopLogger()
	}
	return log
}

// newState wires the standard stack every session command needs:
// config, logger, backend adapter, manager state.
func newState() (*manager.State, *logging.Logger) {
	cfg := config.Get()
	log := newLogger(cfg)
	backend := multiplexer.FromConfig(cfg, run.NewExec())
	return manager.NewState(backend, "", log), log
}

func runRoot(cmd *cobra.Command, args []string) error {
	state, log := newState()
	defer log.Close()
	return tui.Run(state)
}
