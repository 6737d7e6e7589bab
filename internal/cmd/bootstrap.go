package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/bootstrap"
	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/run"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Install the workstation tool set",
	Long: `Check the baseline tools (git, tmux, zellij, rsync, age, ...) and
install whatever is missing with the system package manager. The tool
list can be overridden with bootstrap.tools in the config file.`,
	RunE: runBootstrap,
}

var bootstrapCheck bool

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().BoolVar(&bootstrapCheck, "check", false, "report what is missing without installing")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	log := newLogger(cfg)
	defer log.Close()

	tools := bootstrap.DefaultTools()
	if len(cfg.Bootstrap.Tools) > 0 {
		tools = tools[:0]
		for _, name := range cfg.Bootstrap.Tools {
			tools = append(tools, bootstrap.Tool{Name: name})
		}
	}

	runner := run.NewExec()
	plan, err := bootstrap.NewPlan(runner, tools)
	if err != nil {
		return err
	}

	if len(plan.Present) > 0 {
		fmt.Printf("installed: %s\n", strings.Join(plan.Present, ", "))
	}
	if len(plan.Missing) == 0 {
		fmt.Println("nothing to install")
		return nil
	}

	names := make([]string, 0, len(plan.Missing))
	for _, t := range plan.Missing {
		names = append(names, t.Name)
	}
	fmt.Printf("missing: %s\n", strings.Join(names, ", "))

	if bootstrapCheck {
		return nil
	}

	fmt.Printf("installing with %s\n", plan.Manager.Name)
	if err := plan.Apply(cmd.Context(), runner, log); err != nil {
		return err
	}
	fmt.Println("done")
	return nil
}
