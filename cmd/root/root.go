// Package root implements the command line interface for Pushr.
package root

import (
	"context"
	"fmt"

	"github.com/pushr-cd/pushr/cmd/deploy"
	"github.com/pushr-cd/pushr/cmd/history"
	"github.com/pushr-cd/pushr/cmd/info"
	"github.com/pushr-cd/pushr/cmd/output"
	"github.com/pushr-cd/pushr/cmd/server"
	"github.com/pushr-cd/pushr/cmd/utils"
	"github.com/pushr-cd/pushr/cmd/version"
	"github.com/pushr-cd/pushr/config"
	"github.com/pushr-cd/pushr/logging"
	"github.com/spf13/cobra"
)

func Execute() {
	if err := NewCmdRoot().ExecuteContext(context.Background()); err != nil {
		utils.HandleCommandError("command", err)
	}
}

func NewCmdRoot() *cobra.Command {
	var configPath string
	session := &utils.Session{}
	closeLog := func() error { return nil }

	cmd := &cobra.Command{
		Use:   "pushr",
		Short: "Deploy git-managed applications on demand",
		Long: `Pushr fetches the repository of every configured application, compares it with
the deployed revision and runs the deploy command when they differ.
Deployments are triggered over HTTP, by the watcher, or from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}

			cfg, err := config.NewConfig(config.ResolveConfigPath(configPath))
			if err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			// CLI flags override the config file
			if logging.LogLevel.IsSet() {
				cfg.LogLevel = logging.LogLevel.String()
			}
			output.InitColors(!cfg.ColorEnabled || output.NoColor.IsSet())

			logger, closeFn, err := logging.InitLogging(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			closeLog = closeFn

			session.Config = cfg
			session.Logger = logger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Close(); err != nil {
				return fmt.Errorf("failed to close application: %w", err)
			}
			return closeLog()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default: $PUSHR_CONFIG or ./config.yml)")
	cmd.PersistentFlags().VarP(logging.LogLevel, "log-level", "l", "Set log verbosity level")
	cmd.PersistentFlags().Var(output.NoColor, "no-color", "Disable colored terminal output")
	cmd.PersistentFlags().Lookup("no-color").NoOptDefVal = "true"

	cmd.AddCommand(server.NewCmdServer(session))
	cmd.AddCommand(deploy.NewCmdDeploy(session))
	cmd.AddCommand(info.NewCmdInfo(session))
	cmd.AddCommand(history.NewCmdHistory(session))
	cmd.AddCommand(version.NewCmdVersion())
	return cmd
}
