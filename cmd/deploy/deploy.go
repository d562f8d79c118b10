// Package deploy implements the deploy command.
package deploy

import (
	"fmt"

	"github.com/pushr-cd/pushr/cmd/output"
	"github.com/pushr-cd/pushr/cmd/utils"
	"github.com/spf13/cobra"
)

// NewCmdDeploy creates the deploy command
func NewCmdDeploy(s *utils.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [application...]",
		Short: "Deploy applications now",
		Long: `Fetch every configured application, or only the ones named by slug,
and run its deploy command when the repository moved past the deployed revision.
Exits non-zero when any application failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.App()
			if err != nil {
				return err
			}

			result, err := a.Orchestrator.Deploy(cmd.Context(), args...)
			if err != nil {
				return err
			}

			out, err := output.PrintDeployResult(result)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if !result.Success {
				return utils.ErrDeploymentFailed
			}
			return nil
		},
	}

	return cmd
}
