// Package info implements the info command.
package info

import (
	"fmt"

	"github.com/pushr-cd/pushr/cmd/output"
	"github.com/pushr-cd/pushr/cmd/utils"
	"github.com/spf13/cobra"
)

// NewCmdInfo creates the info command
func NewCmdInfo(s *utils.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the deployed revision of every application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.App()
			if err != nil {
				return err
			}

			infos, err := a.Orchestrator.Info(cmd.Context())
			if err != nil {
				return err
			}

			out, err := output.PrintApplicationInfo(infos)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
