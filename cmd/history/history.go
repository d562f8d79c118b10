// Package history implements the history command.
package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pushr-cd/pushr/cmd/output"
	"github.com/pushr-cd/pushr/cmd/utils"
	"github.com/pushr-cd/pushr/domain"
	pushrhistory "github.com/pushr-cd/pushr/history"
	"github.com/spf13/cobra"
)

// NewCmdHistory creates the history command
func NewCmdHistory(s *utils.Session) *cobra.Command {
	var (
		app   string
		run   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past deployments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.App()
			if err != nil {
				return err
			}
			if a.History == nil {
				return errors.New("history is disabled in the configuration")
			}

			var deployments []*domain.Deployment
			if run != "" {
				runID, err := uuid.Parse(run)
				if err != nil {
					return fmt.Errorf("invalid run ID %q: %w", run, err)
				}
				deployments, err = a.History.Run(cmd.Context(), runID)
				if err != nil {
					return err
				}
			} else {
				deployments, err = a.History.List(cmd.Context(), app, limit)
				if err != nil {
					return err
				}
			}

			out, err := output.PrintHistory(deployments)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&app, "app", "a", "", "Only show deployments of the application with this slug")
	cmd.Flags().StringVarP(&run, "run", "r", "", "Only show the deployments of this run ID")
	cmd.Flags().IntVarP(&limit, "limit", "n", pushrhistory.DefaultLimit, "Maximum number of deployments to show")
	return cmd
}
