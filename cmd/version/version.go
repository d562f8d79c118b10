// Package version provides the version command for Pushr.
package version

import (
	"fmt"

	"github.com/pushr-cd/pushr/app"
	"github.com/spf13/cobra"
)

// NewCmdVersion creates the version command
func NewCmdVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for Pushr.`,
		Annotations: map[string]string{
			"skipConfig": "true",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.Version)
			return err
		},
	}

	return cmd
}
