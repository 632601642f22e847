package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <namespace>/<name>@<version>",
		Short: "Download and extract a registry package into the local cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Fetch(cmd.Context(), configDir(cmd), args[0])
		},
	}
}
