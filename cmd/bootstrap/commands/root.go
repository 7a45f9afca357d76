// Package commands defines the CLI command structure and flag bindings.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the bootstrap CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bootstrap",
		Short:         "Provision a workspace with a local LLM runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Up())
	cmd.AddCommand(Graph())
	cmd.AddCommand(Version())

	return cmd
}
