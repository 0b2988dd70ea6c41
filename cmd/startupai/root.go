package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "startupai",
		Short: "StartupAI canvas platform",
		Long: `StartupAI generates and scores Value Proposition, Business Model and
Testing Business Ideas canvases, runs multi-agent sessions and evaluates
evidence stage gates.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newRenderCmd(), newGateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("startupai version %s\n", version)
		},
	}
}
