package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/cardsheet/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve the card sheet tools over the Model Context Protocol. Requests
are read from stdin and responses written to stdout, one JSON-RPC message
per line. Configure it in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(ctx.log()).WithVersion(Version)
			return srv.Run(cmd.Context())
		},
	}
}
