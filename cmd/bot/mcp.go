package main

import (
	"github.com/botkit/bot/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over the stdio tool protocol",
		Long:  "Serve the tools as line-delimited JSON-RPC on stdin and stdout. Logs go to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, exec, err := a.tools()
			if err != nil {
				return err
			}
			srv := mcp.NewServer(r, exec, mcp.WithLogger(a.logger))
			a.logger.Info("tool server listening on stdio", "tools", r.Len())
			return srv.Serve(cmd.Context(), a.stdin, a.stdout)
		},
	}
}
