// ABOUTME: MCP command to start the MCP server.
// ABOUTME: Runs on stdio and follows config file edits for query defaults.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/promptlib/internal/config"
	"github.com/harper/promptlib/internal/mcp"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  `Start the Model Context Protocol server for AI agent integration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := mcp.NewServer(app.store, app.cfg.Get().Query, app.log)

			app.cfg.OnChange(func(c *config.Config) {
				server.SetQueryDefaults(c.Query)
			})
			if _, err := os.Stat(app.cfg.FileUsed()); err == nil {
				app.cfg.WatchConfig()
			}

			return server.Serve(cmd.Context())
		},
	}
}
