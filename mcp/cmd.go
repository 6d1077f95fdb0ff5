package mcp

import (
	"github.com/mvdburg/stamboom/api"
	"github.com/spf13/cobra"
)

// Command returns the MCP server command
func Command(clients *api.Clients) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServer(clients).Run()
		},
	}
}
