package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvdburg/stamboom/api"
)

// Server represents the MCP server for stamboom
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance backed by the shared
// upstream clients, so tool calls spend the same rate-limit budget as
// the rest of the process
func NewServer(clients *api.Clients) *Server {
	s := server.NewMCPServer("stamboom", api.Version)

	s.AddTools(InitTools(clients)...)

	return &Server{
		server: s,
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
