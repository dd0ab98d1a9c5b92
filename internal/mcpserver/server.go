// Package mcpserver exposes the calculator as MCP tools over stdio.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
)

const serverName = "sparkcalc"

// Server is the calculator MCP server
type Server struct {
	mcp  *server.MCPServer
	calc Calculator
}

// New creates the server and registers its tools
func New(calc Calculator, version string) *Server {
	s := &Server{
		mcp:  server.NewMCPServer(serverName, version, server.WithToolCapabilities(true)),
		calc: calc,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	press := NewPressTool(s.calc)
	s.mcp.AddTool(press.GetTool(), press.Handle)

	clr := NewClearTool(s.calc)
	s.mcp.AddTool(clr.GetTool(), clr.Handle)

	del := NewDeleteTool(s.calc)
	s.mcp.AddTool(del.GetTool(), del.Handle)

	display := NewDisplayTool(s.calc)
	s.mcp.AddTool(display.GetTool(), display.Handle)
}

// ServeStdio blocks serving MCP on stdin/stdout.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}
