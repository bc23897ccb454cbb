package mcp

import (
	"fmt"

	"github.com/AzielCF/az-console/agentwizard/application"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds the wizard MCP server. Session tools are registered only
// when sessions is set, since they read the sessions of this process.
func NewServer(version string, sessions *application.SessionManager) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"Az-Console Agent Wizard MCP Server",
		version,
		server.WithToolCapabilities(true),
	)
	InitMcpWizard(sessions).AddWizardTools(mcpServer)
	return mcpServer
}

func NewSSEServer(mcpServer *server.MCPServer, host, port string) *server.SSEServer {
	return server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://%s:%s", host, port)),
		server.WithKeepAlive(true),
	)
}
