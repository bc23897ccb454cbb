package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	coreconfig "github.com/AzielCF/az-console/core/config"
	"github.com/AzielCF/az-console/ui/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the stateless agent wizard MCP server using SSE",
	Long: `Start an MCP (Model Context Protocol) server over Server-Sent Events so AI agents can inspect wizard steps and validate drafts.
Open sessions live in the rest process; its embedded MCP server (MCP_EMBEDDED) also serves agent_wizard_get_session.`,
	Run: mcpServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	rootCmd.PersistentFlags().StringVar(&coreconfig.Global.MCP.Port, "mcp-port", coreconfig.Global.MCP.Port, "Port for the SSE MCP server")
	rootCmd.PersistentFlags().StringVar(&coreconfig.Global.MCP.Host, "host", coreconfig.Global.MCP.Host, "Host for the SSE MCP server")
	restCmd.Flags().BoolVar(&coreconfig.Global.MCP.Embedded, "mcp", coreconfig.Global.MCP.Embedded, "also serve the MCP SSE server with access to open sessions")
}

func mcpServer(_ *cobra.Command, _ []string) {
	cfg := coreconfig.Global

	sseServer := mcp.NewSSEServer(mcp.NewServer(cfg.App.Version, nil), cfg.MCP.Host, cfg.MCP.Port)

	addr := fmt.Sprintf("%s:%s", cfg.MCP.Host, cfg.MCP.Port)
	logrus.Printf("Starting agent wizard MCP SSE server on %s", addr)
	logrus.Printf("SSE endpoint: http://%s/sse", addr)
	logrus.Printf("Message endpoint: http://%s/message", addr)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[MCP] Reception of termination signal, shutting down gracefully...")
		StopApp()
		os.Exit(0)
	}()

	if err := sseServer.Start(addr); err != nil {
		logrus.Fatalf("Failed to start SSE server: %v", err)
	}
}
