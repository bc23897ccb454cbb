package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreconfig "github.com/AzielCF/az-console/core/config"
	"github.com/AzielCF/az-console/ui/mcp"
	"github.com/AzielCF/az-console/ui/rest"
	"github.com/AzielCF/az-console/ui/rest/middleware"
	"github.com/AzielCF/az-console/ui/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the agent wizard over HTTP",
	Long:  `Starts the REST API, the /ws notification stream and the /metrics endpoint.`,
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := coreconfig.Global

	app := fiber.New(fiber.Config{
		Network:      "tcp",
		AppName:      "Az-Console Agent Wizard",
		ServerHeader: "Hidden",
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
	if cfg.App.Debug {
		app.Use(logger.New())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	rest.InitRestWizard(apiGroup, rest.Wizard{
		Sessions:          sessionManager,
		Models:            modelCatalog,
		Previewer:         urlPreviewer,
		Monitor:           wizardMonitor,
		Pool:              autosavePool,
		OnSessionsChanged: appMetrics.SetOpenSessions,
	})
	rest.InitRestAgents(apiGroup, agentService)
	rest.InitRestSettings(apiGroup, settingsService, sessionManager)
	websocket.RegisterRoutes(apiGroup, wsHub, sessionManager)

	var sseServer *server.SSEServer
	if cfg.MCP.Embedded {
		sseServer = startEmbeddedMCP(cfg)
	}

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		if sseServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := sseServer.Shutdown(ctx); err != nil {
				logrus.Errorf("[MCP] Error during SSE shutdown: %v", err)
			}
			cancel()
		}
		StopApp()
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("Failed to start: ", err.Error())
	}
}

// startEmbeddedMCP serves the MCP tools next to the REST API so
// agent_wizard_get_session sees the sessions opened over REST.
func startEmbeddedMCP(cfg *coreconfig.Config) *server.SSEServer {
	sseServer := mcp.NewSSEServer(mcp.NewServer(cfg.App.Version, sessionManager), cfg.MCP.Host, cfg.MCP.Port)
	addr := fmt.Sprintf("%s:%s", cfg.MCP.Host, cfg.MCP.Port)
	go func() {
		logrus.Infof("[MCP] embedded SSE server on http://%s/sse", addr)
		if err := sseServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("[MCP] embedded SSE server stopped: %v", err)
		}
	}()
	return sseServer
}
