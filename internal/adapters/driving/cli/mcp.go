package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/artemis/internal/adapters/driving/mcp"
	"github.com/custodia-labs/artemis/internal/core/services"
	"github.com/custodia-labs/artemis/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which also serves Prometheus
metrics at /metrics. Use --port -1 to pick the first free port from 8080.

While serving, the oracle is synchronised every oracle.sync_interval_minutes.

Examples:
  # Stdio mode (default, for Claude Desktop)
  artemis serve

  # HTTP mode (for MCP Inspector, remote access, metrics)
  artemis serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "artemis": {
        "command": "/path/to/artemis",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio, -1 = first free port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if detectionService == nil || frameworkService == nil {
		return notConfigured("detection services")
	}

	ports := &mcp.Ports{
		Detection:  detectionService,
		Frameworks: frameworkService,
	}
	if oracleService != nil && oracleService.Enabled() {
		ports.Oracle = oracleService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if scheduler != nil {
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				logger.Error("scheduler stopped: %v", err)
			}
		}()
		defer scheduler.Stop() //nolint:errcheck // best-effort shutdown
	}

	if port < 0 {
		port, err = services.FindAvailablePort(8080, 8180)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		if metricsHandler != nil {
			server.Mount("/metrics", metricsHandler)
		}
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
