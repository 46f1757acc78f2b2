package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/aretw0/stylepanel/pkg/adapters/mcp"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the panel as MCP tools, so agents can list groups, render a
layer, apply edits and toggle groups of a style they hold.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		if cmd.Flags().Changed("listen") {
			cfg.Server.Listen, _ = cmd.Flags().GetString("listen")
		}
		baseURL, _ := cmd.Flags().GetString("base-url")

		logger := cli.NewLogger(cfg)
		slog.SetDefault(logger)

		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}
		sessions, closer, err := cli.OpenSessions(cmd.Context(), cfg.Store, logger)
		if err != nil {
			return err
		}
		defer closer.Close()

		srv := mcp.NewServer(provider, sessions,
			mcp.WithLogger(logger),
			mcp.WithMetrics(observability.NewMetrics()),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Stylepanel MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + cfg.Server.Listen
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, cfg.Server.Listen, baseURL); err != nil {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("listen", ":8080", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public URL of the SSE endpoint (default derived from --listen)")
}
