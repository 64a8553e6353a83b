package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
	"github.com/cdash-mcp/cdash-mcp/internal/config"
	"github.com/cdash-mcp/cdash-mcp/internal/log"
	"github.com/cdash-mcp/cdash-mcp/internal/mcp"
	"github.com/cdash-mcp/cdash-mcp/internal/observability"
	"github.com/cdash-mcp/cdash-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe wires config → client → tool service → MCP server and blocks on
// the stdio transport. Logs go to stderr; stdout carries the protocol.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "cdash-mcp",
		Environment: cfg.Environment,
		Insecure:    true,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("trace shutdown error", "error", err)
		}
	}()

	client, err := cdash.New(cdash.Config{
		BaseURL:           cfg.URL,
		Token:             cfg.Token,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger.With("component", "cdash"),
	})
	if err != nil {
		return fmt.Errorf("creating dashboard client: %w", err)
	}

	service, err := tools.NewService(client, logger.With("component", "tools"))
	if err != nil {
		return fmt.Errorf("creating tool service: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    "cdash-mcp",
		Version: Version,
		Logger:  logger.With("component", "mcp"),
		Service: service,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready",
		"version", Version,
		"dashboard", client.BaseURL(),
		"auth", cfg.Token != "",
		"transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down")
	return nil
}
