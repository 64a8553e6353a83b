// Package mcp exposes the dashboard query catalog as a Model Context
// Protocol server. It owns tool registration and the dispatch boundary:
// typed inputs are decoded and schema-checked by the SDK, results are
// JSON-marshaled into text content, and every error (expected or not) is
// normalized into the closed taxonomy before it reaches the client.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"

	"github.com/cdash-mcp/cdash-mcp/internal/tools"
)

// Server wraps the MCP SDK server around the tool catalog.
type Server struct {
	mcpServer *mcp.Server
	service   *tools.Service
	logger    *slog.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Logger  *slog.Logger
	Service *tools.Service
}

// NewServer creates the MCP server and registers the 12 catalog tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Service == nil {
		return nil, fmt.Errorf("tool service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		service:   cfg.Service,
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	return s, nil
}

// Run starts the MCP server on the given transport. Blocking; returns when
// the transport closes or ctx is canceled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	svc := s.service
	if err := addTool(s, "get_dashboard",
		"Get the dashboard for a project: build groups with pass/fail/build counts and build IDs.",
		svc.Dashboard); err != nil {
		return err
	}
	if err := addTool(s, "get_project_overview",
		"Get a project overview with aggregate build, test, and coverage statistics.",
		svc.ProjectOverview); err != nil {
		return err
	}
	if err := addTool(s, "get_failing_tests",
		"Find non-passing tests across a project's builds, annotated with build name and site for triage.",
		svc.FailingTests); err != nil {
		return err
	}
	if err := addTool(s, "get_build_tests",
		"List tests for a specific build, optionally filtered by status (passed, failed, notrun).",
		svc.BuildTests); err != nil {
		return err
	}
	if err := addTool(s, "get_test_details",
		"Get a single test run's full record: status, command, captured output, and measurements.",
		svc.TestDetails); err != nil {
		return err
	}
	if err := addTool(s, "get_test_summary",
		"Get a test's pass/fail history across recent builds, with flaky-test detection.",
		svc.TestSummary); err != nil {
		return err
	}
	if err := addTool(s, "get_build_details",
		"Get a build's configure/compile/test summary and its previous-build pointer.",
		svc.BuildDetails); err != nil {
		return err
	}
	if err := addTool(s, "get_build_errors",
		"View compiler errors and warnings for a build, each with source file and line.",
		svc.BuildErrors); err != nil {
		return err
	}
	if err := addTool(s, "get_configure_output",
		"View the configure command, exit status, and output for a build.",
		svc.ConfigureOutput); err != nil {
		return err
	}
	if err := addTool(s, "get_build_update",
		"View the VCS revision window and commit list associated with a build.",
		svc.BuildUpdate); err != nil {
		return err
	}
	if err := addTool(s, "get_coverage_comparison",
		"Compare line coverage between two builds: per-file and aggregate deltas with regression flags.",
		svc.CoverageComparison); err != nil {
		return err
	}
	if err := addTool(s, "get_dynamic_analysis",
		"Get dynamic analysis results (memory checkers, sanitizers) for a build.",
		svc.DynamicAnalysis); err != nil {
		return err
	}
	return nil
}

// addTool registers one catalog tool. The returned handler is the dispatch
// boundary: it recovers panics, normalizes every error into the taxonomy,
// and tags each invocation with a request ID for log correlation.
func addTool[In, Out any](s *Server, name, description string, call func(context.Context, In) (Out, error)) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", name, err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (result *mcp.CallToolResult, _ any, _ error) {
		requestID := uuid.NewString()
		ctx, span := otel.Tracer("cdash-mcp").Start(ctx, name)
		defer span.End()

		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("tool panicked", "tool", name, "request_id", requestID, "panic", r)
				result = errorResult(fmt.Errorf("panic in %s", name))
			}
		}()

		s.logger.Debug("tool call", "tool", name, "request_id", requestID)
		out, err := call(ctx, in)
		if err != nil {
			s.logger.Warn("tool failed", "tool", name, "request_id", requestID, "error", err)
			return errorResult(err), nil, nil
		}
		return jsonResult(out), nil, nil
	})
	return nil
}
