// Package tools implements the query catalog exposed over MCP: parameter
// validation, dispatch to the dashboard API client, and the per-resource
// response shapers that project raw dashboard pages into compact typed
// results. The package owns no state beyond its collaborators; every tool
// call is independent.
package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// API is the slice of the dashboard client the catalog consumes. The
// concrete implementation is *cdash.Client; tests substitute a counting
// fake to assert that invalid arguments never reach the network.
type API interface {
	Dashboard(ctx context.Context, project, date string) (*cdash.DashboardPage, error)
	QueryTests(ctx context.Context, project, date, testName string) (*cdash.QueryTestsPage, error)
	BuildSummary(ctx context.Context, buildID int) (*cdash.BuildSummaryPage, error)
	BuildErrors(ctx context.Context, buildID int, diagnostic cdash.DiagnosticType) (*cdash.BuildErrorsPage, error)
	BuildTests(ctx context.Context, buildID int, status string) (*cdash.BuildTestsPage, error)
	Configure(ctx context.Context, buildID int) (*cdash.ConfigurePage, error)
	TestDetails(ctx context.Context, buildTestID int) (*cdash.TestDetailsPage, error)
	TestSummary(ctx context.Context, project, testName, date string) (*cdash.TestSummaryPage, error)
	BuildUpdate(ctx context.Context, buildID int) (*cdash.UpdatePage, error)
	Overview(ctx context.Context, project, date string) (*cdash.OverviewPage, error)
	Coverage(ctx context.Context, buildID int) (*cdash.CoveragePage, error)
	DynamicAnalysis(ctx context.Context, buildID int) (*cdash.DynamicAnalysisPage, error)
}

// Service binds the tool catalog to one dashboard API client. Safe for
// concurrent use.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService builds a Service.
func NewService(api API, logger *slog.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}, nil
}
