package tools

import (
	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// Input types for the 12 catalog tools. Each type doubles as the tool's
// JSON schema source (via jsonschema.For) and carries its own Validate
// method. Validation runs before any network call: a missing required
// parameter or an out-of-domain value returns InvalidArguments and the
// dashboard is never contacted.
//
// Defaults are applied by the Service methods after validation:
// empty date means the dashboard's current day, empty group means "Nightly",
// zero build_count means 5, zero limit means 50.

const (
	// DefaultGroup is the build group queried when none is given.
	DefaultGroup = "Nightly"

	// DefaultBuildCount is the run-history depth for get_test_summary.
	DefaultBuildCount = 5

	// DefaultLimit and MaxLimit bound list pagination.
	DefaultLimit = 50
	MaxLimit     = 200
)

// DashboardInput selects a project dashboard.
type DashboardInput struct {
	Project string `json:"project" jsonschema:"CDash project name. Case-sensitive."`
	Date    string `json:"date,omitempty" jsonschema:"Dashboard date (YYYY-MM-DD). Defaults to today."`
	Group   string `json:"group,omitempty" jsonschema:"Build group to report (e.g. Nightly, Continuous). Defaults to Nightly. Use * for all groups."`
}

// Validate reports caller errors in DashboardInput.
func (in DashboardInput) Validate() error {
	if in.Project == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "project is required")
	}
	return nil
}

// ProjectOverviewInput selects a project overview.
type ProjectOverviewInput struct {
	Project string `json:"project" jsonschema:"CDash project name. Case-sensitive."`
	Date    string `json:"date,omitempty" jsonschema:"Overview date (YYYY-MM-DD). Defaults to today."`
}

// Validate reports caller errors in ProjectOverviewInput.
func (in ProjectOverviewInput) Validate() error {
	if in.Project == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "project is required")
	}
	return nil
}

// FailingTestsInput selects non-passing tests across a project's builds.
type FailingTestsInput struct {
	Project  string `json:"project" jsonschema:"CDash project name. Case-sensitive."`
	Date     string `json:"date,omitempty" jsonschema:"Dashboard date (YYYY-MM-DD). Defaults to today."`
	Group    string `json:"group,omitempty" jsonschema:"Restrict to one build group. Defaults to Nightly. Use * for all groups."`
	TestName string `json:"test_name,omitempty" jsonschema:"Only tests whose name contains this string."`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum records to return (default 50, max 200)."`
	Offset   int    `json:"offset,omitempty" jsonschema:"Records to skip, for pagination."`
}

// Validate reports caller errors in FailingTestsInput.
func (in FailingTestsInput) Validate() error {
	if in.Project == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "project is required")
	}
	if in.Limit < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "limit must not be negative")
	}
	if in.Offset < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "offset must not be negative")
	}
	return nil
}

// BuildTestsInput selects the test list of one build.
type BuildTestsInput struct {
	BuildID int    `json:"build_id" jsonschema:"The CDash build ID."`
	Status  string `json:"status,omitempty" jsonschema:"Filter by status: passed, failed, or notrun."`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum records to return (default 50, max 200)."`
	Offset  int    `json:"offset,omitempty" jsonschema:"Records to skip, for pagination."`
}

// Validate reports caller errors in BuildTestsInput.
func (in BuildTestsInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	if _, err := dashboardTestStatus(in.Status); err != nil {
		return err
	}
	if in.Limit < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "limit must not be negative")
	}
	if in.Offset < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "offset must not be negative")
	}
	return nil
}

// TestDetailsInput addresses one test run by (build, test name).
type TestDetailsInput struct {
	BuildID  int    `json:"build_id" jsonschema:"The CDash build ID."`
	TestName string `json:"test_name" jsonschema:"Exact name of the test within the build."`
}

// Validate reports caller errors in TestDetailsInput.
func (in TestDetailsInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	if in.TestName == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "test_name is required")
	}
	return nil
}

// TestSummaryInput selects one test's recent run history.
type TestSummaryInput struct {
	Project    string `json:"project" jsonschema:"CDash project name. Case-sensitive."`
	TestName   string `json:"test_name" jsonschema:"Exact name of the test."`
	Date       string `json:"date,omitempty" jsonschema:"History date (YYYY-MM-DD). Defaults to today."`
	BuildCount int    `json:"build_count,omitempty" jsonschema:"How many recent runs to examine (default 5, max 200)."`
}

// Validate reports caller errors in TestSummaryInput.
func (in TestSummaryInput) Validate() error {
	if in.Project == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "project is required")
	}
	if in.TestName == "" {
		return cdash.Errorf(cdash.KindInvalidArguments, "test_name is required")
	}
	if in.BuildCount < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_count must not be negative")
	}
	return nil
}

// BuildDetailsInput addresses one build.
type BuildDetailsInput struct {
	BuildID int `json:"build_id" jsonschema:"The CDash build ID."`
}

// Validate reports caller errors in BuildDetailsInput.
func (in BuildDetailsInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	return nil
}

// BuildErrorsInput selects a build's compiler diagnostics.
type BuildErrorsInput struct {
	BuildID  int    `json:"build_id" jsonschema:"The CDash build ID."`
	Severity string `json:"severity,omitempty" jsonschema:"Filter by severity: error or warning. Both when omitted."`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum records to return (default 50, max 200)."`
	Offset   int    `json:"offset,omitempty" jsonschema:"Records to skip, for pagination."`
}

// Validate reports caller errors in BuildErrorsInput.
func (in BuildErrorsInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	switch in.Severity {
	case "", SeverityError, SeverityWarning:
	default:
		return cdash.Errorf(cdash.KindInvalidArguments,
			"severity must be %q or %q, got %q", SeverityError, SeverityWarning, in.Severity)
	}
	if in.Limit < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "limit must not be negative")
	}
	if in.Offset < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "offset must not be negative")
	}
	return nil
}

// ConfigureOutputInput addresses one build's configure stage.
type ConfigureOutputInput struct {
	BuildID int `json:"build_id" jsonschema:"The CDash build ID."`
}

// Validate reports caller errors in ConfigureOutputInput.
func (in ConfigureOutputInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	return nil
}

// BuildUpdateInput addresses one build's VCS changes.
type BuildUpdateInput struct {
	BuildID int `json:"build_id" jsonschema:"The CDash build ID."`
}

// Validate reports caller errors in BuildUpdateInput.
func (in BuildUpdateInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	return nil
}

// CoverageComparisonInput names the two builds to compare. A is the older
// baseline, B the newer build; deltas are reported as B minus A.
type CoverageComparisonInput struct {
	BuildIDA int `json:"build_id_a" jsonschema:"Baseline build ID."`
	BuildIDB int `json:"build_id_b" jsonschema:"Build ID to compare against the baseline."`
}

// Validate reports caller errors in CoverageComparisonInput.
func (in CoverageComparisonInput) Validate() error {
	if in.BuildIDA <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id_a is required and must be positive")
	}
	if in.BuildIDB <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id_b is required and must be positive")
	}
	return nil
}

// DynamicAnalysisInput addresses one build's dynamic analysis results.
type DynamicAnalysisInput struct {
	BuildID int `json:"build_id" jsonschema:"The CDash build ID."`
	Limit   int `json:"limit,omitempty" jsonschema:"Maximum defect records to return (default 50, max 200)."`
	Offset  int `json:"offset,omitempty" jsonschema:"Records to skip, for pagination."`
}

// Validate reports caller errors in DynamicAnalysisInput.
func (in DynamicAnalysisInput) Validate() error {
	if in.BuildID <= 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "build_id is required and must be positive")
	}
	if in.Limit < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "limit must not be negative")
	}
	if in.Offset < 0 {
		return cdash.Errorf(cdash.KindInvalidArguments, "offset must not be negative")
	}
	return nil
}

// Severity values accepted by BuildErrorsInput.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Test status values accepted by BuildTestsInput, with their dashboard
// spellings.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusNotRun = "notrun"
)

// dashboardTestStatus maps a tool-facing status filter to the dashboard's
// spelling. Empty means no filter.
func dashboardTestStatus(status string) (string, error) {
	switch status {
	case "":
		return "", nil
	case StatusPassed:
		return "Passed", nil
	case StatusFailed:
		return "Failed", nil
	case StatusNotRun:
		return "Not Run", nil
	default:
		return "", cdash.Errorf(cdash.KindInvalidArguments,
			"status must be %q, %q, or %q, got %q", StatusPassed, StatusFailed, StatusNotRun, status)
	}
}

// clampPage normalizes limit/offset pagination: zero limit selects the
// default, limits above MaxLimit are capped, negative offsets were already
// rejected by Validate.
func clampPage(limit, offset int) (int, int) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// page slices one window out of items.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
