package tools

import (
	"context"
	"strings"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// BuildTestsOutput is the get_build_tests result.
type BuildTestsOutput struct {
	BuildID  int         `json:"build_id"`
	Status   string      `json:"status,omitempty"`
	Total    int         `json:"total"`
	Offset   int         `json:"offset"`
	Returned int         `json:"returned"`
	Tests    []TestEntry `json:"tests"`
}

// TestEntry is one test row within a build.
type TestEntry struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	ExecTime    float64 `json:"exec_time_seconds"`
	Details     string  `json:"details,omitempty"`
	BuildTestID int     `json:"build_test_id,omitempty"`
}

// BuildTests implements get_build_tests. The status filter is applied
// server-side and enforced again here, since some dashboard versions ignore
// the filter grammar on this endpoint.
func (s *Service) BuildTests(ctx context.Context, in BuildTestsInput) (*BuildTestsOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	limit, offset := clampPage(in.Limit, in.Offset)

	apiStatus, err := dashboardTestStatus(in.Status)
	if err != nil {
		return nil, err
	}

	pageData, err := s.api.BuildTests(ctx, in.BuildID, apiStatus)
	if err != nil {
		return nil, err
	}

	tests := []TestEntry{}
	for _, t := range pageData.Tests {
		if apiStatus != "" && !strings.EqualFold(t.Status, apiStatus) {
			continue
		}
		tests = append(tests, TestEntry{
			Name:        t.Name,
			Status:      t.Status,
			ExecTime:    t.ExecTime,
			Details:     t.Details,
			BuildTestID: t.BuildTestID,
		})
	}

	window := page(tests, limit, offset)
	return &BuildTestsOutput{
		BuildID:  in.BuildID,
		Status:   in.Status,
		Total:    len(tests),
		Offset:   offset,
		Returned: len(window),
		Tests:    window,
	}, nil
}

// TestDetailsOutput is the get_test_details result: one test run's full
// record including its captured output.
type TestDetailsOutput struct {
	BuildID      int           `json:"build_id"`
	BuildTestID  int           `json:"build_test_id"`
	TestName     string        `json:"test_name"`
	Status       string        `json:"status"`
	Command      string        `json:"command,omitempty"`
	Output       string        `json:"output,omitempty"`
	Measurements []Measurement `json:"measurements"`
}

// Measurement is a named value attached to a test run.
type Measurement struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TestDetails implements get_test_details. The dashboard addresses test
// runs by an opaque buildtest ID, so the (build, test name) pair is first
// resolved through the build's test list.
func (s *Service) TestDetails(ctx context.Context, in TestDetailsInput) (*TestDetailsOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	testsPage, err := s.api.BuildTests(ctx, in.BuildID, "")
	if err != nil {
		return nil, err
	}

	buildTestID := 0
	for _, t := range testsPage.Tests {
		if t.Name == in.TestName {
			buildTestID = t.BuildTestID
			break
		}
	}
	if buildTestID == 0 {
		return nil, cdash.Errorf(cdash.KindNotFound,
			"test %q not found in build %d", in.TestName, in.BuildID)
	}

	detailsPage, err := s.api.TestDetails(ctx, buildTestID)
	if err != nil {
		return nil, err
	}

	out := &TestDetailsOutput{
		BuildID:      in.BuildID,
		BuildTestID:  buildTestID,
		TestName:     detailsPage.Test.Name,
		Status:       detailsPage.Test.Status,
		Command:      detailsPage.Test.Command,
		Output:       detailsPage.Test.Output,
		Measurements: []Measurement{},
	}
	if out.TestName == "" {
		out.TestName = in.TestName
	}
	for _, m := range detailsPage.Test.Measurements {
		out.Measurements = append(out.Measurements, Measurement{Name: m.Name, Value: m.Value})
	}
	return out, nil
}

// TestSummaryOutput is the get_test_summary result: one test's recent
// pass/fail history with a flakiness verdict.
type TestSummaryOutput struct {
	Project     string    `json:"project"`
	TestName    string    `json:"test_name"`
	RunsChecked int       `json:"runs_checked"`
	PassCount   int       `json:"pass_count"`
	FailCount   int       `json:"fail_count"`
	NotRunCount int       `json:"not_run_count"`
	Flaky       bool      `json:"flaky"`
	Runs        []TestRun `json:"runs"`
}

// TestRun is one historical run of the test, most recent first.
type TestRun struct {
	BuildID   int     `json:"build_id"`
	BuildName string  `json:"build_name"`
	Site      string  `json:"site"`
	Status    string  `json:"status"`
	Time      float64 `json:"time_seconds"`
	Revision  string  `json:"revision,omitempty"`
}

// TestSummary implements get_test_summary. Flakiness is judged over the
// most recent build_count runs: the test is flaky when its status differs
// between at least two of them. A single historical run is never flaky.
func (s *Service) TestSummary(ctx context.Context, in TestSummaryInput) (*TestSummaryOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	buildCount := in.BuildCount
	if buildCount == 0 {
		buildCount = DefaultBuildCount
	}
	if buildCount > MaxLimit {
		buildCount = MaxLimit
	}

	summaryPage, err := s.api.TestSummary(ctx, in.Project, in.TestName, in.Date)
	if err != nil {
		return nil, err
	}

	runs := summaryPage.Builds
	if len(runs) > buildCount {
		runs = runs[:buildCount]
	}

	out := &TestSummaryOutput{
		Project:     in.Project,
		TestName:    in.TestName,
		RunsChecked: len(runs),
		Runs:        []TestRun{},
	}
	for _, r := range runs {
		switch {
		case strings.EqualFold(r.Status, "passed"):
			out.PassCount++
		case strings.EqualFold(r.Status, "failed"):
			out.FailCount++
		default:
			out.NotRunCount++
		}
		out.Runs = append(out.Runs, TestRun{
			BuildID:   r.BuildID,
			BuildName: r.BuildName,
			Site:      r.Site,
			Status:    r.Status,
			Time:      r.Time,
			Revision:  r.Update.Revision,
		})
	}
	out.Flaky = isFlaky(runs)
	return out, nil
}

// isFlaky reports whether the status differs across at least two runs.
func isFlaky(runs []cdash.TestSummaryRun) bool {
	if len(runs) < 2 {
		return false
	}
	first := strings.ToLower(runs[0].Status)
	for _, r := range runs[1:] {
		if strings.ToLower(r.Status) != first {
			return true
		}
	}
	return false
}
