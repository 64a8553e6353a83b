package tools

import (
	"context"
	"strings"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// GroupAll is the group filter value that matches every build group.
const GroupAll = "*"

// DashboardOutput is the get_dashboard result: per-group build tallies.
type DashboardOutput struct {
	Project string         `json:"project"`
	Title   string         `json:"title"`
	Date    string         `json:"date"`
	Groups  []GroupSummary `json:"groups"`
}

// GroupSummary is one build group's pass/fail tally. A build counts as
// failed when it has configure errors, compile errors, or failing tests.
type GroupSummary struct {
	Name       string `json:"name"`
	BuildCount int    `json:"build_count"`
	PassCount  int    `json:"pass_count"`
	FailCount  int    `json:"fail_count"`
	BuildIDs   []int  `json:"build_ids"`
}

// Dashboard implements get_dashboard.
func (s *Service) Dashboard(ctx context.Context, in DashboardInput) (*DashboardOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	group := in.Group
	if group == "" {
		group = DefaultGroup
	}

	page, err := s.api.Dashboard(ctx, in.Project, in.Date)
	if err != nil {
		return nil, err
	}

	out := &DashboardOutput{
		Project: in.Project,
		Title:   page.Title,
		Date:    page.DateTime,
		Groups:  []GroupSummary{},
	}
	for _, bg := range page.BuildGroups {
		if group != GroupAll && bg.Name != group {
			continue
		}
		summary := GroupSummary{Name: bg.Name, BuildIDs: []int{}}
		for _, b := range bg.Builds {
			summary.BuildCount++
			summary.BuildIDs = append(summary.BuildIDs, b.ID)
			if buildFailed(b) {
				summary.FailCount++
			} else {
				summary.PassCount++
			}
		}
		out.Groups = append(out.Groups, summary)
	}

	if group != GroupAll && len(out.Groups) == 0 {
		return nil, cdash.Errorf(cdash.KindNotFound,
			"build group %q not found on the %s dashboard", group, in.Project)
	}
	return out, nil
}

// buildFailed classifies a dashboard build row. Tests that did not run do
// not fail the build on their own; a build with zero activity passes.
func buildFailed(b cdash.Build) bool {
	return b.Configure.Errors > 0 || b.Compile.Errors > 0 || b.Test.Fail > 0
}

// ProjectOverviewOutput is the get_project_overview result.
type ProjectOverviewOutput struct {
	Project         string             `json:"project"`
	Title           string             `json:"title"`
	HasSubProjects  bool               `json:"has_subprojects"`
	Groups          []string           `json:"groups"`
	Coverages       []CoverageOverview `json:"coverages"`
	DynamicAnalyses []string           `json:"dynamic_analyses"`
	StaticAnalyses  []string           `json:"static_analyses"`
	Measurements    []string           `json:"measurements"`
}

// CoverageOverview is one coverage series with its current and previous
// aggregate snapshots.
type CoverageOverview struct {
	Name            string  `json:"name"`
	CurrentPercent  float64 `json:"current_percent"`
	PreviousPercent float64 `json:"previous_percent"`
	LinesTested     int     `json:"lines_tested"`
	LinesUntested   int     `json:"lines_untested"`
}

// ProjectOverview implements get_project_overview.
func (s *Service) ProjectOverview(ctx context.Context, in ProjectOverviewInput) (*ProjectOverviewOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	page, err := s.api.Overview(ctx, in.Project, in.Date)
	if err != nil {
		return nil, err
	}

	out := &ProjectOverviewOutput{
		Project:         in.Project,
		Title:           page.Title,
		HasSubProjects:  page.HasSubProjects,
		Groups:          names(page.Groups),
		Coverages:       []CoverageOverview{},
		DynamicAnalyses: names(page.DynamicAnalyses),
		StaticAnalyses:  names(page.StaticAnalyses),
		Measurements:    names(page.Measurements),
	}
	for _, cov := range page.Coverages {
		out.Coverages = append(out.Coverages, CoverageOverview{
			Name:            cov.Name,
			CurrentPercent:  cov.Current.Percent,
			PreviousPercent: cov.Previous.Percent,
			LinesTested:     cov.Current.LinesTested,
			LinesUntested:   cov.Current.LinesUntested,
		})
	}
	return out, nil
}

func names(entries []cdash.NamedEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

// FailingTestsOutput is the get_failing_tests result.
type FailingTestsOutput struct {
	Project  string        `json:"project"`
	Group    string        `json:"group"`
	Total    int           `json:"total"`
	Offset   int           `json:"offset"`
	Returned int           `json:"returned"`
	Tests    []FailingTest `json:"tests"`
}

// FailingTest is one non-passing test annotated for triage.
type FailingTest struct {
	TestName  string `json:"test_name"`
	Status    string `json:"status"`
	BuildName string `json:"build_name"`
	Site      string `json:"site"`
	BuildID   int    `json:"build_id"`
	Details   string `json:"details,omitempty"`
}

// FailingTests implements get_failing_tests. When a group is requested (the
// default is Nightly) the project dashboard is fetched first to resolve the
// group's build IDs, and the cross-build test query is restricted to them.
// The result never contains a test whose status is passed, regardless of
// what the upstream filter returned.
func (s *Service) FailingTests(ctx context.Context, in FailingTestsInput) (*FailingTestsOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	group := in.Group
	if group == "" {
		group = DefaultGroup
	}
	limit, offset := clampPage(in.Limit, in.Offset)

	var groupBuilds map[int]bool
	if group != GroupAll {
		dash, err := s.Dashboard(ctx, DashboardInput{Project: in.Project, Date: in.Date, Group: group})
		if err != nil {
			return nil, err
		}
		groupBuilds = map[int]bool{}
		for _, g := range dash.Groups {
			for _, id := range g.BuildIDs {
				groupBuilds[id] = true
			}
		}
	}

	pageData, err := s.api.QueryTests(ctx, in.Project, in.Date, in.TestName)
	if err != nil {
		return nil, err
	}

	failing := []FailingTest{}
	for _, t := range pageData.Builds {
		if strings.EqualFold(t.Status, "passed") {
			continue
		}
		if groupBuilds != nil && !groupBuilds[t.BuildID] {
			continue
		}
		failing = append(failing, FailingTest{
			TestName:  t.TestName,
			Status:    t.Status,
			BuildName: t.BuildName,
			Site:      t.Site,
			BuildID:   t.BuildID,
			Details:   t.Details,
		})
	}

	window := page(failing, limit, offset)
	return &FailingTestsOutput{
		Project:  in.Project,
		Group:    group,
		Total:    len(failing),
		Offset:   offset,
		Returned: len(window),
		Tests:    window,
	}, nil
}
