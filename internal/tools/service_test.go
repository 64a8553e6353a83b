package tools

import (
	"context"
	"testing"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
	"github.com/cdash-mcp/cdash-mcp/internal/log"
)

// fakeAPI is a canned-response API that counts every call, so tests can
// assert that invalid arguments never reach the network.
type fakeAPI struct {
	calls int

	dashboard       *cdash.DashboardPage
	queryTests      *cdash.QueryTestsPage
	buildSummary    *cdash.BuildSummaryPage
	buildErrors     map[cdash.DiagnosticType]*cdash.BuildErrorsPage
	buildTests      *cdash.BuildTestsPage
	configure       *cdash.ConfigurePage
	testDetails     *cdash.TestDetailsPage
	testSummary     *cdash.TestSummaryPage
	buildUpdate     *cdash.UpdatePage
	overview        *cdash.OverviewPage
	coverage        map[int]*cdash.CoveragePage
	dynamicAnalysis *cdash.DynamicAnalysisPage

	err error
}

func (f *fakeAPI) Dashboard(ctx context.Context, project, date string) (*cdash.DashboardPage, error) {
	f.calls++
	return f.dashboard, f.err
}

func (f *fakeAPI) QueryTests(ctx context.Context, project, date, testName string) (*cdash.QueryTestsPage, error) {
	f.calls++
	return f.queryTests, f.err
}

func (f *fakeAPI) BuildSummary(ctx context.Context, buildID int) (*cdash.BuildSummaryPage, error) {
	f.calls++
	return f.buildSummary, f.err
}

func (f *fakeAPI) BuildErrors(ctx context.Context, buildID int, diagnostic cdash.DiagnosticType) (*cdash.BuildErrorsPage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.buildErrors[diagnostic], nil
}

func (f *fakeAPI) BuildTests(ctx context.Context, buildID int, status string) (*cdash.BuildTestsPage, error) {
	f.calls++
	return f.buildTests, f.err
}

func (f *fakeAPI) Configure(ctx context.Context, buildID int) (*cdash.ConfigurePage, error) {
	f.calls++
	return f.configure, f.err
}

func (f *fakeAPI) TestDetails(ctx context.Context, buildTestID int) (*cdash.TestDetailsPage, error) {
	f.calls++
	return f.testDetails, f.err
}

func (f *fakeAPI) TestSummary(ctx context.Context, project, testName, date string) (*cdash.TestSummaryPage, error) {
	f.calls++
	return f.testSummary, f.err
}

func (f *fakeAPI) BuildUpdate(ctx context.Context, buildID int) (*cdash.UpdatePage, error) {
	f.calls++
	return f.buildUpdate, f.err
}

func (f *fakeAPI) Overview(ctx context.Context, project, date string) (*cdash.OverviewPage, error) {
	f.calls++
	return f.overview, f.err
}

func (f *fakeAPI) Coverage(ctx context.Context, buildID int) (*cdash.CoveragePage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coverage[buildID], nil
}

func (f *fakeAPI) DynamicAnalysis(ctx context.Context, buildID int) (*cdash.DynamicAnalysisPage, error) {
	f.calls++
	return f.dynamicAnalysis, f.err
}

func newTestService(t *testing.T, api API) *Service {
	t.Helper()
	s, err := NewService(api, log.NewNop())
	if err != nil {
		t.Fatalf("NewService() unexpected error: %v", err)
	}
	return s
}

func TestNewService_RequiresAPI(t *testing.T) {
	if _, err := NewService(nil, log.NewNop()); err == nil {
		t.Error("NewService(nil) expected error, got nil")
	}
}

// wantInvalidArguments asserts err is InvalidArguments and that the fake
// API was never contacted.
func wantInvalidArguments(t *testing.T, api *fakeAPI, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kind := cdash.KindOf(err); kind != cdash.KindInvalidArguments {
		t.Errorf("error kind = %v, want InvalidArguments (err: %v)", kind, err)
	}
	if api.calls != 0 {
		t.Errorf("API was called %d time(s); invalid arguments must fail before any network call", api.calls)
	}
}
