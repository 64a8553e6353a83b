package tools

import (
	"context"
	"testing"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

func TestBuildTests_ReappliesStatusFilter(t *testing.T) {
	// The upstream filter grammar is advisory on some dashboard versions,
	// so the page may still contain rows of other statuses.
	api := &fakeAPI{buildTests: &cdash.BuildTestsPage{Tests: []cdash.BuildTest{
		{Name: "t1", Status: "Passed", BuildTestID: 11},
		{Name: "t2", Status: "Failed", BuildTestID: 12},
		{Name: "t3", Status: "Failed", BuildTestID: 13},
		{Name: "t4", Status: "Not Run", BuildTestID: 14},
	}}}
	svc := newTestService(t, api)

	out, err := svc.BuildTests(context.Background(), BuildTestsInput{BuildID: 101, Status: StatusFailed})
	if err != nil {
		t.Fatalf("BuildTests() error: %v", err)
	}
	if out.Total != 2 {
		t.Errorf("total = %d, want 2 failed tests", out.Total)
	}
	for _, te := range out.Tests {
		if te.Status != "Failed" {
			t.Errorf("filtered result contains status %q", te.Status)
		}
	}
}

func TestBuildTests_Pagination(t *testing.T) {
	rows := make([]cdash.BuildTest, 0, 5)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		rows = append(rows, cdash.BuildTest{Name: name, Status: "Passed", BuildTestID: i + 1})
	}
	api := &fakeAPI{buildTests: &cdash.BuildTestsPage{Tests: rows}}
	svc := newTestService(t, api)

	out, err := svc.BuildTests(context.Background(), BuildTestsInput{BuildID: 101, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("BuildTests() error: %v", err)
	}
	if out.Total != 5 || out.Returned != 2 {
		t.Errorf("total/returned = %d/%d, want 5/2", out.Total, out.Returned)
	}
	if out.Tests[0].Name != "c" || out.Tests[1].Name != "d" {
		t.Errorf("window = %+v, want [c d]", out.Tests)
	}
}

func TestBuildTests_InvalidStatus(t *testing.T) {
	api := &fakeAPI{}
	svc := newTestService(t, api)

	_, err := svc.BuildTests(context.Background(), BuildTestsInput{BuildID: 1, Status: "flaky"})
	wantInvalidArguments(t, api, err)
}

func TestTestDetails_ResolvesBuildTestID(t *testing.T) {
	api := &fakeAPI{
		buildTests: &cdash.BuildTestsPage{Tests: []cdash.BuildTest{
			{Name: "other", Status: "Passed", BuildTestID: 77},
			{Name: "net.Timeout", Status: "Failed", BuildTestID: 88},
		}},
		testDetails: &cdash.TestDetailsPage{Test: &cdash.TestDetail{
			Name:    "net.Timeout",
			Status:  "Failed",
			Command: "/usr/bin/ctest -R net.Timeout",
			Output:  "assertion failed: deadline exceeded",
			Measurements: []cdash.Measurement{
				{Name: "Execution Time", Value: "12.4"},
			},
		}},
	}
	svc := newTestService(t, api)

	out, err := svc.TestDetails(context.Background(), TestDetailsInput{BuildID: 101, TestName: "net.Timeout"})
	if err != nil {
		t.Fatalf("TestDetails() error: %v", err)
	}
	if out.BuildTestID != 88 {
		t.Errorf("build_test_id = %d, want 88", out.BuildTestID)
	}
	if out.Status != "Failed" || out.Output == "" {
		t.Errorf("details = %+v, want failed test with captured output", out)
	}
	if len(out.Measurements) != 1 || out.Measurements[0].Name != "Execution Time" {
		t.Errorf("measurements = %+v, want the execution time row", out.Measurements)
	}
	if api.calls != 2 {
		t.Errorf("API calls = %d, want 2 (list then details)", api.calls)
	}
}

func TestTestDetails_UnknownNameIsNotFound(t *testing.T) {
	api := &fakeAPI{buildTests: &cdash.BuildTestsPage{Tests: []cdash.BuildTest{
		{Name: "present", BuildTestID: 1},
	}}}
	svc := newTestService(t, api)

	_, err := svc.TestDetails(context.Background(), TestDetailsInput{BuildID: 101, TestName: "absent"})
	if kind := cdash.KindOf(err); kind != cdash.KindNotFound {
		t.Errorf("error kind = %v, want NotFound (err: %v)", kind, err)
	}
}

func TestTestDetails_InvalidArguments(t *testing.T) {
	cases := []struct {
		name string
		in   TestDetailsInput
	}{
		{"missing build_id", TestDetailsInput{TestName: "t"}},
		{"missing test_name", TestDetailsInput{BuildID: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := newTestService(t, api)
			_, err := svc.TestDetails(context.Background(), tc.in)
			wantInvalidArguments(t, api, err)
		})
	}
}

func summaryRuns(statuses ...string) []cdash.TestSummaryRun {
	runs := make([]cdash.TestSummaryRun, 0, len(statuses))
	for i, s := range statuses {
		runs = append(runs, cdash.TestSummaryRun{
			Site:      "linux-a",
			BuildName: "gcc-debug",
			Status:    s,
			BuildID:   1000 - i,
			Time:      1.5,
		})
	}
	return runs
}

func TestTestSummary_AlternatingStatusesAreFlaky(t *testing.T) {
	api := &fakeAPI{testSummary: &cdash.TestSummaryPage{
		Builds: summaryRuns("Passed", "Failed", "Passed", "Failed", "Passed"),
	}}
	svc := newTestService(t, api)

	out, err := svc.TestSummary(context.Background(), TestSummaryInput{
		Project: "TestProject", TestName: "net.Timeout", BuildCount: 5,
	})
	if err != nil {
		t.Fatalf("TestSummary() error: %v", err)
	}
	if !out.Flaky {
		t.Error("flaky = false, want true for alternating pass/fail history")
	}
	if out.RunsChecked != 5 || out.PassCount != 3 || out.FailCount != 2 {
		t.Errorf("runs/pass/fail = %d/%d/%d, want 5/3/2", out.RunsChecked, out.PassCount, out.FailCount)
	}
}

func TestTestSummary_StableHistoryIsNotFlaky(t *testing.T) {
	api := &fakeAPI{testSummary: &cdash.TestSummaryPage{
		Builds: summaryRuns("Failed", "Failed", "Failed"),
	}}
	svc := newTestService(t, api)

	out, err := svc.TestSummary(context.Background(), TestSummaryInput{Project: "p", TestName: "t"})
	if err != nil {
		t.Fatalf("TestSummary() error: %v", err)
	}
	if out.Flaky {
		t.Error("flaky = true, want false when every run has the same status")
	}
	if out.FailCount != 3 {
		t.Errorf("fail_count = %d, want 3", out.FailCount)
	}
}

func TestTestSummary_SingleRunIsNeverFlaky(t *testing.T) {
	api := &fakeAPI{testSummary: &cdash.TestSummaryPage{
		Builds: summaryRuns("Failed"),
	}}
	svc := newTestService(t, api)

	out, err := svc.TestSummary(context.Background(), TestSummaryInput{Project: "p", TestName: "t"})
	if err != nil {
		t.Fatalf("TestSummary() error: %v", err)
	}
	if out.Flaky {
		t.Error("flaky = true, want false for a single historical run")
	}
}

func TestTestSummary_BuildCountTruncatesHistory(t *testing.T) {
	// Beyond the window the history flips status, but only the two most
	// recent runs are examined.
	api := &fakeAPI{testSummary: &cdash.TestSummaryPage{
		Builds: summaryRuns("Passed", "Passed", "Failed", "Failed"),
	}}
	svc := newTestService(t, api)

	out, err := svc.TestSummary(context.Background(), TestSummaryInput{
		Project: "p", TestName: "t", BuildCount: 2,
	})
	if err != nil {
		t.Fatalf("TestSummary() error: %v", err)
	}
	if out.RunsChecked != 2 || len(out.Runs) != 2 {
		t.Errorf("runs_checked = %d, want 2", out.RunsChecked)
	}
	if out.Flaky {
		t.Error("flaky = true, want false inside the truncated window")
	}
	if out.PassCount != 2 || out.FailCount != 0 {
		t.Errorf("pass/fail = %d/%d, want 2/0", out.PassCount, out.FailCount)
	}
}

func TestTestSummary_InvalidArguments(t *testing.T) {
	cases := []struct {
		name string
		in   TestSummaryInput
	}{
		{"missing project", TestSummaryInput{TestName: "t"}},
		{"missing test_name", TestSummaryInput{Project: "p"}},
		{"negative build_count", TestSummaryInput{Project: "p", TestName: "t", BuildCount: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := newTestService(t, api)
			_, err := svc.TestSummary(context.Background(), tc.in)
			wantInvalidArguments(t, api, err)
		})
	}
}
