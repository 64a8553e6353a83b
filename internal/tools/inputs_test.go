package tools

import (
	"testing"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

func TestDashboardTestStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{StatusPassed, "Passed", false},
		{StatusFailed, "Failed", false},
		{StatusNotRun, "Not Run", false},
		{"Passed", "", true}, // dashboard spelling is not accepted as input
		{"skipped", "", true},
	}
	for _, tc := range cases {
		got, err := dashboardTestStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("dashboardTestStatus(%q) expected error", tc.in)
			} else if kind := cdash.KindOf(err); kind != cdash.KindInvalidArguments {
				t.Errorf("dashboardTestStatus(%q) kind = %v, want InvalidArguments", tc.in, kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("dashboardTestStatus(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("dashboardTestStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name               string
		limit, offset      int
		wantLimit, wantOff int
	}{
		{"zero limit selects default", 0, 0, DefaultLimit, 0},
		{"limit above max is capped", MaxLimit + 500, 10, MaxLimit, 10},
		{"limit within range passes through", 25, 3, 25, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := clampPage(tc.limit, tc.offset)
			if limit != tc.wantLimit || offset != tc.wantOff {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOff)
			}
		})
	}
}

func TestPageWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := page(items, 2, 0); len(got) != 2 || got[0] != 1 {
		t.Errorf("page(limit=2, offset=0) = %v, want [1 2]", got)
	}
	if got := page(items, 10, 3); len(got) != 2 || got[0] != 4 {
		t.Errorf("page(limit=10, offset=3) = %v, want [4 5]", got)
	}
	if got := page(items, 2, 99); len(got) != 0 {
		t.Errorf("page beyond the end = %v, want empty", got)
	}
	if got := page([]int{}, 5, 0); len(got) != 0 {
		t.Errorf("page of empty slice = %v, want empty", got)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"dashboard", DashboardInput{}.Validate()},
		{"project overview", ProjectOverviewInput{}.Validate()},
		{"failing tests", FailingTestsInput{}.Validate()},
		{"build tests", BuildTestsInput{}.Validate()},
		{"test details", TestDetailsInput{}.Validate()},
		{"test summary", TestSummaryInput{}.Validate()},
		{"build details", BuildDetailsInput{}.Validate()},
		{"build errors", BuildErrorsInput{}.Validate()},
		{"configure output", ConfigureOutputInput{}.Validate()},
		{"build update", BuildUpdateInput{}.Validate()},
		{"coverage comparison", CoverageComparisonInput{}.Validate()},
		{"dynamic analysis", DynamicAnalysisInput{}.Validate()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err == nil {
				t.Fatal("zero-value input validated, want InvalidArguments")
			}
			if kind := cdash.KindOf(tc.err); kind != cdash.KindInvalidArguments {
				t.Errorf("kind = %v, want InvalidArguments", kind)
			}
		})
	}
}
