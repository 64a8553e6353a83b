package tools

import (
	"context"
	"testing"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

func dynamicAnalysisFixture() *cdash.DynamicAnalysisPage {
	return &cdash.DynamicAnalysisPage{
		Build: cdash.DynamicAnalysisBuild{BuildName: "gcc-asan", Site: "linux-c"},
		DefectTypes: []cdash.DefectType{
			{Type: "Memory Leak"},
			{Type: "Uninitialized Memory Read"},
		},
		DynamicAnalyses: []cdash.DynamicAnalysisRun{
			{Name: "net.Dial", Status: "Failed", Defects: []int{2, 1}},
			{Name: "net.Listen", Status: "Passed", Defects: []int{0, 0}},
			{Name: "io.Copy", Status: "Failed", Defects: []int{0, 3}},
		},
	}
}

func TestDynamicAnalysis_JoinsDefectLegend(t *testing.T) {
	api := &fakeAPI{dynamicAnalysis: dynamicAnalysisFixture()}
	svc := newTestService(t, api)

	out, err := svc.DynamicAnalysis(context.Background(), DynamicAnalysisInput{BuildID: 107})
	if err != nil {
		t.Fatalf("DynamicAnalysis() error: %v", err)
	}
	if out.BuildName != "gcc-asan" || out.Site != "linux-c" {
		t.Errorf("build identity = %q/%q, want gcc-asan/linux-c", out.BuildName, out.Site)
	}
	if out.Total != 2 {
		t.Errorf("total = %d, want 2 defect-bearing checks", out.Total)
	}
	if out.CleanCount != 1 {
		t.Errorf("clean_count = %d, want 1", out.CleanCount)
	}

	first := out.Checks[0]
	if first.Name != "net.Dial" || first.TotalDefects != 3 {
		t.Errorf("first check = %+v, want net.Dial with 3 defects", first)
	}
	if len(first.Defects) != 2 ||
		first.Defects[0].Type != "Memory Leak" || first.Defects[0].Count != 2 ||
		first.Defects[1].Type != "Uninitialized Memory Read" || first.Defects[1].Count != 1 {
		t.Errorf("defects = %+v, want legend-joined counts", first.Defects)
	}

	second := out.Checks[1]
	if len(second.Defects) != 1 || second.Defects[0].Type != "Uninitialized Memory Read" {
		t.Errorf("zero-count columns should be dropped, got %+v", second.Defects)
	}
}

func TestDynamicAnalysis_Pagination(t *testing.T) {
	api := &fakeAPI{dynamicAnalysis: dynamicAnalysisFixture()}
	svc := newTestService(t, api)

	out, err := svc.DynamicAnalysis(context.Background(), DynamicAnalysisInput{BuildID: 107, Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("DynamicAnalysis() error: %v", err)
	}
	if out.Total != 2 || out.Returned != 1 {
		t.Errorf("total/returned = %d/%d, want 2/1", out.Total, out.Returned)
	}
	if out.Checks[0].Name != "io.Copy" {
		t.Errorf("window = %+v, want [io.Copy]", out.Checks)
	}
}

func TestDynamicAnalysis_InvalidBuildID(t *testing.T) {
	api := &fakeAPI{}
	svc := newTestService(t, api)

	_, err := svc.DynamicAnalysis(context.Background(), DynamicAnalysisInput{})
	wantInvalidArguments(t, api, err)
}
