package tools

import (
	"context"
	"sort"
)

// CoverageComparisonOutput is the get_coverage_comparison result: per-file
// and aggregate line-coverage deltas between two builds. Deltas are B minus
// A, so comparing (a, b) and (b, a) yields negated deltas for the same file
// set.
type CoverageComparisonOutput struct {
	BuildIDA  int             `json:"build_id_a"`
	BuildIDB  int             `json:"build_id_b"`
	Files     []CoverageDelta `json:"files"`
	Aggregate CoverageDelta   `json:"aggregate"`
}

// CoverageDelta is one comparison row. For a file present in only one
// build, the missing side's counts are zero.
type CoverageDelta struct {
	Path          string  `json:"path,omitempty"`
	LinesCoveredA int     `json:"lines_covered_a"`
	LinesCoveredB int     `json:"lines_covered_b"`
	Delta         int     `json:"delta"`
	PercentA      float64 `json:"percent_a"`
	PercentB      float64 `json:"percent_b"`
	Regression    bool    `json:"regression"`
	OnlyInBuildA  bool    `json:"only_in_build_a,omitempty"`
	OnlyInBuildB  bool    `json:"only_in_build_b,omitempty"`
}

// CoverageComparison implements get_coverage_comparison. Both builds'
// per-file coverage is fetched and joined by file path; a row is flagged as
// a regression when its covered percentage decreased from A to B.
func (s *Service) CoverageComparison(ctx context.Context, in CoverageComparisonInput) (*CoverageComparisonOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	pageA, err := s.api.Coverage(ctx, in.BuildIDA)
	if err != nil {
		return nil, err
	}
	pageB, err := s.api.Coverage(ctx, in.BuildIDB)
	if err != nil {
		return nil, err
	}

	type sides struct {
		a, b *fileCoverage
	}
	byPath := map[string]*sides{}
	for i := range pageA.Files {
		f := fileCoverageOf(pageA.Files[i].LinesTested, pageA.Files[i].LinesUntested, pageA.Files[i].Percent)
		byPath[pageA.Files[i].FullPath] = &sides{a: &f}
	}
	for i := range pageB.Files {
		f := fileCoverageOf(pageB.Files[i].LinesTested, pageB.Files[i].LinesUntested, pageB.Files[i].Percent)
		entry, ok := byPath[pageB.Files[i].FullPath]
		if !ok {
			entry = &sides{}
			byPath[pageB.Files[i].FullPath] = entry
		}
		entry.b = &f
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := &CoverageComparisonOutput{
		BuildIDA: in.BuildIDA,
		BuildIDB: in.BuildIDB,
		Files:    []CoverageDelta{},
	}
	for _, p := range paths {
		entry := byPath[p]
		row := CoverageDelta{Path: p}
		if entry.a != nil {
			row.LinesCoveredA = entry.a.covered
			row.PercentA = entry.a.percent
		}
		if entry.b != nil {
			row.LinesCoveredB = entry.b.covered
			row.PercentB = entry.b.percent
		}
		row.Delta = row.LinesCoveredB - row.LinesCoveredA
		row.Regression = row.PercentB < row.PercentA
		row.OnlyInBuildA = entry.b == nil
		row.OnlyInBuildB = entry.a == nil
		out.Files = append(out.Files, row)
	}

	out.Aggregate = CoverageDelta{
		LinesCoveredA: pageA.LinesTested,
		LinesCoveredB: pageB.LinesTested,
		Delta:         pageB.LinesTested - pageA.LinesTested,
		PercentA:      aggregatePercent(pageA.LinesTested, pageA.LinesUntested),
		PercentB:      aggregatePercent(pageB.LinesTested, pageB.LinesUntested),
	}
	out.Aggregate.Regression = out.Aggregate.PercentB < out.Aggregate.PercentA
	return out, nil
}

type fileCoverage struct {
	covered int
	percent float64
}

func fileCoverageOf(tested, untested int, percent float64) fileCoverage {
	if percent == 0 && tested+untested > 0 {
		percent = aggregatePercent(tested, untested)
	}
	return fileCoverage{covered: tested, percent: percent}
}

func aggregatePercent(tested, untested int) float64 {
	total := tested + untested
	if total == 0 {
		return 0
	}
	return float64(tested) / float64(total) * 100
}
