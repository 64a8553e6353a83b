package tools

import (
	"context"
)

// DynamicAnalysisOutput is the get_dynamic_analysis result. Only checks
// that reported at least one defect appear in the paged list; defect-free
// checks are summarized by CleanCount.
type DynamicAnalysisOutput struct {
	BuildID    int              `json:"build_id"`
	BuildName  string           `json:"build_name,omitempty"`
	Site       string           `json:"site,omitempty"`
	Total      int              `json:"total"`
	Offset     int              `json:"offset"`
	Returned   int              `json:"returned"`
	CleanCount int              `json:"clean_count"`
	Checks     []AnalysisRecord `json:"checks"`
}

// AnalysisRecord is one checked test with its defect counts by type.
type AnalysisRecord struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	TotalDefects int           `json:"total_defects"`
	Defects      []DefectCount `json:"defects"`
}

// DefectCount pairs a defect type from the page legend with its count.
type DefectCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DynamicAnalysis implements get_dynamic_analysis. The dashboard reports
// defect counts positionally against a per-page legend of defect types;
// the shaper joins the two.
func (s *Service) DynamicAnalysis(ctx context.Context, in DynamicAnalysisInput) (*DynamicAnalysisOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	limit, offset := clampPage(in.Limit, in.Offset)

	pageData, err := s.api.DynamicAnalysis(ctx, in.BuildID)
	if err != nil {
		return nil, err
	}

	withDefects := []AnalysisRecord{}
	clean := 0
	for _, run := range pageData.DynamicAnalyses {
		record := AnalysisRecord{
			Name:    run.Name,
			Status:  run.Status,
			Defects: []DefectCount{},
		}
		for i, count := range run.Defects {
			if count == 0 {
				continue
			}
			defectType := ""
			if i < len(pageData.DefectTypes) {
				defectType = pageData.DefectTypes[i].Type
			}
			record.Defects = append(record.Defects, DefectCount{Type: defectType, Count: count})
			record.TotalDefects += count
		}
		if record.TotalDefects == 0 {
			clean++
			continue
		}
		withDefects = append(withDefects, record)
	}

	window := page(withDefects, limit, offset)
	return &DynamicAnalysisOutput{
		BuildID:    in.BuildID,
		BuildName:  pageData.Build.BuildName,
		Site:       pageData.Build.Site,
		Total:      len(withDefects),
		Offset:     offset,
		Returned:   len(window),
		CleanCount: clean,
		Checks:     window,
	}, nil
}
