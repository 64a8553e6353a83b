package tools

import (
	"context"
	"path"

	"github.com/cdash-mcp/cdash-mcp/internal/cdash"
)

// BuildDetailsOutput is the get_build_details result: one build's
// configure/compile/test summary with its ancestry pointers.
type BuildDetailsOutput struct {
	BuildID         int    `json:"build_id"`
	Name            string `json:"name"`
	Site            string `json:"site"`
	Type            string `json:"type"`
	StartTime       string `json:"start_time"`
	ConfigureErrors int    `json:"configure_errors"`
	ConfigureWarns  int    `json:"configure_warnings"`
	TestsPassed     int    `json:"tests_passed"`
	TestsFailed     int    `json:"tests_failed"`
	TestsNotRun     int    `json:"tests_not_run"`
	PreviousBuildID int    `json:"previous_build_id,omitempty"`
	ChangedFiles    int    `json:"changed_files"`
}

// BuildDetails implements get_build_details.
func (s *Service) BuildDetails(ctx context.Context, in BuildDetailsInput) (*BuildDetailsOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	page, err := s.api.BuildSummary(ctx, in.BuildID)
	if err != nil {
		return nil, err
	}

	return &BuildDetailsOutput{
		BuildID:         in.BuildID,
		Name:            page.Build.Name,
		Site:            page.Build.Site,
		Type:            page.Build.Type,
		StartTime:       page.Build.StartTime,
		ConfigureErrors: page.Configure.Errors,
		ConfigureWarns:  page.Configure.Warnings,
		TestsPassed:     page.Test.Pass,
		TestsFailed:     page.Test.Fail,
		TestsNotRun:     page.Test.NotRun,
		PreviousBuildID: page.PreviousBuild.ID,
		ChangedFiles:    page.Update.Files,
	}, nil
}

// BuildErrorsOutput is the get_build_errors result.
type BuildErrorsOutput struct {
	BuildID     int          `json:"build_id"`
	Total       int          `json:"total"`
	Offset      int          `json:"offset"`
	Returned    int          `json:"returned"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic is one compiler error or warning with its source location.
type Diagnostic struct {
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// BuildErrors implements get_build_errors. Without a severity filter both
// diagnostic families are fetched, errors listed before warnings.
func (s *Service) BuildErrors(ctx context.Context, in BuildErrorsInput) (*BuildErrorsOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	limit, offset := clampPage(in.Limit, in.Offset)

	var diagnostics []Diagnostic
	if in.Severity == "" || in.Severity == SeverityError {
		ds, err := s.fetchDiagnostics(ctx, in.BuildID, SeverityError)
		if err != nil {
			return nil, err
		}
		diagnostics = append(diagnostics, ds...)
	}
	if in.Severity == "" || in.Severity == SeverityWarning {
		ds, err := s.fetchDiagnostics(ctx, in.BuildID, SeverityWarning)
		if err != nil {
			return nil, err
		}
		diagnostics = append(diagnostics, ds...)
	}
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}

	window := page(diagnostics, limit, offset)
	return &BuildErrorsOutput{
		BuildID:     in.BuildID,
		Total:       len(diagnostics),
		Offset:      offset,
		Returned:    len(window),
		Diagnostics: window,
	}, nil
}

func (s *Service) fetchDiagnostics(ctx context.Context, buildID int, severity string) ([]Diagnostic, error) {
	diagnosticType := severityToDiagnosticType(severity)
	page, err := s.api.BuildErrors(ctx, buildID, diagnosticType)
	if err != nil {
		return nil, err
	}

	out := make([]Diagnostic, 0, len(page.Errors))
	for _, d := range page.Errors {
		out = append(out, Diagnostic{
			Severity: severity,
			File:     d.SourceFile,
			Line:     d.SourceLine,
			Message:  d.Text,
		})
	}
	return out, nil
}

// ConfigureOutputResult is the get_configure_output result.
type ConfigureOutputResult struct {
	BuildID    int            `json:"build_id"`
	Configures []ConfigureRun `json:"configures"`
}

// ConfigureRun is one configure invocation.
type ConfigureRun struct {
	Command string `json:"command"`
	Status  int    `json:"status"`
	Passed  bool   `json:"passed"`
	Output  string `json:"output"`
}

// ConfigureOutput implements get_configure_output.
func (s *Service) ConfigureOutput(ctx context.Context, in ConfigureOutputInput) (*ConfigureOutputResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	page, err := s.api.Configure(ctx, in.BuildID)
	if err != nil {
		return nil, err
	}

	out := &ConfigureOutputResult{BuildID: in.BuildID, Configures: []ConfigureRun{}}
	for _, c := range page.Configures {
		out.Configures = append(out.Configures, ConfigureRun{
			Command: c.Command,
			Status:  c.Status,
			Passed:  c.Status == 0,
			Output:  c.Output,
		})
	}
	return out, nil
}

// BuildUpdateOutput is the get_build_update result: the VCS revision window
// and the commit list behind one build.
type BuildUpdateOutput struct {
	BuildID       int      `json:"build_id"`
	Revision      string   `json:"revision"`
	PriorRevision string   `json:"prior_revision,omitempty"`
	DiffURL       string   `json:"diff_url,omitempty"`
	Commits       []Commit `json:"commits"`
}

// Commit is one changed file with its commit metadata.
type Commit struct {
	Path     string `json:"path"`
	Author   string `json:"author"`
	Revision string `json:"revision,omitempty"`
	Log      string `json:"log,omitempty"`
}

// BuildUpdate implements get_build_update.
func (s *Service) BuildUpdate(ctx context.Context, in BuildUpdateInput) (*BuildUpdateOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updatePage, err := s.api.BuildUpdate(ctx, in.BuildID)
	if err != nil {
		return nil, err
	}

	out := &BuildUpdateOutput{
		BuildID:       in.BuildID,
		Revision:      updatePage.Update.Revision,
		PriorRevision: updatePage.Update.PriorRevision,
		DiffURL:       updatePage.Update.RevisionDiff,
		Commits:       []Commit{},
	}
	for _, group := range updatePage.UpdateGroups {
		for _, dir := range group.Directories {
			for _, f := range dir.Files {
				filePath := f.Filename
				if dir.Name != "" && dir.Name != "." {
					filePath = path.Join(dir.Name, f.Filename)
				}
				out.Commits = append(out.Commits, Commit{
					Path:     filePath,
					Author:   f.Author,
					Revision: f.Revision,
					Log:      f.Log,
				})
			}
		}
	}
	return out, nil
}

func severityToDiagnosticType(severity string) cdash.DiagnosticType {
	if severity == SeverityWarning {
		return cdash.DiagnosticWarnings
	}
	return cdash.DiagnosticErrors
}
