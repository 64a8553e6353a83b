package cdash

// Typed projections of the dashboard's JSON API responses. Each page struct
// mirrors one /api/v1 endpoint and carries only the fields the shapers
// consume. The decode step validates that the endpoint's required top-level
// key is present; see the endpoint methods in client.go.
//
// Every page embeds an optional top-level "error" string: the dashboard
// answers some lookups for unknown resources with HTTP 200 plus an error
// message, and those are mapped to NotFound.

// DashboardPage is the /api/v1/index.php payload.
type DashboardPage struct {
	Title       string       `json:"title"`
	DateTime    string       `json:"datetime"`
	BuildGroups []BuildGroup `json:"buildgroups"`
	ErrorMsg    string       `json:"error,omitempty"`
}

// BuildGroup is one named group of builds on the dashboard (e.g. "Nightly").
type BuildGroup struct {
	Name   string  `json:"name"`
	Builds []Build `json:"builds"`
}

// Build is one row of a dashboard build group.
type Build struct {
	ID        int          `json:"id"`
	Site      string       `json:"site"`
	BuildName string       `json:"buildname"`
	Configure StageSummary `json:"configure"`
	Compile   StageSummary `json:"compilation"`
	Test      TestCounts   `json:"test"`
}

// StageSummary carries error/warning counts for a configure or compile stage.
type StageSummary struct {
	Errors   int `json:"error"`
	Warnings int `json:"warning"`
}

// TestCounts carries per-build test tallies.
type TestCounts struct {
	Pass   int `json:"pass"`
	Fail   int `json:"fail"`
	NotRun int `json:"notrun"`
}

// QueryTestsPage is the /api/v1/queryTests.php payload. The endpoint names
// its result rows "builds" even though each row is one test run.
type QueryTestsPage struct {
	Builds   []TestResult `json:"builds"`
	ErrorMsg string       `json:"error,omitempty"`
}

// TestResult is one cross-build test run record.
type TestResult struct {
	TestName  string `json:"testname"`
	Status    string `json:"status"`
	BuildName string `json:"buildName"`
	Site      string `json:"site"`
	BuildID   int    `json:"buildid"`
	Details   string `json:"details"`
}

// BuildSummaryPage is the /api/v1/buildSummary.php payload.
type BuildSummaryPage struct {
	Build         *BuildInfo       `json:"build"`
	Configure     ConfigureCounts  `json:"configure"`
	Test          TestCounts       `json:"test"`
	PreviousBuild PreviousBuild    `json:"previousbuild"`
	Update        UpdateFileCounts `json:"update"`
	ErrorMsg      string           `json:"error,omitempty"`
}

// BuildInfo identifies a single build.
type BuildInfo struct {
	Name      string `json:"name"`
	Site      string `json:"site"`
	Type      string `json:"type"`
	StartTime string `json:"starttime"`
}

// ConfigureCounts carries configure-stage diagnostics counts.
type ConfigureCounts struct {
	Errors   int `json:"nerrors"`
	Warnings int `json:"nwarnings"`
}

// PreviousBuild references the build that preceded this one on the same
// site/name track.
type PreviousBuild struct {
	ID int `json:"id"`
}

// UpdateFileCounts carries the number of source files changed for a build.
type UpdateFileCounts struct {
	Files int `json:"files"`
}

// BuildErrorsPage is the /api/v1/viewBuildError.php payload. Depending on
// the requested type it holds compiler errors or compiler warnings, both
// under the same "errors" key.
type BuildErrorsPage struct {
	Errors   []BuildDiagnostic `json:"errors"`
	ErrorMsg string            `json:"error,omitempty"`
}

// BuildDiagnostic is a single compiler error or warning.
type BuildDiagnostic struct {
	SourceFile  string `json:"sourcefile"`
	SourceLine  int    `json:"sourceline"`
	Text        string `json:"text"`
	PreContext  string `json:"precontext"`
	PostContext string `json:"postcontext"`
}

// BuildTestsPage is the /api/v1/viewTest.php payload.
type BuildTestsPage struct {
	Tests    []BuildTest `json:"tests"`
	ErrorMsg string      `json:"error,omitempty"`
}

// BuildTest is one test row within a single build.
type BuildTest struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	ExecTime    float64 `json:"execTimeFull"`
	Details     string  `json:"details"`
	BuildTestID int     `json:"buildtestid"`
}

// ConfigurePage is the /api/v1/viewConfigure.php payload.
type ConfigurePage struct {
	Configures []ConfigureRun `json:"configures"`
	ErrorMsg   string         `json:"error,omitempty"`
}

// ConfigureRun is one configure invocation's command, output, and exit status.
type ConfigureRun struct {
	Command string `json:"command"`
	Output  string `json:"output"`
	Status  int    `json:"status"`
}

// TestDetailsPage is the /api/v1/testDetails.php payload.
type TestDetailsPage struct {
	Test     *TestDetail `json:"test"`
	ErrorMsg string      `json:"error,omitempty"`
}

// TestDetail is the full record of one test run.
type TestDetail struct {
	Name         string        `json:"test"`
	Status       string        `json:"status"`
	Command      string        `json:"command"`
	Output       string        `json:"output"`
	Measurements []Measurement `json:"measurements"`
}

// Measurement is a named value attached to a test run (e.g. timing, memory).
type Measurement struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TestSummaryPage is the /api/v1/testSummary.php payload: one test's history
// across builds, most recent first.
type TestSummaryPage struct {
	NumFailed        int              `json:"numfailed"`
	NumTotal         int              `json:"numtotal"`
	PercentagePassed float64          `json:"percentagepassed"`
	Builds           []TestSummaryRun `json:"builds"`
	ErrorMsg         string           `json:"error,omitempty"`
}

// TestSummaryRun is one historical run of a test.
type TestSummaryRun struct {
	Site      string     `json:"site"`
	BuildName string     `json:"buildName"`
	Status    string     `json:"status"`
	Time      float64    `json:"time"`
	BuildID   int        `json:"buildid"`
	Update    UpdateInfo `json:"update"`
}

// UpdatePage is the /api/v1/viewUpdate.php payload.
type UpdatePage struct {
	Update       UpdateInfo    `json:"update"`
	UpdateGroups []UpdateGroup `json:"updategroups"`
	ErrorMsg     string        `json:"error,omitempty"`
}

// UpdateInfo carries VCS revision pointers for a build.
type UpdateInfo struct {
	Revision      string `json:"revision"`
	PriorRevision string `json:"priorrevision"`
	RevisionDiff  string `json:"revisiondiff"`
}

// UpdateGroup buckets changed files by category (updated, modified, ...).
type UpdateGroup struct {
	Description string            `json:"description"`
	Directories []UpdateDirectory `json:"directories"`
}

// UpdateDirectory holds the changed files under one directory.
type UpdateDirectory struct {
	Name  string       `json:"name"`
	Files []UpdateFile `json:"files"`
}

// UpdateFile is one changed source file with its commit metadata.
type UpdateFile struct {
	Filename string `json:"filename"`
	Author   string `json:"author"`
	Revision string `json:"revision"`
	Log      string `json:"log"`
}

// OverviewPage is the /api/v1/overview.php payload.
type OverviewPage struct {
	Title           string             `json:"title"`
	HasSubProjects  bool               `json:"hasSubProjects"`
	Groups          []NamedEntry       `json:"groups"`
	Coverages       []CoverageOverview `json:"coverages"`
	DynamicAnalyses []NamedEntry       `json:"dynamicanalyses"`
	StaticAnalyses  []NamedEntry       `json:"staticanalyses"`
	Measurements    []NamedEntry       `json:"measurements"`
	ErrorMsg        string             `json:"error,omitempty"`
}

// NamedEntry is a name-only overview row.
type NamedEntry struct {
	Name string `json:"name"`
}

// CoverageOverview pairs a coverage series name with its current and
// previous snapshots.
type CoverageOverview struct {
	Name     string           `json:"name"`
	Current  CoverageSnapshot `json:"current"`
	Previous CoverageSnapshot `json:"previous"`
}

// CoverageSnapshot is one point of aggregate coverage.
type CoverageSnapshot struct {
	Percent       float64 `json:"percent"`
	LinesTested   int     `json:"loctested"`
	LinesUntested int     `json:"locuntested"`
}

// CoveragePage is the /api/v1/viewCoverage.php payload: per-file line
// coverage for a single build plus the build-wide totals.
type CoveragePage struct {
	Files         []CoverageFile `json:"coveragefiles"`
	LinesTested   int            `json:"loctested"`
	LinesUntested int            `json:"locuntested"`
	ErrorMsg      string         `json:"error,omitempty"`
}

// CoverageFile is one source file's coverage counts.
type CoverageFile struct {
	FullPath      string  `json:"fullpath"`
	LinesTested   int     `json:"loctested"`
	LinesUntested int     `json:"locuntested"`
	Percent       float64 `json:"percentcoverage"`
}

// DynamicAnalysisPage is the /api/v1/viewDynamicAnalysis.php payload.
type DynamicAnalysisPage struct {
	Build           DynamicAnalysisBuild `json:"build"`
	DefectTypes     []DefectType         `json:"defecttypes"`
	DynamicAnalyses []DynamicAnalysisRun `json:"dynamicanalyses"`
	ErrorMsg        string               `json:"error,omitempty"`
}

// DynamicAnalysisBuild identifies the build the analysis ran against.
type DynamicAnalysisBuild struct {
	BuildName string `json:"buildname"`
	Site      string `json:"site"`
	BuildTime string `json:"buildtime"`
}

// DefectType is the legend entry for one defect column (e.g. "Memory Leak").
type DefectType struct {
	Type string `json:"type"`
}

// DynamicAnalysisRun is one checked test with its per-type defect counts,
// aligned positionally with the page's DefectTypes.
type DynamicAnalysisRun struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Defects []int  `json:"defects"`
}
