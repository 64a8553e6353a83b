// Package cdash implements a typed, read-only client for the CDash REST API
// (/api/v1). Every endpoint method performs a single authenticated GET,
// decodes the body into an explicit page struct, and maps failures into the
// closed error taxonomy defined in errors.go.
package cdash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when no dashboard URL is configured.
	DefaultBaseURL = "https://my.cdash.org"

	// DefaultTimeout bounds each outbound request. No retries are performed;
	// a timeout surfaces immediately as UpstreamUnavailable.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps how much of a response body is read. Configure
	// logs and test output can be large but bounded.
	maxResponseSize = 32 << 20
)

// DiagnosticType selects which diagnostics viewBuildError.php returns.
type DiagnosticType int

const (
	// DiagnosticErrors requests compiler errors.
	DiagnosticErrors DiagnosticType = 0
	// DiagnosticWarnings requests compiler warnings.
	DiagnosticWarnings DiagnosticType = 1
)

// Config carries the client's explicit configuration. It is threaded into
// New rather than read from ambient state so tests can point the client at
// fixtures without touching the environment.
type Config struct {
	// BaseURL is the dashboard root, e.g. "https://my.cdash.org".
	// Trailing slashes are trimmed. Empty selects DefaultBaseURL.
	BaseURL string

	// Token is the bearer token attached as an Authorization header.
	// Empty disables auth; private instances will answer 401.
	Token string

	// Timeout bounds each request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls to the dashboard.
	// Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the limiter burst size. Only meaningful with a positive
	// RequestsPerSecond; zero selects twice the rate.
	Burst int

	// Logger receives request-level debug logs. Nil selects slog.Default().
	Logger *slog.Logger
}

// Client issues authenticated GET requests against one dashboard instance.
// It is safe for concurrent use; tool invocations share one Client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New builds a Client from cfg. The base URL must parse as an http(s) URL.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid dashboard URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RequestsPerSecond * 2)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// BaseURL reports the configured dashboard root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs one GET against path with params, decodes the JSON body into
// out, and maps every failure into the taxonomy. Project names and other
// parameter values pass through url.Values encoding only; they are never
// case-folded.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return WrapErrorf(KindUpstreamUnavailable, err, "request canceled while rate limited")
		}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	ctx, span := otel.Tracer("cdash").Start(ctx, "cdash.get")
	defer span.End()
	span.SetAttributes(attribute.String("cdash.path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return WrapErrorf(KindUpstreamUnavailable, err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		// The error string may embed the full URL; that is fine, the token
		// travels in a header and never appears in it.
		return WrapErrorf(KindUpstreamUnavailable, err, "cannot reach %s: %v", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("dashboard request",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Errorf(KindAuthenticationFailed, "token rejected by dashboard (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return Errorf(KindNotFound, "resource not found: %s", path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Errorf(KindUpstreamUnavailable, "dashboard returned HTTP %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return WrapErrorf(KindUpstreamUnavailable, err, "reading response from %s", path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return WrapErrorf(KindMalformedResponse, err, "response from %s is not valid JSON", path)
	}
	return nil
}

// pageError maps a 200-with-error-message payload to the taxonomy. The
// dashboard answers some unknown-resource lookups this way instead of a 404.
func pageError(msg string) error {
	if msg == "" {
		return nil
	}
	return Errorf(KindNotFound, "%s", msg)
}

// Dashboard fetches the project dashboard (index.php). An empty date selects
// the dashboard's current day.
func (c *Client) Dashboard(ctx context.Context, project, date string) (*DashboardPage, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}

	var page DashboardPage
	if err := c.get(ctx, "/api/v1/index.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.BuildGroups == nil {
		return nil, Errorf(KindMalformedResponse, "dashboard response is missing buildgroups")
	}
	return &page, nil
}

// QueryTests fetches non-passing tests across all builds of a project
// (queryTests.php). An optional testName restricts results to tests whose
// name contains it. The server-side filter grammar is the dashboard's:
// numbered field/compare/value triples, compare 62 meaning "is not" and
// 63 meaning "contains".
func (c *Client) QueryTests(ctx context.Context, project, date, testName string) (*QueryTestsPage, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}

	params.Set("filtercount", "1")
	params.Set("showfilters", "1")
	params.Set("field1", "status")
	params.Set("compare1", "62")
	params.Set("value1", "Passed")
	if testName != "" {
		params.Set("filtercount", "2")
		params.Set("filtercombine", "and")
		params.Set("field2", "testname")
		params.Set("compare2", "63")
		params.Set("value2", testName)
	}

	var page QueryTestsPage
	if err := c.get(ctx, "/api/v1/queryTests.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Builds == nil {
		return nil, Errorf(KindMalformedResponse, "queryTests response is missing builds")
	}
	return &page, nil
}

// BuildSummary fetches one build's configure/test/update summary
// (buildSummary.php).
func (c *Client) BuildSummary(ctx context.Context, buildID int) (*BuildSummaryPage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))

	var page BuildSummaryPage
	if err := c.get(ctx, "/api/v1/buildSummary.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Build == nil {
		return nil, Errorf(KindMalformedResponse, "buildSummary response is missing build")
	}
	return &page, nil
}

// BuildErrors fetches a build's compiler errors or warnings
// (viewBuildError.php; type 0 errors, type 1 warnings).
func (c *Client) BuildErrors(ctx context.Context, buildID int, diagnostic DiagnosticType) (*BuildErrorsPage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))
	params.Set("type", strconv.Itoa(int(diagnostic)))

	var page BuildErrorsPage
	if err := c.get(ctx, "/api/v1/viewBuildError.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Errors == nil {
		return nil, Errorf(KindMalformedResponse, "viewBuildError response is missing errors")
	}
	return &page, nil
}

// BuildTests fetches all tests of one build (viewTest.php). A non-empty
// status applies the dashboard's "is" filter (compare 61) on that status.
func (c *Client) BuildTests(ctx context.Context, buildID int, status string) (*BuildTestsPage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))
	if status != "" {
		params.Set("filtercount", "1")
		params.Set("showfilters", "1")
		params.Set("field1", "status")
		params.Set("compare1", "61")
		params.Set("value1", status)
	}

	var page BuildTestsPage
	if err := c.get(ctx, "/api/v1/viewTest.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Tests == nil {
		return nil, Errorf(KindMalformedResponse, "viewTest response is missing tests")
	}
	return &page, nil
}

// Configure fetches a build's configure command and output
// (viewConfigure.php).
func (c *Client) Configure(ctx context.Context, buildID int) (*ConfigurePage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))

	var page ConfigurePage
	if err := c.get(ctx, "/api/v1/viewConfigure.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Configures == nil {
		return nil, Errorf(KindMalformedResponse, "viewConfigure response is missing configures")
	}
	return &page, nil
}

// TestDetails fetches the full record of one test run (testDetails.php).
func (c *Client) TestDetails(ctx context.Context, buildTestID int) (*TestDetailsPage, error) {
	params := url.Values{}
	params.Set("buildtestid", strconv.Itoa(buildTestID))

	var page TestDetailsPage
	if err := c.get(ctx, "/api/v1/testDetails.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Test == nil {
		return nil, Errorf(KindMalformedResponse, "testDetails response is missing test")
	}
	return &page, nil
}

// TestSummary fetches one test's history across builds (testSummary.php),
// most recent run first.
func (c *Client) TestSummary(ctx context.Context, project, testName, date string) (*TestSummaryPage, error) {
	params := url.Values{}
	params.Set("project", project)
	params.Set("name", testName)
	if date != "" {
		params.Set("date", date)
	}

	var page TestSummaryPage
	if err := c.get(ctx, "/api/v1/testSummary.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Builds == nil {
		return nil, Errorf(KindMalformedResponse, "testSummary response is missing builds")
	}
	return &page, nil
}

// BuildUpdate fetches the VCS changes associated with a build
// (viewUpdate.php).
func (c *Client) BuildUpdate(ctx context.Context, buildID int) (*UpdatePage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))

	var page UpdatePage
	if err := c.get(ctx, "/api/v1/viewUpdate.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.UpdateGroups == nil {
		return nil, Errorf(KindMalformedResponse, "viewUpdate response is missing updategroups")
	}
	return &page, nil
}

// Overview fetches the project overview (overview.php).
func (c *Client) Overview(ctx context.Context, project, date string) (*OverviewPage, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}

	var page OverviewPage
	if err := c.get(ctx, "/api/v1/overview.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Groups == nil {
		return nil, Errorf(KindMalformedResponse, "overview response is missing groups")
	}
	return &page, nil
}

// Coverage fetches per-file line coverage for one build (viewCoverage.php).
func (c *Client) Coverage(ctx context.Context, buildID int) (*CoveragePage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))

	var page CoveragePage
	if err := c.get(ctx, "/api/v1/viewCoverage.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.Files == nil {
		return nil, Errorf(KindMalformedResponse, "viewCoverage response is missing coveragefiles")
	}
	return &page, nil
}

// DynamicAnalysis fetches a build's dynamic analysis results
// (viewDynamicAnalysis.php).
func (c *Client) DynamicAnalysis(ctx context.Context, buildID int) (*DynamicAnalysisPage, error) {
	params := url.Values{}
	params.Set("buildid", strconv.Itoa(buildID))

	var page DynamicAnalysisPage
	if err := c.get(ctx, "/api/v1/viewDynamicAnalysis.php", params, &page); err != nil {
		return nil, err
	}
	if err := pageError(page.ErrorMsg); err != nil {
		return nil, err
	}
	if page.DynamicAnalyses == nil {
		return nil, Errorf(KindMalformedResponse, "viewDynamicAnalysis response is missing dynamicanalyses")
	}
	return &page, nil
}
