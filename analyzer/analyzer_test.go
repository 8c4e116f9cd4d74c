package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/mocks"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
	"go.uber.org/mock/gomock"
)

const shouldNotBeFound = "should_not_be_found"
const shouldTimeout = "should_timeout"

// MockHTTPRoundTripper implements http.RoundTripper for testing.
// GET requests receive htmlContent, HEAD requests an empty 200 unless the
// URL asks for a failure.
type MockHTTPRoundTripper struct {
	htmlContent string
	header      http.Header

	mu       sync.Mutex
	requests map[string]int
}

func (m *MockHTTPRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	if m.requests == nil {
		m.requests = make(map[string]int)
	}
	m.requests[req.Method]++
	m.mu.Unlock()

	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported protocol scheme %q", req.URL.Scheme)
	}

	if strings.Contains(req.URL.String(), shouldTimeout) {
		return nil, context.DeadlineExceeded
	}

	if strings.Contains(req.URL.String(), shouldNotBeFound) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     make(http.Header),
			Body:       http.NoBody,
			Request:    req,
		}, nil
	}

	if req.Method == http.MethodHead {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       http.NoBody,
			Request:    req,
		}, nil
	}

	header := m.header
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     header.Clone(),
		Body:       io.NopCloser(bytes.NewReader([]byte(m.htmlContent))),
		Request:    req,
	}, nil
}

func (m *MockHTTPRoundTripper) count(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[method]
}

func testConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		MaxWorkers:   config.DefaultMaxWorkers,
		FetchTimeout: config.DefaultFetchTimeout,
		ProbeTimeout: config.DefaultProbeTimeout,
		UserAgent:    config.DefaultUserAgent,
		MaxBodyBytes: config.DefaultMaxBodyBytes,
	}
}

// setupMockAnalyzer creates an analyzer whose outbound requests are served by a MockHTTPRoundTripper
func setupMockAnalyzer(t *testing.T, htmlFile string, opts ...Option) (*Analyzer, *MockHTTPRoundTripper) {
	t.Helper()

	htmlContent, err := os.ReadFile(htmlFile)
	require.NoError(t, err, "Failed to read HTML file: %s", htmlFile)

	transport := &MockHTTPRoundTripper{
		htmlContent: string(htmlContent),
		header: http.Header{
			"Content-Type":  []string{"text/html; charset=utf-8"},
			"Cache-Control": []string{"max-age=600"},
		},
	}

	opts = append([]Option{
		WithHTTPClient(&http.Client{Transport: transport}),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithConfig(testConfig()),
	}, opts...)

	return NewAnalyzer(opts...), transport
}

func TestAnalyzer_Analyze(t *testing.T) {
	testCases := []struct {
		name               string
		htmlFile           string
		testURL            string
		expectedResources  models.ResourceCounts
		expectedWorking    models.LinkBuckets
		expectedBroken     models.LinkBuckets
		expectedBlocks     int
		expectedDuplicates int
		description        string
	}{
		{
			name:     "SimpleBlog",
			htmlFile: "testdata/blog.html",
			testURL:  "https://blog.example.com",
			expectedResources: models.ResourceCounts{
				Images:      3,
				Scripts:     2,
				Stylesheets: 2, // rel="stylesheet" and rel="alternate stylesheet", not the icon
				Total:       7,
			},
			expectedWorking: models.LinkBuckets{
				Internal: []string{
					"https://BLOG.example.com/archive",
					"https://blog.example.com/",
					"https://blog.example.com/about",
				},
				External: []string{"https://github.com/example"},
			},
			expectedBroken: models.LinkBuckets{
				Internal: []string{"https://blog.example.com/posts/should_not_be_found"},
				External: []string{"mailto:editor@example.com"},
			},
			expectedBlocks:     5, // section, its p, the footer div and both of its paragraphs
			expectedDuplicates: 2, // both paragraphs repeat the section's text
			description:        "Blog with repeated links, a missing post, a mailto link and repeated paragraphs",
		},
		{
			name:              "EmptyPage",
			htmlFile:          "testdata/empty_page.html",
			testURL:           "https://minimal.example.com",
			expectedResources: models.ResourceCounts{},
			expectedWorking:   models.LinkBuckets{Internal: []string{}, External: []string{}},
			expectedBroken:    models.LinkBuckets{Internal: []string{}, External: []string{}},
			description:       "Minimal page with no links, resources or blocks",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer, transport := setupMockAnalyzer(t, tc.htmlFile)

			result := analyzer.Analyze(context.Background(), tc.testURL)

			assert.Empty(t, result.Errors, tc.description)
			assert.False(t, result.Failed())
			assert.Equal(t, tc.testURL, result.URL)
			assert.False(t, result.Timestamp.IsZero())

			require.NotNil(t, result.Performance)
			assert.Equal(t, tc.expectedResources, result.Performance.Resources, "Resource counts mismatch")
			assert.Equal(t, "max-age=600", result.Performance.Compression.CacheControl)

			assert.Equal(t, tc.expectedWorking, result.Links.Working, "Working links mismatch")
			assert.Equal(t, tc.expectedBroken, result.Links.Broken, "Broken links mismatch")

			require.NotNil(t, result.Duplication)
			assert.Equal(t, tc.expectedBlocks, result.Duplication.TotalBlocks, "Block count mismatch")
			assert.Equal(t, tc.expectedDuplicates, result.Duplication.DuplicateCount, "Duplicate count mismatch")

			assert.Equal(t, 3, transport.count(http.MethodGet), "Each analysis fetches the page itself")
		})
	}
}

func TestAnalyzer_AnalyzeSharedFetch(t *testing.T) {
	cfg := testConfig()
	cfg.SharedFetch = true

	analyzer, transport := setupMockAnalyzer(t, "testdata/blog.html", WithConfig(cfg))

	result := analyzer.Analyze(context.Background(), "https://blog.example.com")

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, transport.count(http.MethodGet), "Page should be fetched once")
	assert.Equal(t, 6, result.Links.Total())
}

func TestAnalyzer_AnalyzeUnreachablePage(t *testing.T) {
	analyzer, _ := setupMockAnalyzer(t, "testdata/blog.html")

	result := analyzer.Analyze(context.Background(), "https://down.example.com/"+shouldTimeout)

	assert.True(t, result.Failed(), "All analyses should fail")
	assert.Len(t, result.Errors, 3)
	for _, kind := range models.AnalysisKinds {
		assert.Contains(t, result.Errors, kind)
	}
	assert.Nil(t, result.Performance)
	assert.Nil(t, result.Duplication)
	assert.Equal(t, models.NewLinkReport(), result.Links, "Links should fall back to empty buckets")
}

func TestAnalyzer_AnalyzePublishesProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockMessageBusInterface(ctrl)

	var mu sync.Mutex
	var updates []messagebus.AnalysisUpdateMessage
	linkStates := make(map[string]models.LinkState)

	bus.EXPECT().PublishAnalysisUpdate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, m messagebus.AnalysisUpdateMessage) error {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, m)
			return nil
		}).Times(6)

	bus.EXPECT().PublishLinkStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, m messagebus.LinkStatusMessage) error {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, "report-1", m.ReportID)
			if m.State != models.LinkStatePending {
				linkStates[m.URL] = m.State
			}
			return nil
		}).Times(12) // pending and final state for each of the six links

	analyzer, _ := setupMockAnalyzer(t, "testdata/blog.html", WithPublisher(bus))

	ctx := tracing.ContextWithReportID(context.Background(), "report-1")
	analyzer.Analyze(ctx, "https://blog.example.com")

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, updates, 6)
	for i, kind := range models.AnalysisKinds {
		assert.Equal(t, kind, updates[2*i].Analysis)
		assert.Equal(t, models.AnalysisStatusRunning, updates[2*i].Status)
		assert.Equal(t, kind, updates[2*i+1].Analysis)
		assert.Equal(t, models.AnalysisStatusCompleted, updates[2*i+1].Status)
		assert.Equal(t, "report-1", updates[2*i+1].ReportID)
	}

	assert.Equal(t, models.LinkStateBroken, linkStates["https://blog.example.com/posts/should_not_be_found"])
	assert.Equal(t, models.LinkStateWorking, linkStates["https://github.com/example"])
}
