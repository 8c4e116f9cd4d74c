package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

type fakeRunner struct {
	mu        sync.Mutex
	urls      []string
	reportIDs []string
	fail      map[string]bool
	panicOn   string
}

func (f *fakeRunner) Analyze(ctx context.Context, url string) models.AnalysisResult {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.reportIDs = append(f.reportIDs, tracing.ReportIDFromContext(ctx))
	f.mu.Unlock()

	if url == f.panicOn {
		panic("boom")
	}

	result := models.AnalysisResult{URL: url, Timestamp: time.Now(), Links: models.NewLinkReport()}
	if f.fail[url] {
		result.Errors = map[models.AnalysisKind]string{}
		for _, k := range models.AnalysisKinds {
			result.Errors[k] = "fetch failed"
		}
	}
	return result
}

func newTestCLI(t *testing.T, r runner, input string) (*cli, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	seq := 0
	return &cli{
		analyzer: r,
		cfg:      &config.Config{Output: config.Load().Output},
		in:       strings.NewReader(input),
		out:      out,
		log:      slog.New(slog.DiscardHandler),
		now: func() time.Time {
			seq++
			return time.Date(2024, 1, 2, 3, 4, seq, 0, time.UTC)
		},
	}, out
}

func TestNormalizeURL(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path ", "https://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, normalizeURL(tc.input))
	}
}

func TestCLI_Run(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{fail: map[string]bool{"https://down.example.com": true}}
	c, out := newTestCLI(t, r, "")
	c.cfg.Output.Dir = dir
	c.cfg.Output.XLSX = true

	failed := c.run(context.Background(), []string{"example.com", "https://down.example.com"})

	assert.Equal(t, 1, failed, "Only the page whose analyses all failed counts as failed")
	assert.Equal(t, []string{"https://example.com", "https://down.example.com"}, r.urls)
	assert.Contains(t, out.String(), "Error analyzing https://down.example.com")

	for _, name := range []string{
		"analysis_results_20240102_030401.json",
		"analysis_results_20240102_030401.xlsx",
		"analysis_results_20240102_030402.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "%s should be written", name)
	}

	require.Len(t, r.reportIDs, 2)
	assert.NotEmpty(t, r.reportIDs[0], "Each analysis carries an ID for its events")
	assert.NotEqual(t, r.reportIDs[0], r.reportIDs[1])
}

func TestCLI_Interactive(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedURLs []string
		description  string
	}{
		{
			name:         "Quit",
			input:        "q\n",
			expectedURLs: nil,
			description:  "q ends the session without analyzing",
		},
		{
			name:         "AnotherYes",
			input:        "example.com\ny\nhttp://other.com\nn\n",
			expectedURLs: []string{"https://example.com", "http://other.com"},
			description:  "Answering y prompts for another URL",
		},
		{
			name:         "ErrorContinues",
			input:        "panic.com\nexample.com\nQUIT\n",
			expectedURLs: []string{"https://panic.com", "https://example.com"},
			description:  "A failing URL does not end the session",
		},
		{
			name:         "EndOfInput",
			input:        "example.com\n",
			expectedURLs: []string{"https://example.com"},
			description:  "Closed input ends the session",
		},
		{
			name:         "BlankLines",
			input:        "\n\nexample.com\nno\n",
			expectedURLs: []string{"https://example.com"},
			description:  "Blank input is ignored",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRunner{panicOn: "https://panic.com"}
			c, out := newTestCLI(t, r, tc.input)
			c.cfg.Output.Dir = t.TempDir()

			c.interactive(context.Background())

			assert.Equal(t, tc.expectedURLs, r.urls, tc.description)
			assert.True(t, strings.HasSuffix(out.String(), "Thank you for using WebpageAnalyzer!\n"))
		})
	}
}

func TestRun_ClosesConnectionsOnFailure(t *testing.T) {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	srv := natsserver.RunServer(&opts)
	defer srv.Shutdown()

	cfg := config.Load()
	cfg.Output.Dir = t.TempDir()
	cfg.Output.LogFileDir = t.TempDir()
	cfg.Output.XLSX = false
	cfg.Metrics.Port = ""
	cfg.Tracing.Enabled = false
	cfg.Tracing.StdoutMetrics = false
	cfg.Tracing.StdoutLogs = false
	cfg.PublishEvents = true
	cfg.NATS.URL = srv.ClientURL()
	cfg.Analyzer.FetchTimeout = time.Second

	code := run(cfg, []string{"http://127.0.0.1:1/unreachable"})

	assert.Equal(t, 1, code, "An unreachable page fails the run")
	assert.Eventually(t, func() bool {
		return srv.NumClients() == 0
	}, 2*time.Second, 10*time.Millisecond, "The NATS connection is closed before exiting")
}
