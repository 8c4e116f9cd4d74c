package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/xuri/excelize/v2"
)

var finishedAt = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func sampleResult() models.AnalysisResult {
	links := models.NewLinkReport()
	links.Working.Internal = []string{"https://example.com/", "https://example.com/about"}
	links.Working.External = []string{"https://go.dev/"}
	links.Broken.Internal = []string{"https://example.com/gone"}

	return models.AnalysisResult{
		URL:       "https://example.com",
		Timestamp: finishedAt,
		Performance: &models.PerformanceReport{
			LoadTime:        0.5,
			PageSize:        2048,
			TimeToFirstByte: 0.1,
			Resources:       models.ResourceCounts{Images: 2, Scripts: 1, Stylesheets: 1, Total: 4},
			Compression:     models.CompressionInfo{GzipEnabled: true, ContentType: "text/html", CacheControl: "Not set"},
		},
		Links: links,
		Duplication: &models.DuplicationReport{
			TotalBlocks:       4,
			SubstantialBlocks: 3,
			DuplicateCount:    1,
			Duplicates:        []models.DuplicateEntry{{Original: "repeated text", Duplicate: "repeated text", Length: 60}},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "analysis_results_20240309_140507.json", FileName(finishedAt, "json"))
	assert.Equal(t, "analysis_results_20240309_140507.xlsx", FileName(finishedAt, "xlsx"))
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteJSON(dir, sampleResult(), finishedAt)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "analysis_results_20240309_140507.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"url\": ", "Output is indented")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.ElementsMatch(t, []string{"url", "timestamp", "performance", "links", "duplication"}, keys(doc),
		"Errors are omitted when every analysis succeeded")

	perf := doc["performance"].(map[string]any)
	assert.Equal(t, 4.0, perf["resources"].(map[string]any)["total_resources"])
	assert.Equal(t, "Not set", perf["compression"].(map[string]any)["cache_control"])

	dup := doc["duplication"].(map[string]any)
	assert.Equal(t, 4.0, dup["total_paragraphs"])
	assert.Equal(t, 1.0, dup["duplicate_count"])

	broken := doc["links"].(map[string]any)["broken"].(map[string]any)
	assert.Equal(t, []any{}, broken["external"], "Empty buckets are arrays, not null")
}

func TestWriteJSON_FailedAnalyses(t *testing.T) {
	result := models.AnalysisResult{
		URL:       "https://down.example.com",
		Timestamp: finishedAt,
		Links:     models.NewLinkReport(),
		Errors: map[models.AnalysisKind]string{
			models.AnalysisPerformance: "fetch https://down.example.com: connection refused",
		},
	}

	path, err := WriteJSON(filepath.Join(t.TempDir(), "nested"), result, finishedAt)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Nil(t, doc["performance"])
	assert.Nil(t, doc["duplication"])
	assert.Contains(t, doc["errors"], "performance")
}

func TestWriteXLSX(t *testing.T) {
	result := sampleResult()
	result.Errors = map[models.AnalysisKind]string{models.AnalysisDuplication: "parse failed"}

	path, err := WriteXLSX(t.TempDir(), result, finishedAt)
	require.NoError(t, err)
	assert.Equal(t, "analysis_results_20240309_140507.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Performance", "Links", "Duplicates", "Errors"}, f.GetSheetList())

	links, err := f.GetRows("Links")
	require.NoError(t, err)
	require.Len(t, links, 5, "Header plus one row per link")
	assert.Equal(t, []string{"broken", "internal", "https://example.com/gone"}, links[1])

	dups, err := f.GetRows("Duplicates")
	require.NoError(t, err)
	require.Len(t, dups, 2)
	assert.Equal(t, []string{"1", "repeated text", "repeated text", "60"}, dups[1])

	perf, err := f.GetRows("Performance")
	require.NoError(t, err)
	assert.Contains(t, perf, []string{"Total Resources", "4"})

	errs, err := f.GetRows("Errors")
	require.NoError(t, err)
	assert.Equal(t, []string{"duplication", "parse failed"}, errs[1])
}

func TestPrintSummary(t *testing.T) {
	result := sampleResult()
	for i := range 7 {
		result.Links.Broken.External = append(result.Links.Broken.External, fmt.Sprintf("https://dead.example.org/%d", i))
	}

	var buf bytes.Buffer
	PrintSummary(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "WebpageAnalyzer Results - https://example.com")
	assert.Contains(t, out, "2.00 KB")
	assert.Contains(t, out, "Total Resources")
	assert.Contains(t, out, "https://example.com/gone")
	assert.Contains(t, out, "https://dead.example.org/4")
	assert.NotContains(t, out, "https://dead.example.org/5", "Only the first five broken links per category are listed")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "repeated text...")
	assert.NotContains(t, out, "Failed Analyses")
}

func TestPrintSummary_FailedAnalyses(t *testing.T) {
	result := models.AnalysisResult{
		URL:    "https://down.example.com",
		Links:  models.NewLinkReport(),
		Errors: map[models.AnalysisKind]string{models.AnalysisLinks: "connection refused"},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, result)

	assert.Contains(t, buf.String(), "not available")
	assert.Contains(t, buf.String(), "Failed Analyses")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestFormatSize(t *testing.T) {
	testCases := []struct {
		size     int
		expected string
	}{
		{0, "0.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2048 * 1024 * 1024 * 1024, "2048.00 GB"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatSize(tc.size))
	}
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
