// Package report writes analysis results as files and console summaries.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

const filePrefix = "analysis_results_"

// FileName returns the artifact name for a run finished at t
func FileName(t time.Time, ext string) string {
	return filePrefix + t.Format("20060102_150405") + "." + ext
}

// WriteJSON writes the result as indented JSON to dir and returns the file path
func WriteJSON(dir string, result models.AnalysisResult, t time.Time) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(t, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// sortedKinds returns the failed analyses in a stable order
func sortedKinds(errs map[models.AnalysisKind]string) []models.AnalysisKind {
	kinds := make([]models.AnalysisKind, 0, len(errs))
	for k := range errs {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
