package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/xuri/excelize/v2"
)

const (
	performanceSheet = "Performance"
	linksSheet       = "Links"
	duplicatesSheet  = "Duplicates"
	errorsSheet      = "Errors"
)

// WriteXLSX writes the result as a workbook to dir and returns the file path.
// Sheets: Performance, Links, Duplicates, and Errors when an analysis failed.
func WriteXLSX(dir string, result models.AnalysisResult, t time.Time) (path string, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err = f.SetSheetName("Sheet1", performanceSheet); err != nil {
		return "", err
	}
	if err = writeRows(f, performanceSheet, performanceRows(result)); err != nil {
		return "", err
	}

	if err = addSheet(f, linksSheet, linkRows(result.Links)); err != nil {
		return "", err
	}
	if err = addSheet(f, duplicatesSheet, duplicateRows(result.Duplication)); err != nil {
		return "", err
	}
	if len(result.Errors) > 0 {
		if err = addSheet(f, errorsSheet, errorRows(result.Errors)); err != nil {
			return "", err
		}
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path = filepath.Join(dir, FileName(t, "xlsx"))
	if err = f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func performanceRows(result models.AnalysisResult) [][]any {
	rows := [][]any{
		{"URL", result.URL},
		{"Timestamp", result.Timestamp.Format(time.RFC3339)},
	}

	p := result.Performance
	if p == nil {
		return rows
	}

	return append(rows,
		[]any{"Load Time (s)", p.LoadTime},
		[]any{"Page Size (bytes)", p.PageSize},
		[]any{"Time to First Byte (s)", p.TimeToFirstByte},
		[]any{"Images", p.Resources.Images},
		[]any{"Scripts", p.Resources.Scripts},
		[]any{"Stylesheets", p.Resources.Stylesheets},
		[]any{"Total Resources", p.Resources.Total},
		[]any{"Gzip Enabled", p.Compression.GzipEnabled},
		[]any{"Content Type", p.Compression.ContentType},
		[]any{"Cache Control", p.Compression.CacheControl},
	)
}

func linkRows(links models.LinkReport) [][]any {
	rows := [][]any{{"Status", "Scope", "URL"}}

	add := func(status, scope string, urls []string) {
		for _, u := range urls {
			rows = append(rows, []any{status, scope, u})
		}
	}
	add("broken", "internal", links.Broken.Internal)
	add("broken", "external", links.Broken.External)
	add("working", "internal", links.Working.Internal)
	add("working", "external", links.Working.External)

	return rows
}

func duplicateRows(dup *models.DuplicationReport) [][]any {
	rows := [][]any{{"Set", "Original", "Duplicate", "Length"}}
	if dup == nil {
		return rows
	}
	for i, d := range dup.Duplicates {
		rows = append(rows, []any{i + 1, d.Original, d.Duplicate, d.Length})
	}
	return rows
}

func errorRows(errs map[models.AnalysisKind]string) [][]any {
	rows := [][]any{{"Analysis", "Error"}}
	for _, k := range sortedKinds(errs) {
		rows = append(rows, []any{string(k), errs[k]})
	}
	return rows
}
