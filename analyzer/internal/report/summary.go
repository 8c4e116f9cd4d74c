package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rodaine/table"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

const (
	brokenLinksShown = 5
	duplicatesShown  = 3
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with two decimals in B, KB, MB or GB
func FormatSize(size int) string {
	v := float64(size)
	for i, unit := range sizeUnits {
		if v < 1024 || i == len(sizeUnits)-1 {
			return fmt.Sprintf("%.2f %s", v, unit)
		}
		v /= 1024
	}
	return ""
}

// PrintSummary writes a human readable summary of the result to w
func PrintSummary(w io.Writer, result models.AnalysisResult) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(w, "\n%s\nWebpageAnalyzer Results - %s\n%s\n%s\n", rule, result.URL, result.Timestamp.Local().Format(time.DateTime), rule)

	printPerformance(w, result.Performance)
	printLinks(w, result.Links)
	printDuplication(w, result.Duplication)
	printErrors(w, result.Errors)
}

func printPerformance(w io.Writer, p *models.PerformanceReport) {
	fmt.Fprintln(w, "\nPerformance Metrics:")
	if p == nil {
		fmt.Fprintln(w, "  not available")
		return
	}

	tbl := table.New("Metric", "Value").WithWriter(w)
	tbl.AddRow("Load Time", fmt.Sprintf("%.3f seconds", p.LoadTime))
	tbl.AddRow("Page Size", FormatSize(p.PageSize))
	tbl.AddRow("Time to First Byte", fmt.Sprintf("%.3f seconds", p.TimeToFirstByte))
	tbl.AddRow("Images", p.Resources.Images)
	tbl.AddRow("Scripts", p.Resources.Scripts)
	tbl.AddRow("Stylesheets", p.Resources.Stylesheets)
	tbl.AddRow("Total Resources", p.Resources.Total)
	tbl.AddRow("Gzip Enabled", p.Compression.GzipEnabled)
	tbl.AddRow("Content Type", p.Compression.ContentType)
	tbl.AddRow("Cache Control", p.Compression.CacheControl)
	tbl.Print()
}

func printLinks(w io.Writer, links models.LinkReport) {
	fmt.Fprintln(w, "\nLinks Summary:")

	tbl := table.New("Links", "Internal", "External").WithWriter(w)
	tbl.AddRow("Broken", len(links.Broken.Internal), len(links.Broken.External))
	tbl.AddRow("Working", len(links.Working.Internal), len(links.Working.External))
	tbl.Print()

	if links.Broken.Len() == 0 {
		return
	}

	fmt.Fprintln(w, "\nDetailed Broken Links:")
	for _, category := range []struct {
		name  string
		links []string
	}{
		{"Internal", links.Broken.Internal},
		{"External", links.Broken.External},
	} {
		if len(category.links) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s Broken Links:\n", category.name)
		for _, l := range category.links[:min(brokenLinksShown, len(category.links))] {
			fmt.Fprintf(w, "  %s\n", l)
		}
		if extra := len(category.links) - brokenLinksShown; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}
}

func printDuplication(w io.Writer, dup *models.DuplicationReport) {
	fmt.Fprintln(w, "\nContent Duplication Results:")
	if dup == nil {
		fmt.Fprintln(w, "  not available")
		return
	}

	tbl := table.New("Blocks", "Count").WithWriter(w)
	tbl.AddRow("Total Paragraphs Analyzed", dup.TotalBlocks)
	tbl.AddRow("Substantial Blocks", dup.SubstantialBlocks)
	tbl.AddRow("Duplicate Content Blocks Found", dup.DuplicateCount)
	tbl.Print()

	if len(dup.Duplicates) == 0 {
		return
	}

	fmt.Fprintln(w, "\nExample Duplicates:")
	sets := table.New("Set", "Original", "Duplicate").WithWriter(w)
	for i, d := range dup.Duplicates[:min(duplicatesShown, len(dup.Duplicates))] {
		sets.AddRow(i+1, d.Original+"...", d.Duplicate+"...")
	}
	sets.Print()

	if extra := len(dup.Duplicates) - duplicatesShown; extra > 0 {
		fmt.Fprintf(w, "\n... and %d more duplicate sets\n", extra)
	}
}

func printErrors(w io.Writer, errs map[models.AnalysisKind]string) {
	if len(errs) == 0 {
		return
	}

	fmt.Fprintln(w, "\nFailed Analyses:")
	tbl := table.New("Analysis", "Error").WithWriter(w)
	for _, k := range sortedKinds(errs) {
		tbl.AddRow(k, errs[k])
	}
	tbl.Print()
}
