package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer/internal/report"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

var errAllAnalysesFailed = errors.New("all analyses failed")

type runner interface {
	Analyze(ctx context.Context, url string) models.AnalysisResult
}

type cli struct {
	analyzer runner
	cfg      *config.Config
	in       io.Reader
	out      io.Writer
	log      *slog.Logger
	now      func() time.Time
}

// run analyzes each URL in turn and returns how many failed
func (c *cli) run(ctx context.Context, urls []string) int {
	failed := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			return failed + 1
		}
		if err := c.analyzeURL(ctx, normalizeURL(u)); err != nil {
			fmt.Fprintf(c.out, "Error analyzing %s: %v\n", u, err)
			failed++
		}
	}
	return failed
}

// interactive prompts for URLs until the user quits or input ends
func (c *cli) interactive(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	prompt := func(text string) (string, bool) {
		fmt.Fprint(c.out, text)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintln(c.out, "Welcome to WebpageAnalyzer!")

	for ctx.Err() == nil {
		input, ok := prompt("\nEnter URL to analyze (or 'quit'/'q' to exit): ")
		if !ok {
			break
		}
		if input == "" {
			continue
		}
		if cmd := strings.ToLower(input); cmd == "quit" || cmd == "q" {
			break
		}

		pageURL := normalizeURL(input)
		if err := c.analyzeURL(ctx, pageURL); err != nil {
			fmt.Fprintf(c.out, "Error analyzing %s: %v\n", pageURL, err)
			continue
		}

		choice, ok := prompt("\nWould you like to analyze another URL? (y/n): ")
		if !ok || strings.ToLower(choice) != "y" {
			break
		}
	}

	fmt.Fprintln(c.out, "\nThank you for using WebpageAnalyzer!")
}

// analyzeURL analyzes one page, prints the summary and writes the result files.
// A panic while analyzing is reported as an error for this URL only.
func (c *cli) analyzeURL(ctx context.Context, pageURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Analysis panicked", slog.String("url", pageURL), slog.Any("panic", r))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	ctx = tracing.ContextWithReportID(ctx, ulid.Make().String())

	fmt.Fprintf(c.out, "\nAnalyzing %s...\n", pageURL)
	result := c.analyzer.Analyze(ctx, pageURL)
	report.PrintSummary(c.out, result)

	finishedAt := c.now()
	path, err := report.WriteJSON(c.cfg.Output.Dir, result, finishedAt)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nDetailed results saved to %s\n", path)

	if c.cfg.Output.XLSX {
		path, err := report.WriteXLSX(c.cfg.Output.Dir, result, finishedAt)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Workbook saved to %s\n", path)
	}

	if result.Failed() {
		return errAllAnalysesFailed
	}
	return nil
}

// normalizeURL assumes https when no scheme is given
func normalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
