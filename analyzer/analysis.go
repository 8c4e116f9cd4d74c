package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

// Analyze runs the performance, link and duplication analyses of a page in
// that order. It never fails: an analysis that cannot complete leaves its
// section empty and records the cause in Errors.
func (s *Analyzer) Analyze(ctx context.Context, pageURL string) models.AnalysisResult {
	start := time.Now()
	result := models.AnalysisResult{
		URL:       pageURL,
		Timestamp: start.UTC(),
		Links:     models.NewLinkReport(),
	}

	s.log.Info("Starting analysis",
		slog.String("url", pageURL),
		slog.Bool("sharedFetch", s.cfg.SharedFetch))

	fetch := s.fetcher(ctx, pageURL)

	s.runAnalysis(ctx, &result, models.AnalysisPerformance, func(ctx context.Context) error {
		fr, err := fetch(ctx)
		if err != nil {
			return err
		}
		perf, err := AnalyzeFetched(fr)
		if err != nil {
			return err
		}
		result.Performance = &perf
		return nil
	})

	s.runAnalysis(ctx, &result, models.AnalysisLinks, func(ctx context.Context) error {
		fr, err := fetch(ctx)
		if err != nil {
			return err
		}
		result.Links = s.checkFetchedLinks(ctx, fr)
		return nil
	})

	s.runAnalysis(ctx, &result, models.AnalysisDuplication, func(ctx context.Context) error {
		fr, err := fetch(ctx)
		if err != nil {
			return err
		}
		dup := s.checkFetchedDuplication(fr)
		result.Duplication = &dup
		return nil
	})

	d := time.Since(start)
	s.metrics.RecordAnalysisRun(!result.Failed(), d.Seconds())
	s.log.Info("Completed analysis",
		slog.String("url", pageURL),
		slog.Int("failedAnalyses", len(result.Errors)),
		slog.Duration("processingTime", d))

	return result
}

// fetcher returns how each analysis obtains the page: a fresh fetch per
// analysis, or a single fetch reused by all when SharedFetch is set
func (s *Analyzer) fetcher(ctx context.Context, pageURL string) func(context.Context) (*FetchResult, error) {
	if !s.cfg.SharedFetch {
		return func(ctx context.Context) (*FetchResult, error) {
			return s.Fetch(ctx, pageURL)
		}
	}

	fr, err := s.Fetch(ctx, pageURL)
	return func(context.Context) (*FetchResult, error) {
		return fr, err
	}
}

// runAnalysis runs one analysis inside its span, publishing its progress and
// recording a failure in the result
func (s *Analyzer) runAnalysis(ctx context.Context, result *models.AnalysisResult, kind models.AnalysisKind, fn func(ctx context.Context) error) {
	ctx, span := tracing.CreateAnalysisSpan(ctx, string(kind), result.URL)
	start := time.Now()

	s.publishAnalysisUpdate(ctx, result.URL, kind, models.AnalysisStatusRunning, "")

	err := fn(ctx)
	span.Close(err)
	s.metrics.RecordAnalysis(string(kind), err == nil, time.Since(start).Seconds())

	if err != nil {
		if result.Errors == nil {
			result.Errors = make(map[models.AnalysisKind]string)
		}
		result.Errors[kind] = err.Error()

		s.log.Error("Analysis failed",
			slog.String("analysis", string(kind)),
			slog.String("url", result.URL),
			slog.Any("error", err))
		s.publishAnalysisUpdate(ctx, result.URL, kind, models.AnalysisStatusFailed, err.Error())
		return
	}

	s.publishAnalysisUpdate(ctx, result.URL, kind, models.AnalysisStatusCompleted, "")
}

// publishAnalysisUpdate publishes an analysis progress event
func (s *Analyzer) publishAnalysisUpdate(ctx context.Context, pageURL string, kind models.AnalysisKind, status models.AnalysisStatus, errMsg string) {
	if err := s.publisher.PublishAnalysisUpdate(ctx, messagebus.AnalysisUpdateMessage{
		ReportID: tracing.ReportIDFromContext(ctx),
		URL:      pageURL,
		Analysis: kind,
		Status:   status,
		Error:    errMsg,
	}); err != nil {
		s.log.Error("Failed to publish analysis update",
			slog.String("analysis", string(kind)),
			slog.String("status", string(status)),
			slog.Any("error", err))
	}
}
