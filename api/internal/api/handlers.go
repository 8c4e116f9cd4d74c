package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/middleware"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/repository"
	"github.com/yousuf64/shift"
)

// handleAnalyze stores a pending report and starts its analysis in the background
func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	ctx := r.Context()
	start := time.Now()

	var success bool
	defer func() {
		if a.metrics != nil {
			a.metrics.RecordReportSubmission(success, time.Since(start))
		}
	}()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return middleware.NewHTTPError(http.StatusBadRequest, errors.Join(err, errors.New("failed to decode request")))
	}

	// Validate and normalize the URL
	validatedURL, err := validateTarget(req.URL)
	if err != nil {
		return middleware.NewHTTPError(http.StatusBadRequest, fmt.Errorf("url validation failed: %w", err))
	}

	reportID := generateID()
	a.log.Info("Creating new analysis report",
		slog.String("reportId", reportID),
		slog.String("url", validatedURL))

	now := time.Now().UTC()
	report := &models.Report{
		ID:        reportID,
		URL:       validatedURL,
		Status:    models.ReportStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.reportRepo.CreateReport(ctx, report); err != nil {
		return errors.Join(err, errors.New("failed to create report"))
	}
	a.publishReportUpdate(ctx, *report, models.ReportStatusPending, nil)

	a.startAnalysis(ctx, *report)

	a.log.Info("Analysis started",
		slog.String("reportId", reportID),
		slog.String("url", validatedURL),
		slog.Duration("duration", time.Since(start)))

	success = true
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(AnalyzeResponse{Report: *report})
}

// handleGetReports lists all reports, newest first
func (a *API) handleGetReports(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	reports, err := a.reportRepo.GetAllReports(r.Context())
	if err != nil {
		return errors.Join(err, errors.New("failed to get reports"))
	}

	if reports == nil {
		reports = []*models.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(reports)
}

// handleGetReport returns a single report
func (a *API) handleGetReport(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	reportID := strings.TrimSpace(route.Params.Get("report_id"))
	if reportID == "" {
		return middleware.NewHTTPError(http.StatusBadRequest, errors.New("report_id is required"))
	}

	report, err := a.reportRepo.GetReport(r.Context(), reportID)
	if errors.Is(err, repository.ErrReportNotFound) {
		return middleware.NewHTTPError(http.StatusNotFound, err)
	}
	if err != nil {
		return errors.Join(err, errors.New("failed to get report"))
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}
