package analyzer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

// ttfbShare is the share of the load time reported as time to first byte.
// It is an estimate, the client does not measure the first byte.
const ttfbShare = 0.2

// ParseError reports a page whose HTML could not be parsed
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AnalyzeFetched derives the performance report of an already fetched page
func AnalyzeFetched(fr *FetchResult) (models.PerformanceReport, error) {
	root, err := fr.Document()
	if err != nil {
		return models.PerformanceReport{}, &ParseError{URL: fr.URL, Err: err}
	}
	doc := goquery.NewDocumentFromNode(root)

	resources := models.ResourceCounts{
		Images:      doc.Find("img").Length(),
		Scripts:     doc.Find("script").Length(),
		Stylesheets: doc.Find(`link[rel~="stylesheet"]`).Length(),
	}
	resources.Total = resources.Images + resources.Scripts + resources.Stylesheets

	cacheControl := fr.Headers.Get("Cache-Control")
	if cacheControl == "" {
		cacheControl = "Not set"
	}

	loadTime := roundMillis(fr.ElapsedSeconds())

	return models.PerformanceReport{
		LoadTime:        loadTime,
		PageSize:        fr.Size,
		TimeToFirstByte: roundMillis(loadTime * ttfbShare),
		Resources:       resources,
		Compression: models.CompressionInfo{
			GzipEnabled:  strings.Contains(strings.ToLower(fr.Headers.Get("Content-Encoding")), "gzip"),
			ContentType:  fr.Headers.Get("Content-Type"),
			CacheControl: cacheControl,
		},
	}, nil
}

// AnalyzePerformance fetches the page and reports its load metrics
func (s *Analyzer) AnalyzePerformance(ctx context.Context, pageURL string) (models.PerformanceReport, error) {
	fr, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return models.PerformanceReport{}, err
	}
	return AnalyzeFetched(fr)
}

func roundMillis(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}
