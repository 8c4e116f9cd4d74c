package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// LinkTarget is an extracted link resolved against the page URL
type LinkTarget struct {
	URL      string
	Internal bool
}

// LinkStatus is the outcome of probing a LinkTarget
type LinkStatus struct {
	LinkTarget
	Working     bool
	StatusCode  int
	Description string
}

// ExtractLinks returns the distinct href values of all anchor elements in
// document order. Empty hrefs are kept.
func ExtractLinks(body string) []string {
	doc, err := parseHTML(body)
	if err != nil {
		return []string{}
	}
	return extractLinks(doc)
}

func extractLinks(doc *html.Node) []string {
	links := []string{}
	seen := make(map[string]struct{})

	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getElementAttribute(n, "href"); ok {
				if _, dup := seen[href]; !dup {
					seen[href] = struct{}{}
					links = append(links, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return links
}

// ResolveTargets resolves raw hrefs against baseURL, classifies them as
// internal or external and drops targets that resolve to the same URL.
func ResolveTargets(links []string, baseURL string) []LinkTarget {
	base, baseErr := url.Parse(baseURL)
	baseHost := ""
	if baseErr == nil {
		baseHost = strings.ToLower(base.Hostname())
	}

	targets := make([]LinkTarget, 0, len(links))
	seen := make(map[string]struct{}, len(links))

	for _, href := range links {
		resolved := href
		if !isAbsoluteURL(href) && baseErr == nil {
			if u, err := base.Parse(href); err == nil {
				resolved = u.String()
			}
		}

		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}

		targets = append(targets, LinkTarget{
			URL:      resolved,
			Internal: baseHost != "" && hostname(resolved) == baseHost,
		})
	}

	return targets
}

// VerifyLinks probes every link with a bounded pool of workers and sorts the
// targets into working/broken and internal/external buckets
func (s *Analyzer) VerifyLinks(ctx context.Context, links []string, baseURL string) models.LinkReport {
	targets := ResolveTargets(links, baseURL)
	report := models.NewLinkReport()
	if len(targets) == 0 {
		return report
	}

	s.log.Info("Starting link verification",
		"url", baseURL,
		"linkCount", len(targets),
		"workers", s.cfg.MaxWorkers)

	for i, t := range targets {
		s.publishLinkStatus(ctx, i, LinkStatus{LinkTarget: t}, models.LinkStatePending)
	}

	statuses := make([]LinkStatus, len(targets))

	var inFlight atomic.Int32
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxWorkers)

	for i, t := range targets {
		g.Go(func() error {
			s.metrics.SetConcurrentLinkVerifications(int(inFlight.Add(1)))
			defer func() {
				s.metrics.SetConcurrentLinkVerifications(int(inFlight.Add(-1)))
			}()

			start := time.Now()
			st := s.probe(ctx, t)
			s.metrics.RecordLinkVerification(st.Working, time.Since(start).Seconds())

			state := models.LinkStateBroken
			if st.Working {
				state = models.LinkStateWorking
			}
			s.publishLinkStatus(ctx, i, st, state)

			statuses[i] = st
			return nil
		})
	}
	_ = g.Wait()

	for _, st := range statuses {
		switch {
		case st.Working && st.Internal:
			report.Working.Internal = append(report.Working.Internal, st.URL)
		case st.Working:
			report.Working.External = append(report.Working.External, st.URL)
		case st.Internal:
			report.Broken.Internal = append(report.Broken.Internal, st.URL)
		default:
			report.Broken.External = append(report.Broken.External, st.URL)
		}
	}

	slices.Sort(report.Working.Internal)
	slices.Sort(report.Working.External)
	slices.Sort(report.Broken.Internal)
	slices.Sort(report.Broken.External)

	s.log.Info("Completed link verification",
		"url", baseURL,
		"working", report.Working.Len(),
		"broken", report.Broken.Len())

	return report
}

// CheckBrokenLinks fetches the page, extracts its links and verifies them.
// When the page cannot be fetched the report has empty buckets.
func (s *Analyzer) CheckBrokenLinks(ctx context.Context, pageURL string) (models.LinkReport, error) {
	fr, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return models.NewLinkReport(), err
	}
	return s.checkFetchedLinks(ctx, fr), nil
}

func (s *Analyzer) checkFetchedLinks(ctx context.Context, fr *FetchResult) models.LinkReport {
	links := []string{}
	if doc, err := fr.Document(); err == nil {
		links = extractLinks(doc)
	}
	return s.VerifyLinks(ctx, links, fr.URL)
}

// probe verifies a single link with a HEAD request
func (s *Analyzer) probe(ctx context.Context, t LinkTarget) LinkStatus {
	st := LinkStatus{LinkTarget: t}

	if s.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProbeTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.URL, nil)
	if err != nil {
		st.Description = fmt.Sprintf("Invalid URL: %s", err.Error())
		s.log.Debug("Failed to create HEAD request", "url", t.URL, "error", err)
		return st
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordHTTPClientRequest(0, time.Since(start).Seconds(), http.MethodHead, "link_verification")
		st.Description = formatRequestError(err)
		s.log.Debug("HEAD request failed", "url", t.URL, "error", err)
		return st
	}
	defer resp.Body.Close()

	s.metrics.RecordHTTPClientRequest(resp.StatusCode, time.Since(start).Seconds(), http.MethodHead, "link_verification")

	st.StatusCode = resp.StatusCode
	st.Description = formatResponse(resp)
	st.Working = resp.StatusCode >= 100 && resp.StatusCode < 400

	s.log.Debug("Link verified", "url", t.URL, "statusCode", resp.StatusCode, "working", st.Working)
	return st
}

// formatRequestError formats HTTP request errors consistently
func formatRequestError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "Connection timeout"
		}
		return fmt.Sprintf("Connection error: %s", urlErr.Err.Error())
	}
	return fmt.Sprintf("Request failed: %s", err.Error())
}

// formatResponse formats HTTP response information consistently.
// A 3xx only reaches here when the client does not follow redirects, e.g. a
// client injected with WithHTTPClient whose CheckRedirect returns
// http.ErrUseLastResponse.
func formatResponse(resp *http.Response) string {
	description := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if location := resp.Header.Get("Location"); location != "" {
			description = fmt.Sprintf("HTTP %d: Redirected to %s", resp.StatusCode, location)
		}
	}

	return description
}

// publishLinkStatus publishes the state of the link at position i
func (s *Analyzer) publishLinkStatus(ctx context.Context, i int, st LinkStatus, state models.LinkState) {
	if err := s.publisher.PublishLinkStatus(ctx, messagebus.LinkStatusMessage{
		ReportID:    tracing.ReportIDFromContext(ctx),
		Key:         strconv.Itoa(i + 1),
		URL:         st.URL,
		Internal:    st.Internal,
		State:       state,
		Description: st.Description,
	}); err != nil {
		s.log.Error("Failed to publish link status", "url", st.URL, "error", err)
	}
}
