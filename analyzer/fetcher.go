package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrEmptyBody is returned when a page responds without content
var ErrEmptyBody = errors.New("empty response body")

// FetchError reports a page that could not be retrieved
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchResult is a retrieved page
type FetchResult struct {
	URL        string
	FinalURL   string
	StatusCode int
	// Body is the decompressed page decoded to UTF-8
	Body string
	// Size is the byte length of the decompressed body
	Size    int
	Headers http.Header
	Elapsed time.Duration

	parseOnce sync.Once
	doc       *html.Node
	parseErr  error
}

// Document returns the parsed body. The body is parsed on first use and the
// tree is shared by every analysis of the page.
func (r *FetchResult) Document() (*html.Node, error) {
	r.parseOnce.Do(func() {
		r.doc, r.parseErr = parseHTML(r.Body)
	})
	return r.doc, r.parseErr
}

// ElapsedSeconds returns the load time in seconds
func (r *FetchResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Fetch retrieves a page with a single GET. Non-2xx responses are returned
// as results; transport failures and empty bodies are *FetchError.
func (s *Analyzer) Fetch(ctx context.Context, pageURL string) (*FetchResult, error) {
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordHTTPClientRequest(0, time.Since(start).Seconds(), http.MethodGet, "content_fetch")
		s.log.Debug("Page fetch failed", "url", pageURL, "error", err)
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := s.readBody(resp)
	elapsed := time.Since(start)
	s.metrics.RecordHTTPClientRequest(resp.StatusCode, elapsed.Seconds(), http.MethodGet, "content_fetch")
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if len(raw) == 0 {
		return nil, &FetchError{URL: pageURL, Err: ErrEmptyBody}
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	s.log.Debug("Fetched page",
		"url", pageURL,
		"statusCode", resp.StatusCode,
		"size", len(raw),
		"elapsed", elapsed)

	return &FetchResult{
		URL:        pageURL,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw, resp.Header.Get("Content-Type")),
		Size:       len(raw),
		Headers:    resp.Header,
		Elapsed:    elapsed,
	}, nil
}

// readBody reads the decompressed response body up to the configured cap
func (s *Analyzer) readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to decompress gzip body: %w", err)
		}
		defer zr.Close()
		r = zr
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to decompress deflate body: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	if s.cfg.MaxBodyBytes > 0 {
		r = io.LimitReader(r, s.cfg.MaxBodyBytes)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeBody converts the body to UTF-8 using the declared or sniffed charset
func decodeBody(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
