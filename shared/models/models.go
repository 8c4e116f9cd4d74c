package models

import (
	"time"
)

// Report represents a stored analysis run
type Report struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	Status      ReportStatus    `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	Result      *AnalysisResult `json:"result"`
}

// ReportStatus represents the overall status of a report
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusRunning   ReportStatus = "running"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// AnalysisKind identifies one of the three page analyses
type AnalysisKind string

const (
	AnalysisPerformance AnalysisKind = "performance"
	AnalysisLinks       AnalysisKind = "links"
	AnalysisDuplication AnalysisKind = "duplication"
)

// AnalysisKinds lists the analyses in the order they run
var AnalysisKinds = []AnalysisKind{AnalysisPerformance, AnalysisLinks, AnalysisDuplication}

// AnalysisStatus represents the progress of a single analysis
type AnalysisStatus string

const (
	AnalysisStatusRunning   AnalysisStatus = "running"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// LinkState represents the verification state of a single link
type LinkState string

const (
	LinkStatePending LinkState = "pending"
	LinkStateWorking LinkState = "working"
	LinkStateBroken  LinkState = "broken"
)

// AnalysisResult is the combined outcome of the three analyses of one page.
// Performance and Duplication are nil when that analysis could not run.
type AnalysisResult struct {
	URL         string                  `json:"url"`
	Timestamp   time.Time               `json:"timestamp"`
	Performance *PerformanceReport      `json:"performance"`
	Links       LinkReport              `json:"links"`
	Duplication *DuplicationReport      `json:"duplication"`
	Errors      map[AnalysisKind]string `json:"errors,omitempty"`
}

// Failed reports whether every analysis failed
func (r *AnalysisResult) Failed() bool {
	return len(r.Errors) >= len(AnalysisKinds)
}

// LinkBuckets groups link URLs by their relation to the page's host
type LinkBuckets struct {
	Internal []string `json:"internal"`
	External []string `json:"external"`
}

// Len returns the number of links in both buckets
func (b LinkBuckets) Len() int {
	return len(b.Internal) + len(b.External)
}

// LinkReport partitions every extracted link into exactly one bucket
type LinkReport struct {
	Broken  LinkBuckets `json:"broken"`
	Working LinkBuckets `json:"working"`
}

// NewLinkReport returns a report with empty, non-nil buckets
func NewLinkReport() LinkReport {
	return LinkReport{
		Broken:  LinkBuckets{Internal: []string{}, External: []string{}},
		Working: LinkBuckets{Internal: []string{}, External: []string{}},
	}
}

// Total returns the number of links verified
func (r LinkReport) Total() int {
	return r.Broken.Len() + r.Working.Len()
}

// PerformanceReport holds the page-load metrics of a single fetch
type PerformanceReport struct {
	LoadTime        float64         `json:"load_time"`
	PageSize        int             `json:"page_size"`
	TimeToFirstByte float64         `json:"time_to_first_byte"`
	Resources       ResourceCounts  `json:"resources"`
	Compression     CompressionInfo `json:"compression"`
}

// ResourceCounts holds the number of sub-resources referenced by a page
type ResourceCounts struct {
	Images      int `json:"images"`
	Scripts     int `json:"scripts"`
	Stylesheets int `json:"stylesheets"`
	Total       int `json:"total_resources"`
}

// CompressionInfo holds response encoding and caching headers
type CompressionInfo struct {
	GzipEnabled  bool   `json:"gzip_enabled"`
	ContentType  string `json:"content_type"`
	CacheControl string `json:"cache_control"`
}

// DuplicationReport holds the repeated text blocks found on a page
type DuplicationReport struct {
	TotalBlocks       int              `json:"total_paragraphs"`
	SubstantialBlocks int              `json:"substantial_blocks"`
	DuplicateCount    int              `json:"duplicate_count"`
	Duplicates        []DuplicateEntry `json:"duplicates"`
}

// DuplicateEntry pairs a repeated block with the first block carrying the same text
type DuplicateEntry struct {
	Original  string `json:"original"`
	Duplicate string `json:"duplicate"`
	Length    int    `json:"length"`
}
