package repository

import (
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

// reportsPartitionKey keeps every report in one partition so they can be
// listed in ID (creation) order with a single query
const reportsPartitionKey = "1000"

// ReportEntity represents a report as stored in DynamoDB
type ReportEntity struct {
	PartitionKey string                `dynamodbav:"partition_key"`
	ID           string                `dynamodbav:"id"`
	URL          string                `dynamodbav:"url"`
	Status       string                `dynamodbav:"status"`
	CreatedAt    time.Time             `dynamodbav:"created_at"`
	UpdatedAt    time.Time             `dynamodbav:"updated_at"`
	CompletedAt  *time.Time            `dynamodbav:"completed_at"`
	Result       *AnalysisResultEntity `dynamodbav:"result"`
}

// ToModel converts ReportEntity to domain model
func (e *ReportEntity) ToModel() *models.Report {
	var result *models.AnalysisResult
	if e.Result != nil {
		result = e.Result.ToModel()
	}

	return &models.Report{
		ID:          e.ID,
		URL:         e.URL,
		Status:      models.ReportStatus(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CompletedAt: e.CompletedAt,
		Result:      result,
	}
}

// FromModel converts domain model to ReportEntity
func (e *ReportEntity) FromModel(report *models.Report) {
	e.PartitionKey = reportsPartitionKey
	e.ID = report.ID
	e.URL = report.URL
	e.Status = string(report.Status)
	e.CreatedAt = report.CreatedAt
	e.UpdatedAt = report.UpdatedAt
	e.CompletedAt = report.CompletedAt

	if report.Result != nil {
		e.Result = &AnalysisResultEntity{}
		e.Result.FromModel(report.Result)
	}
}

// AnalysisResultEntity represents analysis results as stored in DynamoDB
type AnalysisResultEntity struct {
	URL         string                   `dynamodbav:"url"`
	Timestamp   time.Time                `dynamodbav:"timestamp"`
	Performance *PerformanceEntity       `dynamodbav:"performance"`
	Links       LinkReportEntity         `dynamodbav:"links"`
	Duplication *DuplicationReportEntity `dynamodbav:"duplication"`
	Errors      map[string]string        `dynamodbav:"errors,omitempty"`
}

// ToModel converts AnalysisResultEntity to domain model
func (e *AnalysisResultEntity) ToModel() *models.AnalysisResult {
	result := &models.AnalysisResult{
		URL:       e.URL,
		Timestamp: e.Timestamp,
		Links:     e.Links.ToModel(),
	}

	if e.Performance != nil {
		result.Performance = e.Performance.ToModel()
	}
	if e.Duplication != nil {
		result.Duplication = e.Duplication.ToModel()
	}

	if len(e.Errors) > 0 {
		result.Errors = make(map[models.AnalysisKind]string, len(e.Errors))
		for kind, msg := range e.Errors {
			result.Errors[models.AnalysisKind(kind)] = msg
		}
	}

	return result
}

// FromModel converts domain model to AnalysisResultEntity
func (e *AnalysisResultEntity) FromModel(result *models.AnalysisResult) {
	e.URL = result.URL
	e.Timestamp = result.Timestamp
	e.Links.FromModel(result.Links)

	if result.Performance != nil {
		e.Performance = &PerformanceEntity{}
		e.Performance.FromModel(result.Performance)
	}
	if result.Duplication != nil {
		e.Duplication = &DuplicationReportEntity{}
		e.Duplication.FromModel(result.Duplication)
	}

	if len(result.Errors) > 0 {
		e.Errors = make(map[string]string, len(result.Errors))
		for kind, msg := range result.Errors {
			e.Errors[string(kind)] = msg
		}
	}
}

// PerformanceEntity represents performance metrics as stored in DynamoDB
type PerformanceEntity struct {
	LoadTime        float64 `dynamodbav:"load_time"`
	PageSize        int     `dynamodbav:"page_size"`
	TimeToFirstByte float64 `dynamodbav:"time_to_first_byte"`
	Images          int     `dynamodbav:"images"`
	Scripts         int     `dynamodbav:"scripts"`
	Stylesheets     int     `dynamodbav:"stylesheets"`
	TotalResources  int     `dynamodbav:"total_resources"`
	GzipEnabled     bool    `dynamodbav:"gzip_enabled"`
	ContentType     string  `dynamodbav:"content_type"`
	CacheControl    string  `dynamodbav:"cache_control"`
}

// ToModel converts PerformanceEntity to domain model
func (e *PerformanceEntity) ToModel() *models.PerformanceReport {
	return &models.PerformanceReport{
		LoadTime:        e.LoadTime,
		PageSize:        e.PageSize,
		TimeToFirstByte: e.TimeToFirstByte,
		Resources: models.ResourceCounts{
			Images:      e.Images,
			Scripts:     e.Scripts,
			Stylesheets: e.Stylesheets,
			Total:       e.TotalResources,
		},
		Compression: models.CompressionInfo{
			GzipEnabled:  e.GzipEnabled,
			ContentType:  e.ContentType,
			CacheControl: e.CacheControl,
		},
	}
}

// FromModel converts domain model to PerformanceEntity
func (e *PerformanceEntity) FromModel(p *models.PerformanceReport) {
	e.LoadTime = p.LoadTime
	e.PageSize = p.PageSize
	e.TimeToFirstByte = p.TimeToFirstByte
	e.Images = p.Resources.Images
	e.Scripts = p.Resources.Scripts
	e.Stylesheets = p.Resources.Stylesheets
	e.TotalResources = p.Resources.Total
	e.GzipEnabled = p.Compression.GzipEnabled
	e.ContentType = p.Compression.ContentType
	e.CacheControl = p.Compression.CacheControl
}

// LinkReportEntity represents link buckets as stored in DynamoDB
type LinkReportEntity struct {
	BrokenInternal  []string `dynamodbav:"broken_internal"`
	BrokenExternal  []string `dynamodbav:"broken_external"`
	WorkingInternal []string `dynamodbav:"working_internal"`
	WorkingExternal []string `dynamodbav:"working_external"`
}

// ToModel converts LinkReportEntity to domain model. Empty lists may come
// back from DynamoDB as NULL, so buckets are normalised to non-nil slices.
func (e *LinkReportEntity) ToModel() models.LinkReport {
	return models.LinkReport{
		Broken: models.LinkBuckets{
			Internal: nonNil(e.BrokenInternal),
			External: nonNil(e.BrokenExternal),
		},
		Working: models.LinkBuckets{
			Internal: nonNil(e.WorkingInternal),
			External: nonNil(e.WorkingExternal),
		},
	}
}

// FromModel converts domain model to LinkReportEntity
func (e *LinkReportEntity) FromModel(r models.LinkReport) {
	e.BrokenInternal = r.Broken.Internal
	e.BrokenExternal = r.Broken.External
	e.WorkingInternal = r.Working.Internal
	e.WorkingExternal = r.Working.External
}

// DuplicationReportEntity represents duplication results as stored in DynamoDB
type DuplicationReportEntity struct {
	TotalBlocks       int                    `dynamodbav:"total_paragraphs"`
	SubstantialBlocks int                    `dynamodbav:"substantial_blocks"`
	DuplicateCount    int                    `dynamodbav:"duplicate_count"`
	Duplicates        []DuplicateEntryEntity `dynamodbav:"duplicates"`
}

// ToModel converts DuplicationReportEntity to domain model
func (e *DuplicationReportEntity) ToModel() *models.DuplicationReport {
	duplicates := make([]models.DuplicateEntry, 0, len(e.Duplicates))
	for _, d := range e.Duplicates {
		duplicates = append(duplicates, models.DuplicateEntry{
			Original:  d.Original,
			Duplicate: d.Duplicate,
			Length:    d.Length,
		})
	}

	return &models.DuplicationReport{
		TotalBlocks:       e.TotalBlocks,
		SubstantialBlocks: e.SubstantialBlocks,
		DuplicateCount:    e.DuplicateCount,
		Duplicates:        duplicates,
	}
}

// FromModel converts domain model to DuplicationReportEntity
func (e *DuplicationReportEntity) FromModel(r *models.DuplicationReport) {
	e.TotalBlocks = r.TotalBlocks
	e.SubstantialBlocks = r.SubstantialBlocks
	e.DuplicateCount = r.DuplicateCount

	e.Duplicates = make([]DuplicateEntryEntity, 0, len(r.Duplicates))
	for _, d := range r.Duplicates {
		e.Duplicates = append(e.Duplicates, DuplicateEntryEntity{
			Original:  d.Original,
			Duplicate: d.Duplicate,
			Length:    d.Length,
		})
	}
}

// DuplicateEntryEntity represents a duplicate block pair as stored in DynamoDB
type DuplicateEntryEntity struct {
	Original  string `dynamodbav:"original"`
	Duplicate string `dynamodbav:"duplicate"`
	Length    int    `dynamodbav:"length"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
