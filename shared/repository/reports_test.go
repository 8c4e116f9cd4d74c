package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

// fakeDynamoDB keeps items in memory keyed by id
type fakeDynamoDB struct {
	dynamodbiface.DynamoDBAPI

	mu      sync.Mutex
	items   map[string]map[string]*dynamodb.AttributeValue
	updates []*dynamodb.UpdateItemInput
	tables  []string
}

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{items: map[string]map[string]*dynamodb.AttributeValue{}}
}

func (f *fakeDynamoDB) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[aws.StringValue(in.Item["id"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[aws.StringValue(in.Key["id"].S)]}, nil
}

func (f *fakeDynamoDB) QueryPagesWithContext(_ aws.Context, in *dynamodb.QueryInput, fn func(*dynamodb.QueryOutput, bool) bool, _ ...request.Option) error {
	f.mu.Lock()
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if !aws.BoolValue(in.ScanIndexForward) {
		sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	}
	out := &dynamodb.QueryOutput{}
	for _, id := range ids {
		out.Items = append(out.Items, f.items[id])
	}
	f.mu.Unlock()

	fn(out, true)
	return nil
}

func (f *fakeDynamoDB) UpdateItemWithContext(_ aws.Context, in *dynamodb.UpdateItemInput, _ ...request.Option) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamoDB) DescribeTable(in *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
	return nil, errors.New("ResourceNotFoundException: table not found")
}

func (f *fakeDynamoDB) CreateTable(in *dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error) {
	f.tables = append(f.tables, aws.StringValue(in.TableName))
	return &dynamodb.CreateTableOutput{}, nil
}

// existingTableDB reports every table as already present
type existingTableDB struct {
	*fakeDynamoDB
}

func (e *existingTableDB) DescribeTable(*dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{}, nil
}

type countingCollector struct {
	ops []string
}

func (c *countingCollector) RecordDatabaseOperation(operation, table string, start time.Time, err error) {
	c.ops = append(c.ops, operation)
}

func TestReportRepository_CreateAndGet(t *testing.T) {
	ddb := newFakeDynamoDB()
	mc := &countingCollector{}
	repo := NewReportRepositoryWithClient(ddb, WithReportMetrics(mc))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := &models.Report{
		ID:        "01HZXA",
		URL:       "https://example.com",
		Status:    models.ReportStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
		Result: &models.AnalysisResult{
			URL:       "https://example.com",
			Timestamp: now,
			Links:     models.NewLinkReport(),
			Performance: &models.PerformanceReport{
				LoadTime:  0.5,
				PageSize:  1024,
				Resources: models.ResourceCounts{Images: 1, Scripts: 2, Stylesheets: 3, Total: 6},
				Compression: models.CompressionInfo{
					GzipEnabled:  true,
					ContentType:  "text/html",
					CacheControl: "Not set",
				},
			},
			Errors: map[models.AnalysisKind]string{models.AnalysisDuplication: "fetch failed"},
		},
	}

	require.NoError(t, repo.CreateReport(context.Background(), report))

	got, err := repo.GetReport(context.Background(), "01HZXA")
	require.NoError(t, err)

	assert.Equal(t, report.URL, got.URL)
	assert.Equal(t, report.Status, got.Status)
	assert.True(t, report.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.Result)
	assert.Equal(t, report.Result.Performance, got.Result.Performance)
	assert.Nil(t, got.Result.Duplication, "missing analysis stays nil")
	assert.NotNil(t, got.Result.Links.Broken.Internal, "buckets are never nil")
	assert.Equal(t, "fetch failed", got.Result.Errors[models.AnalysisDuplication])
	assert.Equal(t, []string{"create_report", "get_report"}, mc.ops)
}

func TestReportRepository_GetReportNotFound(t *testing.T) {
	repo := NewReportRepositoryWithClient(newFakeDynamoDB())

	_, err := repo.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportRepository_GetAllReportsNewestFirst(t *testing.T) {
	repo := NewReportRepositoryWithClient(newFakeDynamoDB())
	ctx := context.Background()

	for _, id := range []string{"01A", "01C", "01B"} {
		require.NoError(t, repo.CreateReport(ctx, &models.Report{ID: id, Status: models.ReportStatusPending}))
	}

	reports, err := repo.GetAllReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "01C", reports[0].ID)
	assert.Equal(t, "01A", reports[2].ID)
}

func TestReportRepository_CompleteReport(t *testing.T) {
	testCases := []struct {
		description  string
		result       *models.AnalysisResult
		expectResult bool
	}{
		{
			description:  "with result",
			result:       &models.AnalysisResult{URL: "https://example.com", Links: models.NewLinkReport()},
			expectResult: true,
		},
		{
			description:  "without result",
			result:       nil,
			expectResult: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ddb := newFakeDynamoDB()
			repo := NewReportRepositoryWithClient(ddb)

			err := repo.CompleteReport(context.Background(), "01A", models.ReportStatusCompleted, tc.result)
			require.NoError(t, err)
			require.Len(t, ddb.updates, 1)

			in := ddb.updates[0]
			_, hasName := in.ExpressionAttributeNames["#result"]
			_, hasValue := in.ExpressionAttributeValues[":result"]
			assert.Equal(t, tc.expectResult, hasName)
			assert.Equal(t, tc.expectResult, hasValue)
			assert.Equal(t, "completed", aws.StringValue(in.ExpressionAttributeValues[":status"].S))
		})
	}
}

func TestSeedTables_CreatesReportsTable(t *testing.T) {
	ddb := newFakeDynamoDB()
	require.NoError(t, SeedTables(ddb, nil))
	assert.Equal(t, []string{ReportsTableName}, ddb.tables)
}

func TestSeedTables_RecordsTableCreation(t *testing.T) {
	ddb := newFakeDynamoDB()
	mc := &countingCollector{}

	require.NoError(t, SeedTables(ddb, mc))
	require.NoError(t, SeedTables(&existingTableDB{ddb}, mc))

	assert.Equal(t, []string{opCreateTable}, mc.ops, "an existing table is not created again")
}

func TestWithReportMetrics_NilCollector(t *testing.T) {
	repo := NewReportRepositoryWithClient(newFakeDynamoDB(), WithReportMetrics(nil))
	_, err := repo.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
