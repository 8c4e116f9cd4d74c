package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
)

const ReportsTableName = "web-analyzer-reports"

// ErrReportNotFound is returned when no report exists for an ID
var ErrReportNotFound = errors.New("report not found")

//go:generate mockgen -destination=../mocks/mock_repository.go -package=mocks . ReportRepositoryInterface

type ReportRepositoryInterface interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	GetAllReports(ctx context.Context) ([]*models.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) error
	CompleteReport(ctx context.Context, id string, status models.ReportStatus, result *models.AnalysisResult) error
}

type ReportRepository struct {
	ddb dynamodbiface.DynamoDBAPI
	mc  MetricsCollector
}

// ReportOption configures the ReportRepository
type ReportOption func(*ReportRepository)

// WithReportMetrics sets the metrics collector
func WithReportMetrics(mc MetricsCollector) ReportOption {
	return func(r *ReportRepository) {
		r.mc = collectorOrNop(mc)
	}
}

// NewReportRepository creates a ReportRepository backed by a new DynamoDB client
func NewReportRepository(cfg config.DynamoDBConfig, opts ...ReportOption) (*ReportRepository, error) {
	ddb, err := NewDynamoDBClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewReportRepositoryWithClient(ddb, opts...), nil
}

// NewReportRepositoryWithClient creates a ReportRepository on an existing client
func NewReportRepositoryWithClient(ddb dynamodbiface.DynamoDBAPI, opts ...ReportOption) *ReportRepository {
	r := &ReportRepository{
		ddb: ddb,
		mc:  nopCollector{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// CreateReport stores a new report
func (r *ReportRepository) CreateReport(ctx context.Context, report *models.Report) (err error) {
	ctx, done := r.track(ctx, opCreateReport)
	defer func() { done(err) }()

	entity := &ReportEntity{}
	entity.FromModel(report)

	item, err := dynamodbattribute.MarshalMap(entity)
	if err != nil {
		return err
	}

	_, err = r.ddb.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ReportsTableName),
		Item:      item,
	})
	return err
}

// GetReport gets a report by ID
func (r *ReportRepository) GetReport(ctx context.Context, id string) (report *models.Report, err error) {
	ctx, done := r.track(ctx, opGetReport)
	defer func() { done(err) }()

	result, err := r.ddb.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ReportsTableName),
		Key:       reportKey(id),
	})
	if err != nil {
		return nil, err
	}

	if result.Item == nil {
		return nil, ErrReportNotFound
	}

	var entity ReportEntity
	if err = dynamodbattribute.UnmarshalMap(result.Item, &entity); err != nil {
		return nil, err
	}

	return entity.ToModel(), nil
}

// GetAllReports lists reports, newest first
func (r *ReportRepository) GetAllReports(ctx context.Context) (reports []*models.Report, err error) {
	ctx, done := r.track(ctx, opQueryReports)
	defer func() { done(err) }()

	input := &dynamodb.QueryInput{
		TableName:              aws.String(ReportsTableName),
		KeyConditionExpression: aws.String("partition_key = :pk"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":pk": {S: aws.String(reportsPartitionKey)},
		},
		// ULIDs sort by creation time
		ScanIndexForward: aws.Bool(false),
	}

	var decodeErr error
	reports = make([]*models.Report, 0)
	err = r.ddb.QueryPagesWithContext(ctx, input, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		for _, item := range page.Items {
			var entity ReportEntity
			if decodeErr = dynamodbattribute.UnmarshalMap(item, &entity); decodeErr != nil {
				return false
			}
			reports = append(reports, entity.ToModel())
		}
		return true
	})
	if err == nil {
		err = decodeErr
	}
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// UpdateReportStatus updates the status of a report
func (r *ReportRepository) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (err error) {
	ctx, done := r.track(ctx, opUpdateStatus)
	defer func() { done(err) }()

	_, err = r.ddb.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(ReportsTableName),
		Key:              reportKey(id),
		UpdateExpression: aws.String("SET #status = :status, updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]*string{
			"#status": aws.String("status"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":status":     {S: aws.String(string(status))},
			":updated_at": {S: aws.String(time.Now().UTC().Format(time.RFC3339Nano))},
		},
	})
	return err
}

// CompleteReport stores the final status and result of a report
func (r *ReportRepository) CompleteReport(ctx context.Context, id string, status models.ReportStatus, result *models.AnalysisResult) (err error) {
	ctx, done := r.track(ctx, opCompleteReport)
	defer func() { done(err) }()

	now := aws.String(time.Now().UTC().Format(time.RFC3339Nano))
	values := map[string]*dynamodb.AttributeValue{
		":status":       {S: aws.String(string(status))},
		":updated_at":   {S: now},
		":completed_at": {S: now},
	}
	expr := "SET #status = :status, updated_at = :updated_at, completed_at = :completed_at"

	if result != nil {
		entity := &AnalysisResultEntity{}
		entity.FromModel(result)

		values[":result"], err = dynamodbattribute.Marshal(entity)
		if err != nil {
			return err
		}
		expr += ", #result = :result"
	}

	names := map[string]*string{"#status": aws.String("status")}
	if result != nil {
		names["#result"] = aws.String("result")
	}

	_, err = r.ddb.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(ReportsTableName),
		Key:                       reportKey(id),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func reportKey(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"partition_key": {S: aws.String(reportsPartitionKey)},
		"id":            {S: aws.String(id)},
	}
}
