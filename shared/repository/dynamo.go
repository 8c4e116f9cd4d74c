package repository

import (
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
)

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg config.DynamoDBConfig) (*dynamodb.DynamoDB, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewCredentials(&credentials.StaticProvider{
			Value: credentials.Value{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
			},
		}),
	})
	if err != nil {
		return nil, err
	}

	client := dynamodb.New(sess)
	return client, nil
}

// SeedTables creates the tables the services need
func SeedTables(client dynamodbiface.DynamoDBAPI, mc MetricsCollector) error {
	return createReportsTableIfNotExists(client, ReportsTableName, collectorOrNop(mc))
}

// createReportsTableIfNotExists creates the reports table if it doesn't exist
func createReportsTableIfNotExists(client dynamodbiface.DynamoDBAPI, tableName string, mc MetricsCollector) (err error) {
	// Check if table exists
	_, err = client.DescribeTable(&dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		return nil // Table already exists
	}

	start := time.Now()
	defer func() {
		mc.RecordDatabaseOperation(opCreateTable, tableName, start, err)
	}()

	input := &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("partition_key"),
				KeyType:       aws.String("HASH"),
			},
			{
				AttributeName: aws.String("id"),
				KeyType:       aws.String("RANGE"),
			},
		},
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("partition_key"),
				AttributeType: aws.String("S"),
			},
			{
				AttributeName: aws.String("id"),
				AttributeType: aws.String("S"),
			},
		},
		BillingMode: aws.String("PAY_PER_REQUEST"),
	}

	_, err = client.CreateTable(input)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot create preexisting table") {
			err = nil
			return nil
		}
		return err
	}

	slog.Info("Created DynamoDB reports table", "table", tableName)
	return nil
}
