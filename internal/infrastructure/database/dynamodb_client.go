package database

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ConnectDynamoDB creates a DynamoDB client using environment variables.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID (default: local)
//   - AWS_SECRET_ACCESS_KEY (default: local)
//   - DYNAMODB_ENDPOINT (optional; e.g. http://dynamodb:8000)
func ConnectDynamoDB() *dynamodb.Client {
	cfg, err := NewDynamoDBConfigFromEnv(context.Background())
	if err != nil {
		log.Fatalf("failed to create dynamodb config: %v", err)
	}

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewDynamoDBConfigFromEnv(ctx context.Context) (aws.Config, error) {
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

// TableSpec describes a table and its optional single-key GSI.
type TableSpec struct {
	Name      string
	HashKey   string
	RangeKey  string
	IndexName string
	IndexKey  string
}

// EnsureTables creates the missing tables (on-demand billing). Meant for
// local DynamoDB; production tables are provisioned outside the service.
func EnsureTables(ctx context.Context, ddb *dynamodb.Client, specs ...TableSpec) error {
	for _, spec := range specs {
		_, err := ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)})
		if err == nil {
			continue
		}
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return err
		}

		if _, err := ddb.CreateTable(ctx, createTableInput(spec)); err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return err
		}
		log.Printf("[database][dynamodb] table created name=%s", spec.Name)
	}
	return nil
}

func createTableInput(spec TableSpec) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(spec.HashKey), AttributeType: types.ScalarAttributeTypeS},
	}
	keys := []types.KeySchemaElement{
		{AttributeName: aws.String(spec.HashKey), KeyType: types.KeyTypeHash},
	}
	if spec.RangeKey != "" {
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(spec.RangeKey), AttributeType: types.ScalarAttributeTypeS})
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(spec.RangeKey), KeyType: types.KeyTypeRange})
	}

	in := &dynamodb.CreateTableInput{
		TableName:            aws.String(spec.Name),
		AttributeDefinitions: attrs,
		KeySchema:            keys,
		BillingMode:          types.BillingModePayPerRequest,
	}
	if spec.IndexName != "" {
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(spec.IndexKey),
			AttributeType: types.ScalarAttributeTypeS,
		})
		in.GlobalSecondaryIndexes = []types.GlobalSecondaryIndex{{
			IndexName: aws.String(spec.IndexName),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(spec.IndexKey), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}}
	}
	return in
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
