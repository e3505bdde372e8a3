package repository

import (
	"context"
	"fmt"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultOutboxTableName = "outbox_events"
	outboxStatusIndex      = "status-index"
	maxOutboxErrorLength   = 512
)

type outboxItem struct {
	ID           string `dynamodbav:"id"`
	Topic        string `dynamodbav:"topic"`
	AggregateID  string `dynamodbav:"aggregate_id"`
	Payload      string `dynamodbav:"payload"`
	Status       string `dynamodbav:"status"`
	Attempts     int    `dynamodbav:"attempts"`
	LastError    string `dynamodbav:"last_error,omitempty"`
	CreatedAt    string `dynamodbav:"created_at"`
	DispatchedAt string `dynamodbav:"dispatched_at,omitempty"`
}

// OutboxDynamoRepository reads and updates outbox records. Records are
// created by QuotationDynamoRepository.SaveApproval in the same transaction
// as the state change.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-index (PK: status)
type OutboxDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IOutboxRepository = (*OutboxDynamoRepository)(nil)

func NewOutboxDynamoRepository(ddb DynamoDBAPI) *OutboxDynamoRepository {
	return &OutboxDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("OUTBOX_TABLE", defaultOutboxTableName),
	}
}

func newOutboxPut(table string, rec entities.OutboxRecord) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(toOutboxItem(rec))
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	}, nil
}

func (r *OutboxDynamoRepository) ListPending(ctx context.Context, limit int) ([]entities.OutboxRecord, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(outboxStatusIndex),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(entities.OutboxStatusPending)},
		},
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, err
	}

	var items []outboxItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, err
	}
	records := make([]entities.OutboxRecord, 0, len(items))
	for _, it := range items {
		records = append(records, fromOutboxItem(it))
	}
	return records, nil
}

func (r *OutboxDynamoRepository) MarkDispatched(ctx context.Context, id string) error {
	return r.update(ctx, id,
		"SET #status = :status, #dispatched_at = :now REMOVE #last_error",
		map[string]string{
			"#status":        "status",
			"#dispatched_at": "dispatched_at",
			"#last_error":    "last_error",
		},
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(entities.OutboxStatusDispatched)},
			":now":    &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
	)
}

// MarkFailed records the publish failure; the record stays pending.
func (r *OutboxDynamoRepository) MarkFailed(ctx context.Context, id, reason string) error {
	if len(reason) > maxOutboxErrorLength {
		reason = reason[:maxOutboxErrorLength]
	}
	return r.update(ctx, id,
		"SET #attempts = if_not_exists(#attempts, :zero) + :one, #last_error = :reason",
		map[string]string{
			"#attempts":   "attempts",
			"#last_error": "last_error",
		},
		map[string]types.AttributeValue{
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":reason": &types.AttributeValueMemberS{Value: reason},
		},
	)
}

func (r *OutboxDynamoRepository) update(ctx context.Context, id, expr string, names map[string]string, values map[string]types.AttributeValue) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("outbox record %s not found", id)
		}
		return err
	}
	return nil
}

func toOutboxItem(rec entities.OutboxRecord) outboxItem {
	return outboxItem{
		ID:           rec.ID,
		Topic:        rec.Topic,
		AggregateID:  rec.AggregateID,
		Payload:      string(rec.Payload),
		Status:       string(rec.Status),
		Attempts:     rec.Attempts,
		LastError:    rec.LastError,
		CreatedAt:    formatTime(rec.CreatedAt),
		DispatchedAt: formatTime(rec.DispatchedAt),
	}
}

func fromOutboxItem(it outboxItem) entities.OutboxRecord {
	return entities.OutboxRecord{
		ID:           it.ID,
		Topic:        it.Topic,
		AggregateID:  it.AggregateID,
		Payload:      []byte(it.Payload),
		Status:       entities.OutboxStatus(it.Status),
		Attempts:     it.Attempts,
		LastError:    it.LastError,
		CreatedAt:    parseTime(it.CreatedAt),
		DispatchedAt: parseTime(it.DispatchedAt),
	}
}
