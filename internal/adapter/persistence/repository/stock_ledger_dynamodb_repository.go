package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultProcessedEventsTableName = "processed_events"

	// DynamoDB accepts at most 100 actions per transaction; one is the ledger put.
	maxAdjustmentsPerEvent = 99
)

type processedEventItem struct {
	EventID     string `dynamodbav:"event_id"`
	EventType   string `dynamodbav:"event_type"`
	ProcessedAt string `dynamodbav:"processed_at"`
}

// StockLedgerDynamoRepository applies stock decrements and the idempotency
// ledger record of an event in a single DynamoDB transaction.
//
// Table requirements:
//   - processed_events: PK event_id, SK event_type
//   - products: PK id
type StockLedgerDynamoRepository struct {
	ddb           DynamoDBAPI
	ledgerTable   string
	productsTable string
}

var _ interfaces.IStockLedger = (*StockLedgerDynamoRepository)(nil)

func NewStockLedgerDynamoRepository(ddb DynamoDBAPI) *StockLedgerDynamoRepository {
	return &StockLedgerDynamoRepository{
		ddb:           ddb,
		ledgerTable:   getenvDefault("PROCESSED_EVENTS_TABLE", defaultProcessedEventsTableName),
		productsTable: getenvDefault("PRODUCTS_TABLE", defaultProductsTableName),
	}
}

func (r *StockLedgerDynamoRepository) IsProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.ledgerTable),
		Key: map[string]types.AttributeValue{
			"event_id":   &types.AttributeValueMemberS{Value: eventID},
			"event_type": &types.AttributeValueMemberS{Value: eventType},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, err
	}
	return len(out.Item) > 0, nil
}

// ApplyOnce writes every adjustment and the ledger record, or nothing.
//
// Errors:
//   - interfaces.ErrEventAlreadyProcessed when the ledger record exists
//   - *interfaces.ProductNotFoundError when a product is missing
//   - entities.ErrInsufficientStock when a product has less stock than requested
func (r *StockLedgerDynamoRepository) ApplyOnce(ctx context.Context, record entities.ProcessedEvent, adjustments []entities.StockAdjustment) error {
	if len(adjustments) == 0 {
		return fmt.Errorf("%w: event %s has no adjustments", entities.ErrInvalidApprovedEvent, record.EventID)
	}
	if len(adjustments) > maxAdjustmentsPerEvent {
		return fmt.Errorf("%w: event %s touches %d products, max %d", entities.ErrInvalidApprovedEvent, record.EventID, len(adjustments), maxAdjustmentsPerEvent)
	}

	now := formatTime(time.Now())
	items := make([]types.TransactWriteItem, 0, len(adjustments)+1)
	for _, adj := range adjustments {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(r.productsTable),
				Key: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: adj.ProductID},
				},
				UpdateExpression:    aws.String("SET #stock = #stock - :qty, #updated_at = :now"),
				ConditionExpression: aws.String("attribute_exists(#id) AND #stock >= :qty"),
				ExpressionAttributeNames: map[string]string{
					"#id":         "id",
					"#stock":      "stock",
					"#updated_at": "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":qty": &types.AttributeValueMemberN{Value: strconv.Itoa(adj.Quantity)},
					":now": &types.AttributeValueMemberS{Value: now},
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		})
	}

	av, err := attributevalue.MarshalMap(processedEventItem{
		EventID:     record.EventID,
		EventType:   record.EventType,
		ProcessedAt: formatTime(record.ProcessedAt),
	})
	if err != nil {
		return err
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(r.ledgerTable),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(#event_id)"),
			ExpressionAttributeNames: map[string]string{
				"#event_id": "event_id",
			},
		},
	})

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		return nil
	}
	reasons, ok := cancellationReasons(err)
	if !ok {
		return err
	}
	return classifyLedgerCancellation(err, reasons, adjustments)
}

// classifyLedgerCancellation maps the per-item reasons back to domain errors.
// reasons[i] belongs to adjustments[i]; the last reason is the ledger put.
func classifyLedgerCancellation(err error, reasons []types.CancellationReason, adjustments []entities.StockAdjustment) error {
	ledgerIdx := len(adjustments)
	if len(reasons) > ledgerIdx && aws.ToString(reasons[ledgerIdx].Code) == conditionalCheckFailed {
		return interfaces.ErrEventAlreadyProcessed
	}
	for i, reason := range reasons {
		if i >= len(adjustments) || aws.ToString(reason.Code) != conditionalCheckFailed {
			continue
		}
		adj := adjustments[i]
		if len(reason.Item) == 0 {
			return &interfaces.ProductNotFoundError{ProductID: adj.ProductID}
		}
		available := "unknown"
		if n, ok := reason.Item["stock"].(*types.AttributeValueMemberN); ok {
			available = n.Value
		}
		return fmt.Errorf("%w: product %s has %s, requested %d", entities.ErrInsufficientStock, adj.ProductID, available, adj.Quantity)
	}
	return err
}
