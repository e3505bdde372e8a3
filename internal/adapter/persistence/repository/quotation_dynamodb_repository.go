package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotationsTableName = "quotations"
	quotationsStatusIndex      = "status-index"
)

type quotationItem struct {
	ID          string            `dynamodbav:"id"`
	CustomerID  string            `dynamodbav:"customer_id"`
	Status      string            `dynamodbav:"status"`
	Items       []lineItemRecord  `dynamodbav:"items"`
	TotalAmount number            `dynamodbav:"total_amount"`
	Events      []domainEventItem `dynamodbav:"events,omitempty"`
	CreatedBy   string            `dynamodbav:"created_by"`
	CreatedAt   string            `dynamodbav:"created_at"`
	CreatedAtMs int64             `dynamodbav:"created_at_ms"`
	UpdatedAt   string            `dynamodbav:"updated_at"`
	Version     int64             `dynamodbav:"version"`
}

// lineItemRecord is the persisted line shape; price_snapshot tells frozen
// lines apart from open ones.
type lineItemRecord struct {
	ProductID     string `dynamodbav:"product_id"`
	ProductName   string `dynamodbav:"product_name"`
	Quantity      int    `dynamodbav:"quantity"`
	UnitPrice     number `dynamodbav:"unit_price"`
	PriceSnapshot bool   `dynamodbav:"price_snapshot"`
}

type domainEventItem struct {
	Type        string `dynamodbav:"type"`
	Timestamp   string `dynamodbav:"timestamp"`
	TotalAmount number `dynamodbav:"total_amount"`
}

// QuotationDynamoRepository persists Quotation aggregates in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: status-index (PK: status)
//
// Every write after creation is conditional on the version that was loaded.
type QuotationDynamoRepository struct {
	ddb         DynamoDBAPI
	tableName   string
	outboxTable string
}

var _ interfaces.IQuotationRepository = (*QuotationDynamoRepository)(nil)

func NewQuotationDynamoRepository(ddb DynamoDBAPI) *QuotationDynamoRepository {
	return &QuotationDynamoRepository{
		ddb:         ddb,
		tableName:   getenvDefault("QUOTATIONS_TABLE", defaultQuotationsTableName),
		outboxTable: getenvDefault("OUTBOX_TABLE", defaultOutboxTableName),
	}
}

func (r *QuotationDynamoRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	if q.Version == 0 {
		q.Version = 1
	}
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Quotation{}, fmt.Errorf("quotation %s already exists", q.ID)
		}
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quotation{}, nil
	}

	var it quotationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quotation{}, err
	}
	return fromQuotationItem(it), nil
}

// Update replaces the quotation if the stored version still equals
// expectedVersion. The stored version becomes expectedVersion+1.
func (r *QuotationDynamoRepository) Update(ctx context.Context, q entities.Quotation, expectedVersion int64) (entities.Quotation, error) {
	put, err := r.versionedPut(q, expectedVersion)
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeNames:  put.ExpressionAttributeNames,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Quotation{}, fmt.Errorf("%w: quotation %s version %d", interfaces.ErrVersionConflict, q.ID, expectedVersion)
		}
		return entities.Quotation{}, err
	}
	q.Version = expectedVersion + 1
	return q, nil
}

// SaveApproval commits the SOLD quotation and its outbox record in one
// transaction.
func (r *QuotationDynamoRepository) SaveApproval(ctx context.Context, q entities.Quotation, expectedVersion int64, outbox entities.OutboxRecord) (entities.Quotation, error) {
	put, err := r.versionedPut(q, expectedVersion)
	if err != nil {
		return entities.Quotation{}, err
	}
	outboxPut, err := newOutboxPut(r.outboxTable, outbox)
	if err != nil {
		return entities.Quotation{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{Put: outboxPut},
		},
	})
	if err != nil {
		if reasons, ok := cancellationReasons(err); ok {
			for _, reason := range reasons {
				// A conflicting version or an existing outbox record both
				// mean another approval won the race.
				if aws.ToString(reason.Code) == conditionalCheckFailed {
					return entities.Quotation{}, fmt.Errorf("%w: quotation %s version %d", interfaces.ErrVersionConflict, q.ID, expectedVersion)
				}
			}
		}
		return entities.Quotation{}, err
	}
	q.Version = expectedVersion + 1
	return q, nil
}

func (r *QuotationDynamoRepository) versionedPut(q entities.Quotation, expectedVersion int64) (*types.Put, error) {
	q.Version = expectedVersion + 1
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	}, nil
}

// List queries status-index when a status is given and scans otherwise.
// Amount and date filters run server side; ordering (createdAt desc) and
// offset/limit are applied after all pages are read.
func (r *QuotationDynamoRepository) List(ctx context.Context, filter interfaces.QuotationFilter) ([]entities.Quotation, error) {
	filterExpr, names, values := buildQuotationFilter(filter)

	var raw []map[string]types.AttributeValue
	if filter.Status != "" {
		names = mergeNames(names, map[string]string{"#status": "status"})
		values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
		in := &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(quotationsStatusIndex),
			KeyConditionExpression:    aws.String("#status = :status"),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}
		if filterExpr != "" {
			in.FilterExpression = aws.String(filterExpr)
		}
		p := dynamodb.NewQueryPaginator(r.ddb, in)
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			raw = append(raw, page.Items...)
		}
	} else {
		in := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
		if filterExpr != "" {
			in.FilterExpression = aws.String(filterExpr)
			in.ExpressionAttributeNames = names
			in.ExpressionAttributeValues = values
		}
		p := dynamodb.NewScanPaginator(r.ddb, in)
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			raw = append(raw, page.Items...)
		}
	}

	var items []quotationItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAtMs > items[j].CreatedAtMs
	})

	if filter.Offset >= len(items) {
		return []entities.Quotation{}, nil
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}

	out := make([]entities.Quotation, 0, len(items))
	for _, it := range items {
		out = append(out, fromQuotationItem(it))
	}
	return out, nil
}

func buildQuotationFilter(filter interfaces.QuotationFilter) (string, map[string]string, map[string]types.AttributeValue) {
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	if filter.MinAmount != nil {
		conds = append(conds, "#total_amount >= :min_amount")
		names["#total_amount"] = "total_amount"
		values[":min_amount"] = numberValue(*filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		conds = append(conds, "#total_amount <= :max_amount")
		names["#total_amount"] = "total_amount"
		values[":max_amount"] = numberValue(*filter.MaxAmount)
	}
	if !filter.DateFrom.IsZero() {
		conds = append(conds, "#created_at_ms >= :date_from")
		names["#created_at_ms"] = "created_at_ms"
		values[":date_from"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(filter.DateFrom.UnixMilli(), 10)}
	}
	if !filter.DateTo.IsZero() {
		conds = append(conds, "#created_at_ms <= :date_to")
		names["#created_at_ms"] = "created_at_ms"
		values[":date_to"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(filter.DateTo.UnixMilli(), 10)}
	}
	return strings.Join(conds, " AND "), names, values
}

func toQuotationItem(q entities.Quotation) quotationItem {
	lines := make([]lineItemRecord, 0, q.ItemCount())
	for _, it := range q.Items {
		lines = append(lines, lineItemRecord{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   number(it.UnitPrice),
		})
	}
	for _, it := range q.FrozenItems {
		lines = append(lines, lineItemRecord{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			UnitPrice:     number(it.UnitPrice),
			PriceSnapshot: it.PriceSnapshot(),
		})
	}

	events := make([]domainEventItem, 0, len(q.Events))
	for _, ev := range q.Events {
		events = append(events, domainEventItem{
			Type:        ev.Type,
			Timestamp:   formatTime(ev.Timestamp),
			TotalAmount: number(ev.TotalAmount),
		})
	}

	return quotationItem{
		ID:          q.ID,
		CustomerID:  q.CustomerID,
		Status:      string(q.Status),
		Items:       lines,
		TotalAmount: number(q.TotalAmount),
		Events:      events,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   formatTime(q.CreatedAt),
		CreatedAtMs: q.CreatedAt.UnixMilli(),
		UpdatedAt:   formatTime(q.UpdatedAt),
		Version:     q.Version,
	}
}

func fromQuotationItem(it quotationItem) entities.Quotation {
	q := entities.Quotation{
		ID:          it.ID,
		CustomerID:  it.CustomerID,
		Status:      entities.QuotationStatus(it.Status),
		TotalAmount: it.TotalAmount.Decimal(),
		CreatedBy:   it.CreatedBy,
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
		Version:     it.Version,
	}
	for _, line := range it.Items {
		if line.PriceSnapshot {
			q.FrozenItems = append(q.FrozenItems, entities.FrozenLineItem{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice.Decimal(),
			})
			continue
		}
		q.Items = append(q.Items, entities.PricedLineItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Decimal(),
		})
	}
	for _, ev := range it.Events {
		q.Events = append(q.Events, entities.DomainEvent{
			Type:        ev.Type,
			Timestamp:   parseTime(ev.Timestamp),
			TotalAmount: ev.TotalAmount.Decimal(),
		})
	}
	return q
}
