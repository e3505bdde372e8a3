package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProductsTableName = "products"

type productItem struct {
	ID        string `dynamodbav:"id"`
	SKU       string `dynamodbav:"sku"`
	Name      string `dynamodbav:"name"`
	Price     number `dynamodbav:"price"`
	Stock     int    `dynamodbav:"stock"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// ProductDynamoRepository persists inventory products in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Approved quotations decrement stock through StockLedgerDynamoRepository.
// AdjustStock covers manual corrections and is guarded the same way.
type ProductDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IProductRepository = (*ProductDynamoRepository)(nil)

func NewProductDynamoRepository(ddb DynamoDBAPI) *ProductDynamoRepository {
	return &ProductDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PRODUCTS_TABLE", defaultProductsTableName),
	}
}

func (r *ProductDynamoRepository) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	av, err := attributevalue.MarshalMap(toProductItem(p))
	if err != nil {
		return entities.Product{}, err
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
			return entities.Product{}, fmt.Errorf("product %s already exists", p.ID)
		}
		return entities.Product{}, err
	}
	return p, nil
}

func (r *ProductDynamoRepository) GetByID(ctx context.Context, id string) (entities.Product, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return entities.Product{}, err
	}
	if len(out.Item) == 0 {
		return entities.Product{}, nil
	}

	var it productItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Product{}, err
	}
	return fromProductItem(it), nil
}

// AdjustStock adds delta to the stock in a single conditional update. A
// negative delta only applies while stock >= -delta.
func (r *ProductDynamoRepository) AdjustStock(ctx context.Context, id string, delta int, now time.Time) (entities.Product, error) {
	cond := "attribute_exists(#id)"
	values := map[string]types.AttributeValue{
		":delta": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
		":now":   &types.AttributeValueMemberS{Value: formatTime(now)},
	}
	if delta < 0 {
		cond += " AND #stock >= :need"
		values[":need"] = &types.AttributeValueMemberN{Value: strconv.Itoa(-delta)}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #stock = #stock + :delta, #updated_at = :now"),
		ConditionExpression: aws.String(cond),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#stock":      "stock",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues:           values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if len(cfe.Item) == 0 {
				return entities.Product{}, &interfaces.ProductNotFoundError{ProductID: id}
			}
			return entities.Product{}, fmt.Errorf("%w: product %s cannot take %d", entities.ErrInsufficientStock, id, delta)
		}
		return entities.Product{}, err
	}

	var it productItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Product{}, err
	}
	return fromProductItem(it), nil
}

// List scans the table and returns products ordered by SKU.
func (r *ProductDynamoRepository) List(ctx context.Context, limit, offset int) ([]entities.Product, error) {
	var raw []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		raw = append(raw, page.Items...)
	}

	var items []productItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SKU != items[j].SKU {
			return items[i].SKU < items[j].SKU
		}
		return items[i].ID < items[j].ID
	})

	if offset >= len(items) {
		return []entities.Product{}, nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]entities.Product, 0, len(items))
	for _, it := range items {
		out = append(out, fromProductItem(it))
	}
	return out, nil
}

func toProductItem(p entities.Product) productItem {
	return productItem{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     number(p.Price),
		Stock:     p.Stock,
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func fromProductItem(it productItem) entities.Product {
	return entities.Product{
		ID:        it.ID,
		SKU:       it.SKU,
		Name:      it.Name,
		Price:     it.Price.Decimal(),
		Stock:     it.Stock,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}
