package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

func soldQuotation(t *testing.T) entities.Quotation {
	t.Helper()
	q, err := entities.NewQuotation("q-1", "c-1", "u-1",
		[]entities.UnpricedLineItem{{ProductID: "p-1", Quantity: 2}},
		[]entities.ProductSnapshot{{ProductID: "p-1", Name: "Widget", Price: decimal.RequireFromString("50.10")}},
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Submit(time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Approve(map[string]decimal.Decimal{"p-1": decimal.RequireFromString("55.25")}, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return q
}

func TestQuotationItemMapping(t *testing.T) {
	t.Run("frozen lines survive a round trip", func(t *testing.T) {
		q := soldQuotation(t)
		av, err := attributevalue.MarshalMap(toQuotationItem(q))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if n, ok := av["total_amount"].(*types.AttributeValueMemberN); !ok || n.Value != "110.5" {
			t.Fatalf("expected numeric total_amount 110.5, got %#v", av["total_amount"])
		}

		var it quotationItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got := fromQuotationItem(it)
		if got.Status != entities.QuotationStatusSold {
			t.Fatalf("unexpected status %s", got.Status)
		}
		if len(got.Items) != 0 || len(got.FrozenItems) != 1 {
			t.Fatalf("expected only frozen lines, got items=%d frozen=%d", len(got.Items), len(got.FrozenItems))
		}
		if !got.FrozenItems[0].UnitPrice.Equal(decimal.RequireFromString("55.25")) {
			t.Fatalf("unexpected unit price %s", got.FrozenItems[0].UnitPrice)
		}
		if !got.TotalAmount.Equal(q.TotalAmount) || !got.CreatedAt.Equal(q.CreatedAt) {
			t.Fatalf("round trip mismatch: %+v", got)
		}
		if len(got.Events) != 3 || got.Events[2].Type != entities.EventQuotationApproved {
			t.Fatalf("unexpected events %+v", got.Events)
		}
	})

	t.Run("open lines stay priced", func(t *testing.T) {
		q := soldQuotation(t)
		q.Status = entities.QuotationStatusDraft
		q.Items = []entities.PricedLineItem{{ProductID: "p-1", Quantity: 1, UnitPrice: decimal.NewFromInt(3)}}
		q.FrozenItems = nil

		got := fromQuotationItem(toQuotationItem(q))
		if len(got.Items) != 1 || len(got.FrozenItems) != 0 {
			t.Fatalf("expected only open lines, got items=%d frozen=%d", len(got.Items), len(got.FrozenItems))
		}
	})
}

func TestQuotationDynamoRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("conditional on expected version", func(t *testing.T) {
		ddb := &fakeDynamo{}
		repo := NewQuotationDynamoRepository(ddb)
		q := soldQuotation(t)

		got, err := repo.Update(ctx, q, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Version != 3 {
			t.Fatalf("expected version 3, got %d", got.Version)
		}
		in := ddb.putInputs[0]
		if aws.ToString(in.ConditionExpression) != "attribute_exists(#id) AND #version = :expected" {
			t.Fatalf("unexpected condition %q", aws.ToString(in.ConditionExpression))
		}
		if v := in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value; v != "2" {
			t.Fatalf("expected :expected=2, got %s", v)
		}
		if v := in.Item["version"].(*types.AttributeValueMemberN).Value; v != "3" {
			t.Fatalf("expected stored version 3, got %s", v)
		}
	})

	t.Run("condition failure is a version conflict", func(t *testing.T) {
		ddb := &fakeDynamo{err: &types.ConditionalCheckFailedException{Message: aws.String("failed")}}
		repo := NewQuotationDynamoRepository(ddb)

		_, err := repo.Update(ctx, soldQuotation(t), 2)
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})
}

func TestQuotationDynamoRepository_SaveApproval(t *testing.T) {
	ctx := context.Background()
	q := soldQuotation(t)
	ev, err := q.ApprovedEvent(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := entities.NewApprovedOutboxRecord(ev, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("quotation and outbox in one transaction", func(t *testing.T) {
		ddb := &fakeDynamo{}
		repo := NewQuotationDynamoRepository(ddb)

		got, err := repo.SaveApproval(ctx, q, 2, rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Version != 3 {
			t.Fatalf("expected version 3, got %d", got.Version)
		}
		if len(ddb.txInputs) != 1 || len(ddb.txInputs[0].TransactItems) != 2 {
			t.Fatalf("expected one transaction with two puts")
		}
		outboxPut := ddb.txInputs[0].TransactItems[1].Put
		if aws.ToString(outboxPut.TableName) != defaultOutboxTableName {
			t.Fatalf("unexpected outbox table %s", aws.ToString(outboxPut.TableName))
		}
		if id := outboxPut.Item["id"].(*types.AttributeValueMemberS).Value; id != "quotation.approved#q-1" {
			t.Fatalf("unexpected outbox id %s", id)
		}
	})

	t.Run("cancelled transaction is a version conflict", func(t *testing.T) {
		ddb := &fakeDynamo{err: &types.TransactionCanceledException{
			Message: aws.String("cancelled"),
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String(conditionalCheckFailed)},
				{Code: aws.String("None")},
			},
		}}
		repo := NewQuotationDynamoRepository(ddb)

		_, err := repo.SaveApproval(ctx, q, 2, rec)
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		ddb := &fakeDynamo{err: errors.New("throttled")}
		repo := NewQuotationDynamoRepository(ddb)

		_, err := repo.SaveApproval(ctx, q, 2, rec)
		if err == nil || errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected raw error, got %v", err)
		}
	})
}

func TestQuotationDynamoRepository_GetByID(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		repo := NewQuotationDynamoRepository(&fakeDynamo{})
		q, err := repo.GetByID(context.Background(), "nope")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "" {
			t.Fatalf("expected zero quotation, got %+v", q)
		}
	})

	t.Run("found", func(t *testing.T) {
		av, err := attributevalue.MarshalMap(toQuotationItem(soldQuotation(t)))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		repo := NewQuotationDynamoRepository(&fakeDynamo{getItemOut: &dynamodb.GetItemOutput{Item: av}})
		q, err := repo.GetByID(context.Background(), "q-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "q-1" || q.Status != entities.QuotationStatusSold {
			t.Fatalf("unexpected quotation %+v", q)
		}
	})
}

func TestQuotationDynamoRepository_List(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	item := func(id string, created time.Time) map[string]types.AttributeValue {
		av, err := attributevalue.MarshalMap(quotationItem{
			ID:          id,
			Status:      string(entities.QuotationStatusDraft),
			TotalAmount: number(decimal.NewFromInt(10)),
			CreatedAt:   formatTime(created),
			CreatedAtMs: created.UnixMilli(),
			Version:     1,
		})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return av
	}

	t.Run("scan orders by created desc and pages", func(t *testing.T) {
		ddb := &fakeDynamo{scanPages: []*dynamodb.ScanOutput{
			{
				Items:            []map[string]types.AttributeValue{item("a", base), item("c", base.Add(2*time.Hour))},
				LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "c"}},
			},
			{Items: []map[string]types.AttributeValue{item("b", base.Add(time.Hour))}},
		}}
		repo := NewQuotationDynamoRepository(ddb)

		out, err := repo.List(ctx, interfaces.QuotationFilter{Limit: 2, Offset: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ddb.scanInputs) != 2 {
			t.Fatalf("expected 2 scan pages, got %d", len(ddb.scanInputs))
		}
		if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
			t.Fatalf("unexpected order %+v", out)
		}
	})

	t.Run("status uses the index", func(t *testing.T) {
		ddb := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item("a", base)}}}
		repo := NewQuotationDynamoRepository(ddb)
		lo := decimal.NewFromInt(5)

		out, err := repo.List(ctx, interfaces.QuotationFilter{Status: entities.QuotationStatusDraft, MinAmount: &lo, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("expected 1 quotation, got %d", len(out))
		}
		in := ddb.queryInputs[0]
		if aws.ToString(in.IndexName) != quotationsStatusIndex {
			t.Fatalf("unexpected index %s", aws.ToString(in.IndexName))
		}
		if aws.ToString(in.FilterExpression) != "#total_amount >= :min_amount" {
			t.Fatalf("unexpected filter %q", aws.ToString(in.FilterExpression))
		}
	})

	t.Run("offset past the end", func(t *testing.T) {
		repo := NewQuotationDynamoRepository(&fakeDynamo{scanPages: []*dynamodb.ScanOutput{{Items: []map[string]types.AttributeValue{item("a", base)}}}})
		out, err := repo.List(ctx, interfaces.QuotationFilter{Limit: 10, Offset: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 0 {
			t.Fatalf("expected empty page, got %d", len(out))
		}
	})
}

func TestBuildQuotationFilter(t *testing.T) {
	from := time.UnixMilli(1000)
	to := time.UnixMilli(2000)
	hi := decimal.RequireFromString("99.90")

	expr, names, values := buildQuotationFilter(interfaces.QuotationFilter{MaxAmount: &hi, DateFrom: from, DateTo: to})
	want := "#total_amount <= :max_amount AND #created_at_ms >= :date_from AND #created_at_ms <= :date_to"
	if expr != want {
		t.Fatalf("expected %q, got %q", want, expr)
	}
	if names["#created_at_ms"] != "created_at_ms" {
		t.Fatalf("missing attribute name")
	}
	if values[":max_amount"].(*types.AttributeValueMemberN).Value != "99.9" {
		t.Fatalf("unexpected max amount %#v", values[":max_amount"])
	}
	if values[":date_from"].(*types.AttributeValueMemberN).Value != "1000" {
		t.Fatalf("unexpected date_from %#v", values[":date_from"])
	}

	expr, _, _ = buildQuotationFilter(interfaces.QuotationFilter{})
	if expr != "" {
		t.Fatalf("expected empty filter, got %q", expr)
	}
}
