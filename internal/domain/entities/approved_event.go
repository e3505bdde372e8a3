package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TopicQuotationApproved is the topic (NATS subject / RabbitMQ routing key) of ApprovedEvent.
const TopicQuotationApproved = "quotation.approved"

var ErrInvalidApprovedEvent = errors.New("invalid approved event")

// ApprovedEvent is the integration fact emitted once per successful approval.
// Delivery is at-least-once, so consumers deduplicate on QuotationID.
//
// Amounts travel as decimal strings; Timestamp is unix milliseconds.
type ApprovedEvent struct {
	QuotationID string             `json:"quotationId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Timestamp   int64              `json:"timestamp"`
	LineItems   []ApprovedLineItem `json:"lineItems"`
}

type ApprovedLineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// EventID is the idempotency key of the event.
func (e ApprovedEvent) EventID() string {
	return e.QuotationID
}

// MessageID is the broker-level deduplication id; it also keys the outbox record.
func (e ApprovedEvent) MessageID() string {
	return OutboxID(TopicQuotationApproved, e.QuotationID)
}

func (e ApprovedEvent) Validate() error {
	if strings.TrimSpace(e.QuotationID) == "" {
		return fmt.Errorf("%w: quotation id is required", ErrInvalidApprovedEvent)
	}
	if len(e.LineItems) == 0 {
		return fmt.Errorf("%w: quotation %s has no line items", ErrInvalidApprovedEvent, e.QuotationID)
	}
	for _, it := range e.LineItems {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: quotation %s has a line without product id", ErrInvalidApprovedEvent, e.QuotationID)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quotation %s has non-positive quantity for product %s", ErrInvalidApprovedEvent, e.QuotationID, it.ProductID)
		}
	}
	return nil
}

// StockAdjustments merges the lines per product into stock decrements,
// preserving first-seen product order.
func (e ApprovedEvent) StockAdjustments() []StockAdjustment {
	index := make(map[string]int, len(e.LineItems))
	out := make([]StockAdjustment, 0, len(e.LineItems))
	for _, it := range e.LineItems {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, StockAdjustment{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// StockAdjustment decrements a product's stock by Quantity units.
type StockAdjustment struct {
	ProductID string
	Quantity  int
}

// ProcessedEvent is the idempotency ledger entry written by the stock reconciler.
//
// Storage model (DynamoDB):
//   - PK: event_id
//   - SK: event_type
type ProcessedEvent struct {
	EventID     string
	EventType   string
	ProcessedAt time.Time
}
