package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle of a quotation.
//
// Allowed transitions:
//   - DRAFT -> PENDING (submit)
//   - PENDING -> SOLD (approve)
//   - DRAFT|PENDING -> CANCELLED (cancel)
//
// SOLD and CANCELLED are terminal.
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "DRAFT"
	QuotationStatusPending   QuotationStatus = "PENDING"
	QuotationStatusSold      QuotationStatus = "SOLD"
	QuotationStatusCancelled QuotationStatus = "CANCELLED"
)

func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusPending, QuotationStatusSold, QuotationStatusCancelled:
		return true
	}
	return false
}

var (
	ErrInvalidQuotation = errors.New("invalid quotation")
	ErrInvalidState     = errors.New("invalid quotation state")
)

// Domain event types recorded in Quotation.Events.
const (
	EventQuotationCreated   = "QuotationCreated"
	EventQuotationSubmitted = "QuotationSubmitted"
	EventQuotationApproved  = "QuotationApproved"
	EventQuotationCancelled = "QuotationCancelled"
)

// DomainEvent is one audit entry of the quotation history.
// The list is append-only and is never replayed to rebuild state.
type DomainEvent struct {
	Type        string          `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Quotation is the sales quotation aggregate.
//
// Items holds the priced lines while the quotation is open (DRAFT, PENDING)
// or was cancelled. Once SOLD the lines move to FrozenItems and Items is nil,
// so a sold quotation's prices cannot be edited through the open-item path.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (status-index): status
type Quotation struct {
	ID          string
	CustomerID  string
	Status      QuotationStatus
	Items       []PricedLineItem
	FrozenItems []FrozenLineItem
	TotalAmount decimal.Decimal
	Events      []DomainEvent
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

// NewQuotation builds a DRAFT quotation pricing every requested item with the
// matching snapshot.
func NewQuotation(id, customerID, createdBy string, items []UnpricedLineItem, priced []ProductSnapshot, now time.Time) (Quotation, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return Quotation{}, fmt.Errorf("%w: customer id is required", ErrInvalidQuotation)
	}
	if len(items) == 0 {
		return Quotation{}, fmt.Errorf("%w: at least one item is required", ErrInvalidQuotation)
	}

	byID := make(map[string]ProductSnapshot, len(priced))
	for _, p := range priced {
		byID[p.ProductID] = p
	}

	lines := make([]PricedLineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return Quotation{}, fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidQuotation, it.ProductID)
		}
		snap, ok := byID[it.ProductID]
		if !ok {
			return Quotation{}, fmt.Errorf("%w: no price for product %s", ErrInvalidQuotation, it.ProductID)
		}
		if snap.Price.IsNegative() {
			return Quotation{}, fmt.Errorf("%w: negative price for product %s", ErrInvalidQuotation, it.ProductID)
		}
		lines = append(lines, PricedLineItem{
			ProductID:   it.ProductID,
			ProductName: snap.Name,
			Quantity:    it.Quantity,
			UnitPrice:   snap.Price,
		})
	}

	now = now.UTC()
	q := Quotation{
		ID:         id,
		CustomerID: customerID,
		Status:     QuotationStatusDraft,
		Items:      lines,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
	q.TotalAmount = q.CalculateTotal()
	q.record(EventQuotationCreated, now)
	return q, nil
}

// Submit moves a DRAFT quotation to PENDING approval.
func (q *Quotation) Submit(now time.Time) error {
	if q.Status != QuotationStatusDraft {
		return fmt.Errorf("%w: cannot submit quotation in status %s", ErrInvalidState, q.Status)
	}
	now = now.UTC()
	q.Status = QuotationStatusPending
	q.UpdatedAt = now
	q.record(EventQuotationSubmitted, now)
	return nil
}

// Approve re-prices the items with currentPrices, freezes them and marks the
// quotation SOLD. Products absent from currentPrices keep their quoted price.
func (q *Quotation) Approve(currentPrices map[string]decimal.Decimal, now time.Time) error {
	if q.Status != QuotationStatusPending {
		return fmt.Errorf("%w: cannot approve quotation in status %s", ErrInvalidState, q.Status)
	}
	for productID, price := range currentPrices {
		if price.IsNegative() {
			return fmt.Errorf("%w: negative price for product %s", ErrInvalidQuotation, productID)
		}
	}

	frozen := make([]FrozenLineItem, 0, len(q.Items))
	for _, it := range q.Items {
		if price, ok := currentPrices[it.ProductID]; ok {
			it.UnitPrice = price
		}
		frozen = append(frozen, it.Freeze())
	}

	now = now.UTC()
	q.FrozenItems = frozen
	q.Items = nil
	q.TotalAmount = q.CalculateTotal()
	q.Status = QuotationStatusSold
	q.UpdatedAt = now
	q.record(EventQuotationApproved, now)
	return nil
}

// Cancel is allowed from DRAFT and PENDING only.
func (q *Quotation) Cancel(now time.Time) error {
	switch q.Status {
	case QuotationStatusDraft, QuotationStatusPending:
	default:
		return fmt.Errorf("%w: cannot cancel quotation in status %s", ErrInvalidState, q.Status)
	}
	now = now.UTC()
	q.Status = QuotationStatusCancelled
	q.UpdatedAt = now
	q.record(EventQuotationCancelled, now)
	return nil
}

// CalculateTotal returns Σ quantity * unit price over the current lines.
func (q Quotation) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range q.Items {
		total = total.Add(it.LineTotal())
	}
	for _, it := range q.FrozenItems {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ProductIDs returns the distinct product ids of the quotation lines, in first-seen order.
func (q Quotation) ProductIDs() []string {
	seen := make(map[string]struct{}, len(q.Items)+len(q.FrozenItems))
	ids := make([]string, 0, len(q.Items)+len(q.FrozenItems))
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, it := range q.Items {
		add(it.ProductID)
	}
	for _, it := range q.FrozenItems {
		add(it.ProductID)
	}
	return ids
}

// ItemCount is the number of lines regardless of their pricing state.
func (q Quotation) ItemCount() int {
	return len(q.Items) + len(q.FrozenItems)
}

// ApprovedEvent builds the integration event for a SOLD quotation.
func (q Quotation) ApprovedEvent(now time.Time) (ApprovedEvent, error) {
	if q.Status != QuotationStatusSold {
		return ApprovedEvent{}, fmt.Errorf("%w: quotation %s is not sold", ErrInvalidState, q.ID)
	}
	lines := make([]ApprovedLineItem, 0, len(q.FrozenItems))
	for _, it := range q.FrozenItems {
		lines = append(lines, ApprovedLineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return ApprovedEvent{
		QuotationID: q.ID,
		TotalAmount: q.TotalAmount,
		Timestamp:   now.UTC().UnixMilli(),
		LineItems:   lines,
	}, nil
}

func (q *Quotation) record(eventType string, at time.Time) {
	q.Events = append(q.Events, DomainEvent{
		Type:        eventType,
		Timestamp:   at,
		TotalAmount: q.TotalAmount,
	})
}
