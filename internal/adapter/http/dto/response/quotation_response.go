package response

import (
	"time"

	"shama_quotations/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Amounts in the quotation responses are decimal strings, the same encoding
// as the quotation.approved payload.
type QuotationItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	Frozen      bool            `json:"frozen"`
}

type DomainEventResponse struct {
	Type        string          `json:"type"`
	Timestamp   time.Time       `json:"timestamp"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type QuotationResponse struct {
	QuotationID string                  `json:"quotationId"`
	CustomerID  string                  `json:"customerId"`
	Status      string                  `json:"status"`
	Items       []QuotationItemResponse `json:"items"`
	TotalAmount decimal.Decimal         `json:"totalAmount"`
	Events      []DomainEventResponse   `json:"events"`
	CreatedBy   string                  `json:"createdBy"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Version     int64                   `json:"version"`
}

// QuotationSummaryResponse is one row of GET /v1/quotations.
type QuotationSummaryResponse struct {
	QuotationID string          `json:"quotationId"`
	CustomerID  string          `json:"customerId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type QuotationListResponse struct {
	Items  []QuotationSummaryResponse `json:"items"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

func FromQuotation(q entities.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, 0, q.ItemCount())
	for _, it := range q.Items {
		items = append(items, QuotationItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	for _, it := range q.FrozenItems {
		items = append(items, QuotationItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
			Frozen:      true,
		})
	}

	events := make([]DomainEventResponse, 0, len(q.Events))
	for _, e := range q.Events {
		events = append(events, DomainEventResponse{
			Type:        e.Type,
			Timestamp:   e.Timestamp,
			TotalAmount: e.TotalAmount,
		})
	}

	return QuotationResponse{
		QuotationID: q.ID,
		CustomerID:  q.CustomerID,
		Status:      string(q.Status),
		Items:       items,
		TotalAmount: q.TotalAmount,
		Events:      events,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Version:     q.Version,
	}
}

func FromQuotationSummary(q entities.Quotation) QuotationSummaryResponse {
	return QuotationSummaryResponse{
		QuotationID: q.ID,
		CustomerID:  q.CustomerID,
		Status:      string(q.Status),
		TotalAmount: q.TotalAmount,
		ItemCount:   q.ItemCount(),
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
	}
}

func FromQuotationList(qs []entities.Quotation, limit, offset int) QuotationListResponse {
	items := make([]QuotationSummaryResponse, 0, len(qs))
	for _, q := range qs {
		items = append(items, FromQuotationSummary(q))
	}
	return QuotationListResponse{Items: items, Limit: limit, Offset: offset}
}
