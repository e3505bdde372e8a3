package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuery = errors.New("invalid query")

type QuotationItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateQuotationRequest is the body of POST /v1/quotations.
type CreateQuotationRequest struct {
	CustomerID string                 `json:"customerId" binding:"required"`
	Items      []QuotationItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateQuotationRequest) ToInput(createdBy string) usecase.CreateQuotationInput {
	items := make([]entities.UnpricedLineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.UnpricedLineItem{
			ProductID: strings.TrimSpace(it.ProductID),
			Quantity:  it.Quantity,
		})
	}
	return usecase.CreateQuotationInput{
		CustomerID: strings.TrimSpace(r.CustomerID),
		CreatedBy:  strings.TrimSpace(createdBy),
		Items:      items,
	}
}

// ListQuotationsQuery holds the GET /v1/quotations query string.
// Dates accept RFC3339 or YYYY-MM-DD; a bare dateTo covers the whole day.
type ListQuotationsQuery struct {
	Status    string `form:"status"`
	MinAmount string `form:"minAmount"`
	MaxAmount string `form:"maxAmount"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}

func (q ListQuotationsQuery) ToFilter() (interfaces.QuotationFilter, error) {
	f := interfaces.QuotationFilter{
		Status: entities.QuotationStatus(strings.ToUpper(strings.TrimSpace(q.Status))),
		Limit:  q.Limit,
		Offset: q.Offset,
	}

	var err error
	if f.MinAmount, err = parseAmount("minAmount", q.MinAmount); err != nil {
		return interfaces.QuotationFilter{}, err
	}
	if f.MaxAmount, err = parseAmount("maxAmount", q.MaxAmount); err != nil {
		return interfaces.QuotationFilter{}, err
	}
	if f.DateFrom, err = parseDate("dateFrom", q.DateFrom, false); err != nil {
		return interfaces.QuotationFilter{}, err
	}
	if f.DateTo, err = parseDate("dateTo", q.DateTo, true); err != nil {
		return interfaces.QuotationFilter{}, err
	}
	return f, nil
}

func parseAmount(name, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidQuery, name)
	}
	return &d, nil
}

func parseDate(name, raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", ErrInvalidQuery, name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
