package response

import (
	"time"

	"shama_quotations/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// ProductResponse is also the body read by the sales product lookup, so
// Price is sent as an exact decimal string.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func FromProduct(p entities.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromProductList(ps []entities.Product, limit, offset int) ProductListResponse {
	items := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		items = append(items, FromProduct(p))
	}
	return ProductListResponse{Items: items, Limit: limit, Offset: offset}
}
