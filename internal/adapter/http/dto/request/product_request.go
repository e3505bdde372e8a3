package request

import (
	"strings"

	"shama_quotations/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SKU   string          `json:"sku" binding:"required"`
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" binding:"gte=0"`
}

func (r CreateProductRequest) ToEntity() entities.Product {
	return entities.Product{
		SKU:   strings.TrimSpace(r.SKU),
		Name:  strings.TrimSpace(r.Name),
		Price: r.Price,
		Stock: r.Stock,
	}
}

// AdjustStockRequest is the body of PATCH /v1/products/:id/stock. A negative
// adjustment removes stock.
type AdjustStockRequest struct {
	Adjustment int `json:"adjustment" binding:"required"`
}

type ListProductsQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
