package interfaces

import (
	"context"
	"time"

	"shama_quotations/internal/domain/entities"
)

//go:generate mockgen -source=product_repository_interface.go -destination=mocks/mock_product_repository.go -package=mock_interfaces

// IProductRepository abstracts DynamoDB persistence for inventory products.
// GetByID returns a zero Product when the id does not exist. AdjustStock
// fails with ErrProductNotFound or entities.ErrInsufficientStock and never
// leaves stock below zero.
type IProductRepository interface {
	Create(ctx context.Context, p entities.Product) (entities.Product, error)
	GetByID(ctx context.Context, id string) (entities.Product, error)
	AdjustStock(ctx context.Context, id string, delta int, now time.Time) (entities.Product, error)
	List(ctx context.Context, limit, offset int) ([]entities.Product, error)
}
