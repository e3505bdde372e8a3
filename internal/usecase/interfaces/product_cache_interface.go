package interfaces

import (
	"context"

	"shama_quotations/internal/domain/entities"
)

//go:generate mockgen -source=product_cache_interface.go -destination=mocks/mock_product_cache.go -package=mock_interfaces

// IProductCache keeps short-lived product snapshots. Missing ids are simply
// absent from the Get result.
type IProductCache interface {
	Get(ctx context.Context, ids []string) (map[string]entities.ProductSnapshot, error)
	Set(ctx context.Context, snapshots []entities.ProductSnapshot) error
}
