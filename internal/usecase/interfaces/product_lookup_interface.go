package interfaces

import (
	"context"

	"shama_quotations/internal/domain/entities"
)

//go:generate mockgen -source=product_lookup_interface.go -destination=mocks/mock_product_lookup.go -package=mock_interfaces

// IProductLookup resolves current product prices from the inventory service.
//
// Unknown ids are left out of the result; callers decide whether a missing
// product is an error. Implementations return ErrDependencyTimeout when ctx
// expires and ErrDependencyUnavailable on transport failures.
type IProductLookup interface {
	GetProducts(ctx context.Context, ids []string) ([]entities.ProductSnapshot, error)
}
