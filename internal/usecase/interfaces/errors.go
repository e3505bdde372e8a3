package interfaces

import "errors"

// Errors shared by adapters and use cases. Adapters wrap their transport
// errors with these so use cases never depend on SDK error types.
var (
	ErrVersionConflict       = errors.New("version conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrDependencyTimeout     = errors.New("dependency timeout")
	ErrProductNotFound       = errors.New("product not found")
	ErrEventAlreadyProcessed = errors.New("event already processed")
)

// ProductNotFoundError reports which product id could not be resolved.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "product not found: " + e.ProductID
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
