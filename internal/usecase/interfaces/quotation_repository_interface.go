package interfaces

import (
	"context"
	"time"

	"shama_quotations/internal/domain/entities"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=quotation_repository_interface.go -destination=mocks/mock_quotation_repository.go -package=mock_interfaces

// QuotationFilter narrows List. Zero values mean "no filter".
type QuotationFilter struct {
	Status    entities.QuotationStatus
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	DateFrom  time.Time
	DateTo    time.Time
	Limit     int
	Offset    int
}

// IQuotationRepository abstracts DynamoDB persistence for Quotation.
//
// Every write after Create is conditional on expectedVersion (optimistic
// concurrency); a mismatch is reported as ErrVersionConflict and the stored
// version is bumped by one on success.
type IQuotationRepository interface {
	Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	GetByID(ctx context.Context, id string) (entities.Quotation, error)
	Update(ctx context.Context, q entities.Quotation, expectedVersion int64) (entities.Quotation, error)
	// SaveApproval stores the SOLD quotation and the outbox record in a single transaction.
	SaveApproval(ctx context.Context, q entities.Quotation, expectedVersion int64, outbox entities.OutboxRecord) (entities.Quotation, error)
	List(ctx context.Context, filter QuotationFilter) ([]entities.Quotation, error)
}
