package interfaces

import (
	"context"

	"shama_quotations/internal/domain/entities"
)

//go:generate mockgen -source=outbox_repository_interface.go -destination=mocks/mock_outbox_repository.go -package=mock_interfaces

// IOutboxRepository reads and settles outbox records. Inserts happen inside
// IQuotationRepository.SaveApproval.
type IOutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]entities.OutboxRecord, error)
	MarkDispatched(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
