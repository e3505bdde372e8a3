package interfaces

import (
	"context"

	"shama_quotations/internal/domain/entities"
)

//go:generate mockgen -source=stock_ledger_interface.go -destination=mocks/mock_stock_ledger.go -package=mock_interfaces

// IStockLedger applies stock decrements guarded by the processed-events ledger.
//
// ApplyOnce must be all-or-nothing: either every adjustment and the ledger
// record are stored, or nothing is. It returns ErrEventAlreadyProcessed when
// the ledger already holds the record, entities.ErrInsufficientStock or
// ErrProductNotFound when an adjustment cannot be applied.
type IStockLedger interface {
	IsProcessed(ctx context.Context, eventID, eventType string) (bool, error)
	ApplyOnce(ctx context.Context, record entities.ProcessedEvent, adjustments []entities.StockAdjustment) error
}
