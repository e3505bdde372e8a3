package usecase

//go:generate mockgen -source=stock_reconciler_usecase.go -destination=../adapter/messaging/mocks/mock_stock_reconciler_usecase.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase/interfaces"
)

var ErrInvalidApprovedEvent = entities.ErrInvalidApprovedEvent

// IStockReconcilerUseCase applies the inventory effect of quotation.approved.
//
// Delivery is at-least-once: the same event may arrive any number of times,
// in any order relative to other quotations. The effect is applied once.
type IStockReconcilerUseCase interface {
	OnApprovedEvent(ctx context.Context, event entities.ApprovedEvent) error
}

type StockReconcilerUseCase struct {
	ledger interfaces.IStockLedger
	now    func() time.Time
}

var _ IStockReconcilerUseCase = (*StockReconcilerUseCase)(nil)

func NewStockReconcilerUseCase(ledger interfaces.IStockLedger) *StockReconcilerUseCase {
	return &StockReconcilerUseCase{
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OnApprovedEvent returns nil for duplicates. Any other error means nothing
// was applied and the delivery must be retried (or rejected when the event
// itself is invalid).
func (u *StockReconcilerUseCase) OnApprovedEvent(ctx context.Context, event entities.ApprovedEvent) error {
	if err := event.Validate(); err != nil {
		log.Printf("[stock][reconciler] invalid event quotation_id=%q err=%v", event.QuotationID, err)
		return err
	}
	eventID := event.EventID()

	processed, err := u.ledger.IsProcessed(ctx, eventID, entities.TopicQuotationApproved)
	if err != nil {
		log.Printf("[stock][reconciler] ledger lookup failed event_id=%s err=%v", eventID, err)
		return fmt.Errorf("ledger lookup: %w", err)
	}
	if processed {
		log.Printf("[stock][reconciler] event already processed, skipping event_id=%s", eventID)
		return nil
	}

	adjustments := event.StockAdjustments()
	record := entities.ProcessedEvent{
		EventID:     eventID,
		EventType:   entities.TopicQuotationApproved,
		ProcessedAt: u.now(),
	}
	log.Printf("[stock][reconciler] applying event_id=%s products=%d", eventID, len(adjustments))

	if err := u.ledger.ApplyOnce(ctx, record, adjustments); err != nil {
		if errors.Is(err, interfaces.ErrEventAlreadyProcessed) {
			log.Printf("[stock][reconciler] event applied by a concurrent delivery event_id=%s", eventID)
			return nil
		}
		log.Printf("[stock][reconciler] apply failed event_id=%s err=%v", eventID, err)
		return err
	}
	log.Printf("[stock][reconciler] applied event_id=%s products=%d", eventID, len(adjustments))
	return nil
}
