package usecase

import (
	"context"
	"log"
	"time"

	"shama_quotations/internal/usecase/interfaces"
)

const (
	DefaultOutboxRelayInterval = 5 * time.Second
	DefaultOutboxRelayBatch    = 50
)

// OutboxRelayUseCase publishes outbox records that were committed but not
// confirmed as published (broker down, process crash after commit).
type OutboxRelayUseCase struct {
	outbox    interfaces.IOutboxRepository
	publisher interfaces.IEventPublisher
	interval  time.Duration
	batch     int
}

func NewOutboxRelayUseCase(outbox interfaces.IOutboxRepository, publisher interfaces.IEventPublisher, interval time.Duration, batch int) *OutboxRelayUseCase {
	if interval <= 0 {
		interval = DefaultOutboxRelayInterval
	}
	if batch <= 0 {
		batch = DefaultOutboxRelayBatch
	}
	return &OutboxRelayUseCase{outbox: outbox, publisher: publisher, interval: interval, batch: batch}
}

// RelayPending publishes one batch and returns how many records were dispatched.
func (u *OutboxRelayUseCase) RelayPending(ctx context.Context) (int, error) {
	records, err := u.outbox.ListPending(ctx, u.batch)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return dispatched, ctx.Err()
		}
		if err := u.publisher.Publish(ctx, rec.Topic, rec.ID, rec.Payload); err != nil {
			log.Printf("[outbox][relay] publish failed outbox_id=%s attempts=%d err=%v", rec.ID, rec.Attempts+1, err)
			if mErr := u.outbox.MarkFailed(ctx, rec.ID, err.Error()); mErr != nil {
				log.Printf("[outbox][relay] mark failed error outbox_id=%s err=%v", rec.ID, mErr)
			}
			continue
		}
		if err := u.outbox.MarkDispatched(ctx, rec.ID); err != nil {
			log.Printf("[outbox][relay] mark dispatched error outbox_id=%s err=%v", rec.ID, err)
			continue
		}
		dispatched++
	}
	if dispatched > 0 {
		log.Printf("[outbox][relay] dispatched=%d pending=%d", dispatched, len(records))
	}
	return dispatched, nil
}

// Run relays on every tick until ctx is done.
func (u *OutboxRelayUseCase) Run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := u.RelayPending(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[outbox][relay] relay failed err=%v", err)
		}
	}
}
