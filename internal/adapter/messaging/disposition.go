package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase"
)

var ErrMalformedMessage = errors.New("malformed message")

// Handler processes one delivered message body.
type Handler func(ctx context.Context, body []byte) error

// Disposition is what the broker adapter does with a delivery once the
// handler returned.
type Disposition int

const (
	// Ack removes the message.
	Ack Disposition = iota
	// Retry asks the broker to redeliver.
	Retry
	// Discard rejects the message for good. Used for messages that can never
	// succeed; they are logged, not dropped silently.
	Discard
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Retry:
		return "retry"
	case Discard:
		return "discard"
	}
	return "unknown"
}

// Decide maps a handler result to a disposition.
func Decide(err error) Disposition {
	switch {
	case err == nil:
		return Ack
	case errors.Is(err, ErrMalformedMessage), errors.Is(err, entities.ErrInvalidApprovedEvent):
		return Discard
	default:
		return Retry
	}
}

const (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

// RetryDelay is an exponential backoff on the delivery attempt (1-based).
func RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return delay
}

// DecodeApprovedEvent parses a quotation.approved payload.
func DecodeApprovedEvent(body []byte) (entities.ApprovedEvent, error) {
	var event entities.ApprovedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return entities.ApprovedEvent{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return event, nil
}

// NewApprovedEventHandler feeds decoded quotation.approved events to the
// stock reconciler.
func NewApprovedEventHandler(reconciler usecase.IStockReconcilerUseCase) Handler {
	return func(ctx context.Context, body []byte) error {
		event, err := DecodeApprovedEvent(body)
		if err != nil {
			log.Printf("[stock][consumer] decode failed body_len=%d err=%v", len(body), err)
			return err
		}
		return reconciler.OnApprovedEvent(ctx, event)
	}
}
