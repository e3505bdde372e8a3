package entities

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusDispatched OutboxStatus = "dispatched"
)

// OutboxRecord is an integration event committed together with the state
// change that produced it and relayed to the broker afterwards.
//
// Storage model (DynamoDB):
//   - PK: id ("<topic>#<aggregate id>")
//   - GSI (status-index): status
type OutboxRecord struct {
	ID           string
	Topic        string
	AggregateID  string
	Payload      json.RawMessage
	Status       OutboxStatus
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	DispatchedAt time.Time
}

func OutboxID(topic, aggregateID string) string {
	return topic + "#" + aggregateID
}

// NewApprovedOutboxRecord serializes the event into a pending outbox record.
func NewApprovedOutboxRecord(event ApprovedEvent, now time.Time) (OutboxRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxRecord{}, err
	}
	return OutboxRecord{
		ID:          event.MessageID(),
		Topic:       TopicQuotationApproved,
		AggregateID: event.QuotationID,
		Payload:     payload,
		Status:      OutboxStatusPending,
		CreatedAt:   now.UTC(),
	}, nil
}
