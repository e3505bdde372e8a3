package interfaces

import "context"

//go:generate mockgen -source=event_publisher_interface.go -destination=mocks/mock_event_publisher.go -package=mock_interfaces

// IEventPublisher emits a serialized event on a topic.
//
// messageID is stable across retries of the same fact so brokers that
// support it (NATS JetStream Nats-Msg-Id, AMQP message-id) can deduplicate.
type IEventPublisher interface {
	Publish(ctx context.Context, topic, messageID string, payload []byte) error
}
