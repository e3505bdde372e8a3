package natsjs

import (
	"context"
	"fmt"
	"log"

	"shama_quotations/internal/usecase/interfaces"

	"github.com/nats-io/nats.go"
)

// Publisher publishes integration events to JetStream. The message id is
// sent as Nats-Msg-Id so the stream drops duplicates inside its window.
type Publisher struct {
	js nats.JetStreamContext
}

var _ interfaces.IEventPublisher = (*Publisher)(nil)

func NewPublisher(js nats.JetStreamContext) *Publisher {
	return &Publisher{js: js}
}

// Publish returns once the stream acknowledged the message.
func (p *Publisher) Publish(ctx context.Context, topic, messageID string, payload []byte) error {
	msg := nats.NewMsg(topic)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")

	ack, err := p.js.PublishMsg(msg, nats.Context(ctx), nats.MsgId(messageID))
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	if ack.Duplicate {
		log.Printf("[events][nats] duplicate publish ignored by stream subject=%s msg_id=%s", topic, messageID)
	}
	return nil
}
