package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shama_quotations/internal/usecase/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes persistent messages on the topic exchange with
// publisher confirms; Publish returns after the broker confirmed.
type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

var _ interfaces.IEventPublisher = (*Publisher)(nil)

func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("could not open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("could not enable publisher confirms: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, topic, messageID string, payload []byte) error {
	p.mu.Lock()
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		p.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Type:         topic,
			Body:         payload,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish %s: waiting for confirm: %w", topic, err)
	}
	if !ok {
		return fmt.Errorf("publish %s: broker nacked message %s", topic, messageID)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}
