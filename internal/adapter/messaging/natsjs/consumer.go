package natsjs

import (
	"context"
	"fmt"
	"log"
	"time"

	"shama_quotations/internal/adapter/messaging"

	"github.com/nats-io/nats.go"
)

const (
	DefaultAckWait    = 30 * time.Second
	DefaultMaxDeliver = 10
)

type ConsumerConfig struct {
	Subject    string
	Durable    string
	AckWait    time.Duration
	MaxDeliver int
}

// Consumer is a durable, manually acknowledged JetStream queue subscription.
// Instances sharing Durable split the deliveries.
type Consumer struct {
	js      nats.JetStreamContext
	cfg     ConsumerConfig
	handler messaging.Handler
	sub     *nats.Subscription
}

func NewConsumer(js nats.JetStreamContext, cfg ConsumerConfig, handler messaging.Handler) *Consumer {
	if cfg.AckWait <= 0 {
		cfg.AckWait = DefaultAckWait
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = DefaultMaxDeliver
	}
	return &Consumer{js: js, cfg: cfg, handler: handler}
}

// Start subscribes; messages are handled until ctx is done or Stop is called.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.js.QueueSubscribe(c.cfg.Subject, c.cfg.Durable, func(msg *nats.Msg) {
		c.handle(ctx, msg)
	},
		nats.Durable(c.cfg.Durable),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.AckWait(c.cfg.AckWait),
		nats.MaxDeliver(c.cfg.MaxDeliver),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.cfg.Subject, err)
	}
	c.sub = sub
	log.Printf("[events][nats] consumer started subject=%s durable=%s", c.cfg.Subject, c.cfg.Durable)
	return nil
}

// Stop drains the subscription so in-flight messages finish.
func (c *Consumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	return c.sub.Drain()
}

func (c *Consumer) handle(ctx context.Context, msg *nats.Msg) {
	if ctx.Err() != nil {
		// Not acked: redelivered after AckWait.
		return
	}
	attempt := 1
	if meta, err := msg.Metadata(); err == nil {
		attempt = int(meta.NumDelivered)
	}

	hctx, cancel := context.WithTimeout(ctx, c.cfg.AckWait)
	defer cancel()
	err := c.handler(hctx, msg.Data)

	settle(msg, messaging.Decide(err), attempt, c.cfg.MaxDeliver, err)
}

// ackable is the part of *nats.Msg used to settle a delivery.
type ackable interface {
	Ack(opts ...nats.AckOpt) error
	NakWithDelay(delay time.Duration, opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

func settle(msg ackable, d messaging.Disposition, attempt, maxDeliver int, cause error) {
	var err error
	switch d {
	case messaging.Ack:
		err = msg.Ack()
	case messaging.Discard:
		log.Printf("[events][nats] message rejected attempt=%d err=%v", attempt, cause)
		err = msg.Term()
	default:
		if attempt >= maxDeliver {
			log.Printf("[events][nats] delivery limit reached, message left in stream attempt=%d err=%v", attempt, cause)
		} else {
			log.Printf("[events][nats] processing failed, will retry attempt=%d err=%v", attempt, cause)
		}
		err = msg.NakWithDelay(messaging.RetryDelay(attempt))
	}
	if err != nil {
		log.Printf("[events][nats] settle failed disposition=%s err=%v", d, err)
	}
}
