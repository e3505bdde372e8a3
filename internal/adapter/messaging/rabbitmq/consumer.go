package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	"shama_quotations/internal/adapter/messaging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultPrefetch      = 16
	DefaultDeliveryLimit = 10

	handlerTimeout = 30 * time.Second
)

// ConsumerConfig names the queue topology. DeadLetterExchange and
// DeadLetterQueue default to Queue+".dlx" and Queue+".dlq".
type ConsumerConfig struct {
	Queue              string
	RoutingKey         string
	Exchange           string
	DeadLetterExchange string
	DeadLetterQueue    string
	Prefetch           int
	DeliveryLimit      int
}

// Consumer reads a durable quorum queue bound to the exchange with manual
// acks. Failed deliveries are requeued after messaging.RetryDelay and
// dead-lettered on the DeliveryLimit-th attempt. Rejected messages are
// dead-lettered at once.
type Consumer struct {
	conn    *amqp.Connection
	cfg     ConsumerConfig
	handler messaging.Handler
	ch      *amqp.Channel
	done    chan struct{}
}

func NewConsumer(conn *amqp.Connection, cfg ConsumerConfig, handler messaging.Handler) *Consumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = DefaultPrefetch
	}
	if cfg.DeliveryLimit <= 0 {
		cfg.DeliveryLimit = DefaultDeliveryLimit
	}
	if cfg.DeadLetterExchange == "" {
		cfg.DeadLetterExchange = cfg.Queue + ".dlx"
	}
	if cfg.DeadLetterQueue == "" {
		cfg.DeadLetterQueue = cfg.Queue + ".dlq"
	}
	return &Consumer{conn: conn, cfg: cfg, handler: handler, done: make(chan struct{})}
}

func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("could not open channel: %w", err)
	}

	if err := declareDeadLetter(ch, c.cfg); err != nil {
		ch.Close()
		return err
	}

	q, err := ch.QueueDeclare(
		c.cfg.Queue,      // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		queueArgs(c.cfg), // arguments
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("could not declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, c.cfg.RoutingKey, c.cfg.Exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("could not bind queue: %w", err)
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("could not set qos: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("could not start consume: %w", err)
	}
	c.ch = ch
	log.Printf("[events][rabbitmq] consumer started queue=%s routing_key=%s dlq=%s", q.Name, c.cfg.RoutingKey, c.cfg.DeadLetterQueue)

	go func() {
		defer close(c.done)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				c.handle(ctx, d)
			}
		}
	}()
	return nil
}

// Stop closes the channel; unacked deliveries return to the queue.
func (c *Consumer) Stop() error {
	if c.ch == nil {
		return nil
	}
	err := c.ch.Close()
	<-c.done
	return err
}

// declareDeadLetter sets up the fanout exchange and queue that receive
// rejected and exhausted deliveries.
func declareDeadLetter(ch *amqp.Channel, cfg ConsumerConfig) error {
	if err := ch.ExchangeDeclare(
		cfg.DeadLetterExchange, // name
		"fanout",               // type
		true,                   // durable
		false,                  // auto-deleted
		false,                  // internal
		false,                  // no-wait
		nil,                    // arguments
	); err != nil {
		return fmt.Errorf("could not declare dead-letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(
		cfg.DeadLetterQueue,                  // name
		true,                                 // durable
		false,                                // delete when unused
		false,                                // exclusive
		false,                                // no-wait
		amqp.Table{"x-queue-type": "quorum"}, // arguments
	); err != nil {
		return fmt.Errorf("could not declare dead-letter queue: %w", err)
	}
	if err := ch.QueueBind(cfg.DeadLetterQueue, "", cfg.DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("could not bind dead-letter queue: %w", err)
	}
	return nil
}

// queueArgs keeps x-delivery-limit as a broker-side backstop; settle
// dead-letters on the last attempt before the broker would.
func queueArgs(cfg ConsumerConfig) amqp.Table {
	return amqp.Table{
		"x-queue-type":           "quorum",
		"x-delivery-limit":       int32(cfg.DeliveryLimit),
		"x-dead-letter-exchange": cfg.DeadLetterExchange,
	}
}

// deliveryAttempt is 1-based. Quorum queues count earlier failed deliveries
// in x-delivery-count.
func deliveryAttempt(headers amqp.Table) int {
	switch n := headers["x-delivery-count"].(type) {
	case int64:
		return int(n) + 1
	case int32:
		return int(n) + 1
	case int:
		return n + 1
	}
	return 1
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	err := c.handler(hctx, d.Body)
	cancel()

	disp := messaging.Decide(err)
	attempt := deliveryAttempt(d.Headers)
	if disp == messaging.Retry && attempt < c.cfg.DeliveryLimit {
		wait(ctx, messaging.RetryDelay(attempt))
	}
	settle(&d, disp, d.MessageId, attempt, c.cfg.DeliveryLimit, err)
}

// wait sleeps for delay or until ctx is done.
func wait(ctx context.Context, delay time.Duration) bool {
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// acknowledger is the part of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func settle(d acknowledger, disp messaging.Disposition, messageID string, attempt, limit int, cause error) {
	var err error
	switch disp {
	case messaging.Ack:
		err = d.Ack(false)
	case messaging.Discard:
		log.Printf("[events][rabbitmq] message rejected, dead-lettered message_id=%s err=%v", messageID, cause)
		err = d.Nack(false, false)
	default:
		if attempt >= limit {
			log.Printf("[events][rabbitmq] delivery limit reached, dead-lettered message_id=%s attempt=%d err=%v", messageID, attempt, cause)
			err = d.Nack(false, false)
		} else {
			log.Printf("[events][rabbitmq] processing failed, requeued message_id=%s attempt=%d err=%v", messageID, attempt, cause)
			err = d.Nack(false, true)
		}
	}
	if err != nil {
		log.Printf("[events][rabbitmq] settle failed message_id=%s disposition=%s err=%v", messageID, disp, err)
	}
}
