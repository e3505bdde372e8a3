package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shama_quotations/internal/adapter/messaging"
	"shama_quotations/internal/infrastructure/broker"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeDelivery struct {
	acks, nacks int
	requeue     bool
}

func (d *fakeDelivery) Ack(bool) error { d.acks++; return nil }
func (d *fakeDelivery) Nack(_, requeue bool) error {
	d.nacks++
	d.requeue = requeue
	return nil
}

func TestSettle(t *testing.T) {
	t.Run("ack", func(t *testing.T) {
		d := &fakeDelivery{}
		settle(d, messaging.Ack, "m-1", 1, 5, nil)
		if d.acks != 1 || d.nacks != 0 {
			t.Fatalf("expected ack, got %+v", d)
		}
	})

	t.Run("discard is dead-lettered", func(t *testing.T) {
		d := &fakeDelivery{}
		settle(d, messaging.Discard, "m-1", 1, 5, messaging.ErrMalformedMessage)
		if d.nacks != 1 || d.requeue {
			t.Fatalf("expected nack without requeue, got %+v", d)
		}
	})

	t.Run("retry below the limit requeues", func(t *testing.T) {
		d := &fakeDelivery{}
		settle(d, messaging.Retry, "m-1", 4, 5, errors.New("throttled"))
		if d.nacks != 1 || !d.requeue {
			t.Fatalf("expected nack with requeue, got %+v", d)
		}
	})

	t.Run("last attempt is dead-lettered", func(t *testing.T) {
		d := &fakeDelivery{}
		settle(d, messaging.Retry, "m-1", 5, 5, errors.New("throttled"))
		if d.nacks != 1 || d.requeue {
			t.Fatalf("expected nack without requeue, got %+v", d)
		}
	})
}

func TestDeliveryAttempt(t *testing.T) {
	cases := []struct {
		name    string
		headers amqp.Table
		want    int
	}{
		{"first delivery", nil, 1},
		{"int64 count", amqp.Table{"x-delivery-count": int64(2)}, 3},
		{"int32 count", amqp.Table{"x-delivery-count": int32(4)}, 5},
		{"unexpected type", amqp.Table{"x-delivery-count": "7"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deliveryAttempt(tc.headers); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestNewConsumer_DeadLetterTopology(t *testing.T) {
	c := NewConsumer(nil, ConsumerConfig{Queue: "inventory.approved", Exchange: "quotations"}, nil)
	if c.cfg.DeadLetterExchange != "inventory.approved.dlx" || c.cfg.DeadLetterQueue != "inventory.approved.dlq" {
		t.Fatalf("unexpected dead-letter names %+v", c.cfg)
	}

	args := queueArgs(c.cfg)
	if args["x-dead-letter-exchange"] != "inventory.approved.dlx" {
		t.Fatalf("main queue is not dead-lettered: %+v", args)
	}
	if args["x-delivery-limit"] != int32(DefaultDeliveryLimit) || args["x-queue-type"] != "quorum" {
		t.Fatalf("unexpected queue args %+v", args)
	}

	c = NewConsumer(nil, ConsumerConfig{Queue: "q", DeadLetterExchange: "dlx", DeadLetterQueue: "dlq"}, nil)
	if c.cfg.DeadLetterExchange != "dlx" || c.cfg.DeadLetterQueue != "dlq" {
		t.Fatalf("explicit names overridden %+v", c.cfg)
	}
}

func TestWait(t *testing.T) {
	if !wait(context.Background(), time.Millisecond) {
		t.Fatalf("expected the delay to elapse")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if wait(ctx, time.Minute) {
		t.Fatalf("expected cancellation")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("wait ignored cancellation")
	}
}

// Integration test; skipped when RabbitMQ is not reachable.
func TestPublisherConsumer_Roundtrip(t *testing.T) {
	mq, err := broker.SetupRabbitMQ()
	if err != nil {
		t.Skip("RabbitMQ not available, skipping integration test")
		return
	}
	defer mq.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	routingKey := fmt.Sprintf("test.approved.%d", time.Now().UnixNano())
	received := make(chan string, 1)
	consumer := NewConsumer(mq.Conn, ConsumerConfig{
		Queue:      routingKey,
		RoutingKey: routingKey,
		Exchange:   mq.Exchange,
	}, func(_ context.Context, body []byte) error {
		received <- string(body)
		return nil
	})
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("failed to start consumer: %v", err)
	}
	defer consumer.Stop()

	pub, err := NewPublisher(mq.Conn, mq.Exchange)
	if err != nil {
		t.Fatalf("failed to create publisher: %v", err)
	}
	defer pub.Close()

	payload := `{"quotationId":"q-1"}`
	if err := pub.Publish(ctx, routingKey, "quotation.approved#q-1", []byte(payload)); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	select {
	case body := <-received:
		if body != payload {
			t.Errorf("unexpected body %s", body)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
