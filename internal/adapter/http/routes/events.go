package routes

import (
	"context"
	"fmt"
	"log"

	"shama_quotations/internal/adapter/messaging"
	"shama_quotations/internal/adapter/messaging/natsjs"
	"shama_quotations/internal/adapter/messaging/rabbitmq"
	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/infrastructure/broker"
	"shama_quotations/internal/usecase/interfaces"
)

const (
	brokerNATS     = "nats"
	brokerRabbitMQ = "rabbitmq"
)

func eventBroker() string {
	return getenvDefault("EVENT_BROKER", brokerNATS)
}

// connectEventPublisher returns the publisher for EVENT_BROKER and a func
// releasing its connection.
func connectEventPublisher(clientName string) (interfaces.IEventPublisher, func(), error) {
	switch b := eventBroker(); b {
	case brokerNATS:
		nc, js, err := broker.ConnectNATS(clientName, entities.TopicQuotationApproved)
		if err != nil {
			return nil, nil, err
		}
		return natsjs.NewPublisher(js), func() { nc.Drain() }, nil
	case brokerRabbitMQ:
		mq, err := broker.SetupRabbitMQ()
		if err != nil {
			return nil, nil, err
		}
		pub, err := rabbitmq.NewPublisher(mq.Conn, mq.Exchange)
		if err != nil {
			mq.Close()
			return nil, nil, err
		}
		return pub, func() {
			pub.Close()
			mq.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown EVENT_BROKER %q", b)
	}
}

// startApprovedEventConsumer subscribes handler to quotation.approved on
// EVENT_BROKER. The returned func stops the consumer and closes the connection.
func startApprovedEventConsumer(ctx context.Context, clientName string, handler messaging.Handler) (func(), error) {
	switch b := eventBroker(); b {
	case brokerNATS:
		nc, js, err := broker.ConnectNATS(clientName, entities.TopicQuotationApproved)
		if err != nil {
			return nil, err
		}
		consumer := natsjs.NewConsumer(js, natsjs.ConsumerConfig{
			Subject:    entities.TopicQuotationApproved,
			Durable:    getenvDefault("NATS_DURABLE", "inventory-stock-reconciler"),
			MaxDeliver: getenvInt("EVENT_MAX_DELIVER", natsjs.DefaultMaxDeliver),
		}, handler)
		if err := consumer.Start(ctx); err != nil {
			nc.Close()
			return nil, err
		}
		return func() {
			if err := consumer.Stop(); err != nil {
				log.Printf("[events][nats] stop consumer failed err=%v", err)
			}
			nc.Drain()
		}, nil
	case brokerRabbitMQ:
		mq, err := broker.SetupRabbitMQ()
		if err != nil {
			return nil, err
		}
		consumer := rabbitmq.NewConsumer(mq.Conn, rabbitmq.ConsumerConfig{
			Queue:              getenvDefault("RABBITMQ_QUEUE", "inventory.quotation-approved"),
			RoutingKey:         entities.TopicQuotationApproved,
			Exchange:           mq.Exchange,
			DeadLetterExchange: getenvDefault("RABBITMQ_DLX", ""),
			DeadLetterQueue:    getenvDefault("RABBITMQ_DLQ", ""),
			DeliveryLimit:      getenvInt("EVENT_MAX_DELIVER", rabbitmq.DefaultDeliveryLimit),
		}, handler)
		if err := consumer.Start(ctx); err != nil {
			mq.Close()
			return nil, err
		}
		return func() {
			if err := consumer.Stop(); err != nil {
				log.Printf("[events][rabbitmq] stop consumer failed err=%v", err)
			}
			mq.Close()
		}, nil
	default:
		return nil, fmt.Errorf("unknown EVENT_BROKER %q", b)
	}
}
