package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange              = "storefront.events"
	OrderCreatedRoutingKey       = "order.created.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"
	defaultProducer              = "storefront-api"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

func declareEventsExchange(ch Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
