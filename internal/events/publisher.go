package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sequence"
)

// OrderPublisher emits order lifecycle events.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order, meta EnvelopeMetadata) error
	PublishOrderStatusChanged(ctx context.Context, orderID int64, from, to order.Status, meta EnvelopeMetadata) error
}

type Publisher struct {
	ch       Channel
	seqRepo  sequence.Repository
	exchange string
	producer string
}

type PublisherOptions struct {
	Exchange string
	Producer string
}

// NewPublisher opens a channel on conn and declares the events exchange.
func NewPublisher(conn *amqp.Connection, seqRepo sequence.Repository, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewChannelPublisher(ch, seqRepo, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func NewChannelPublisher(ch Channel, seqRepo sequence.Repository, opts PublisherOptions) (*Publisher, error) {
	if opts.Exchange == "" {
		opts.Exchange = DefaultExchange
	}
	if opts.Producer == "" {
		opts.Producer = defaultProducer
	}
	if err := declareEventsExchange(ch, opts.Exchange); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &Publisher{ch: ch, seqRepo: seqRepo, exchange: opts.Exchange, producer: opts.Producer}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order, meta EnvelopeMetadata) error {
	seq, err := p.seqRepo.NextSequence(ctx, PartitionKey(o.ID()))
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	body, err := json.Marshal(BuildOrderCreatedEnvelope(o, seq, p.producer, meta))
	if err != nil {
		return fmt.Errorf("marshal OrderCreated envelope: %w", err)
	}
	return p.publishJSON(ctx, OrderCreatedRoutingKey, body)
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, orderID int64, from, to order.Status, meta EnvelopeMetadata) error {
	seq, err := p.seqRepo.NextSequence(ctx, PartitionKey(orderID))
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	body, err := json.Marshal(BuildOrderStatusChangedEnvelope(orderID, from, to, seq, p.producer, meta))
	if err != nil {
		return fmt.Errorf("marshal OrderStatusChanged envelope: %w", err)
	}
	return p.publishJSON(ctx, OrderStatusChangedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *order.Order, EnvelopeMetadata) error {
	return nil
}

func (NoopPublisher) PublishOrderStatusChanged(context.Context, int64, order.Status, order.Status, EnvelopeMetadata) error {
	return nil
}
