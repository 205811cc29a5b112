package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sequence"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	o := order.New(order.Params{ID: 42, UserID: 7})
	_, err := o.AddProduct(1, "Smartphone", "PHONE-001", 2, decimal.RequireFromString("699.99"))
	require.NoError(t, err)
	return o
}

func TestPublisher_PublishOrderCreated(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, sequence.NewMemory(), PublisherOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"storefront.events:topic"}, ch.declared)

	o := sampleOrder(t)
	meta := EnvelopeMetadata{CorrelationID: "corr-1"}
	require.NoError(t, p.PublishOrderCreated(context.Background(), o, meta))
	require.NoError(t, p.PublishOrderCreated(context.Background(), o, meta))

	require.Len(t, ch.published, 2)
	first := ch.published[0]
	assert.Equal(t, DefaultExchange, first.exchange)
	assert.Equal(t, OrderCreatedRoutingKey, first.key)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)

	var env OrderCreatedEnvelope
	require.NoError(t, json.Unmarshal(first.msg.Body, &env))
	require.NoError(t, env.Validate("OrderCreated", 1))
	assert.Equal(t, "corr-1", env.CorrelationID)
	assert.Equal(t, "storefront-api", env.Producer)
	assert.Equal(t, "order-42", env.PartitionKey)
	assert.Equal(t, "contracts/events/order/OrderCreated.v1.payload.schema.json", env.Schema)
	require.NotNil(t, env.Sequence)
	assert.Equal(t, int64(1), *env.Sequence)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, int64(42), env.Payload.OrderID)
	assert.Equal(t, order.StatusPending, env.Payload.Status)
	assert.Equal(t, 2, env.Payload.TotalItems)
	assert.True(t, env.Payload.TotalAmount.Equal(decimal.RequireFromString("1399.98")))
	require.Len(t, env.Payload.Items, 1)
	assert.Equal(t, "PHONE-001", env.Payload.Items[0].ProductSKU)

	var second OrderCreatedEnvelope
	require.NoError(t, json.Unmarshal(ch.published[1].msg.Body, &second))
	assert.Equal(t, int64(2), *second.Sequence, "sequence grows per partition")
	assert.NotEqual(t, env.EventID, second.EventID)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishOrderStatusChanged(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, sequence.NewMemory(), PublisherOptions{Exchange: "custom", Producer: "test"})
	require.NoError(t, err)

	require.NoError(t, p.PublishOrderStatusChanged(context.Background(), 9, order.StatusPending, order.StatusConfirmed, EnvelopeMetadata{}))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "custom", ch.published[0].exchange)
	assert.Equal(t, OrderStatusChangedRoutingKey, ch.published[0].key)

	var env OrderStatusChangedEnvelope
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &env))
	require.NoError(t, env.Validate("OrderStatusChanged", 1))
	assert.NotEmpty(t, env.CorrelationID, "a correlation id is generated when none is given")
	assert.Equal(t, "test", env.Producer)
	assert.Equal(t, order.StatusConfirmed, env.Payload.To)
}

func TestPublisher_Errors(t *testing.T) {
	_, err := NewChannelPublisher(&fakeChannel{declareErr: errors.New("no access")}, sequence.NewMemory(), PublisherOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare events exchange")

	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := NewChannelPublisher(ch, sequence.NewMemory(), PublisherOptions{})
	require.NoError(t, err)
	assert.EqualError(t, p.PublishOrderCreated(context.Background(), sampleOrder(t), EnvelopeMetadata{}), "channel closed")
}

func TestEnvelope_Validate(t *testing.T) {
	env := EventEnvelope[struct{}]{EventName: "OrderCreated", EventVersion: 1, PartitionKey: "order-1"}
	assert.NoError(t, env.Validate("OrderCreated", 1))
	assert.ErrorIs(t, env.Validate("OrderCreated", 2), ErrEnvelopeMismatch)
	assert.ErrorIs(t, env.Validate("Other", 1), ErrEnvelopeMismatch)

	env.PartitionKey = ""
	assert.ErrorIs(t, env.Validate("OrderCreated", 1), ErrEnvelopeMismatch)
}

func TestNoopPublisher(t *testing.T) {
	var p OrderPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishOrderCreated(context.Background(), sampleOrder(t), EnvelopeMetadata{}))
	assert.NoError(t, p.PublishOrderStatusChanged(context.Background(), 1, order.StatusPending, order.StatusCancelled, EnvelopeMetadata{}))
}
