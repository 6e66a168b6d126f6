package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/livesale/backend/internal/domain/sales"
	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaEventPublisher(writer, zap.NewNop())
	fixed := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	orderID := uuid.New()
	first := sales.NewSaleRecordedEvent(orderID, uuid.New(), 2, decimal.RequireFromString("49.90"), true)
	second := sales.NewSaleRecordedEvent(orderID, uuid.New(), 1, decimal.RequireFromString("10.00"), false)

	require.NoError(t, publisher.Publish(context.Background(), first, second))
	require.Len(t, writer.msgs, 2)

	msg := writer.msgs[0]
	assert.Equal(t, orderID.String(), string(msg.Key))
	assert.Equal(t, string(writer.msgs[0].Key), string(writer.msgs[1].Key))
	assert.Equal(t, fixed, msg.Time)
	assert.Contains(t, string(msg.Value), `"subtotal":"99.8"`)
	assert.Contains(t, string(msg.Value), `"type":"sales.sale.recorded"`)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, sales.EventTypeSaleRecorded, headers[HeaderEventType])
	assert.Equal(t, sales.AggregateTypeOrder, headers[HeaderAggregateType])

	decoded, err := publisher.serializer.Deserialize(headers[HeaderEventType], msg.Value)
	require.NoError(t, err)
	assert.Equal(t, first.EventID(), decoded.EventID())
}

func TestKafkaEventPublisher_NoEvents(t *testing.T) {
	writer := &recordingWriter{err: errors.New("must not be called")}
	publisher := newKafkaEventPublisher(writer, nil)

	assert.NoError(t, publisher.Publish(context.Background()))
}

func TestKafkaEventPublisher_WriteError(t *testing.T) {
	writer := &recordingWriter{err: kafka.LeaderNotAvailable}
	publisher := newKafkaEventPublisher(writer, zap.NewNop())

	err := publisher.Publish(context.Background(), sales.NewSaleRecordedEvent(uuid.New(), uuid.New(), 1, decimal.NewFromInt(5), true))

	require.Error(t, err)
	assert.ErrorIs(t, err, kafka.LeaderNotAvailable)
}

func TestKafkaEventPublisher_Close(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaEventPublisher(writer, zap.NewNop())

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestNewKafkaEventPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaEventPublisher(config.EventsConfig{Backend: "kafka", Topic: "livesale.events"}, zap.NewNop())
	assert.Error(t, err)

	publisher, err := NewKafkaEventPublisher(config.EventsConfig{
		Backend: "kafka",
		Brokers: []string{"localhost:9092"},
		Topic:   "livesale.events",
	}, zap.NewNop())
	require.NoError(t, err)

	writer, ok := publisher.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "livesale.events", writer.Topic)
	assert.IsType(t, &kafka.Hash{}, writer.Balancer)
	require.NoError(t, publisher.Close())
}
