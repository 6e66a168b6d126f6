package event

import (
	"context"
	"fmt"
	"time"

	"github.com/livesale/backend/internal/domain/shared"
	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Header keys set on every published message
const (
	HeaderEventType     = "event-type"
	HeaderAggregateType = "aggregate-type"
)

// messageWriter is the part of *kafka.Writer the publisher depends on
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher writes domain events to a Kafka topic as JSON.
// Messages are keyed by aggregate ID so all events of one order land on the same partition.
type KafkaEventPublisher struct {
	writer     messageWriter
	serializer *EventSerializer
	logger     *zap.Logger
	now        func() time.Time
}

// NewKafkaEventPublisher creates a publisher writing to cfg.Topic on cfg.Brokers
func NewKafkaEventPublisher(cfg config.EventsConfig, logger *zap.Logger) (*KafkaEventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaEventPublisher(writer, logger), nil
}

func newKafkaEventPublisher(writer messageWriter, logger *zap.Logger) *KafkaEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	serializer := NewEventSerializer()
	RegisterSalesEvents(serializer)
	return &KafkaEventPublisher{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Publish writes all events in a single batch
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := p.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", event.EventType(), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.AggregateID().String()),
			Value: value,
			Time:  p.now(),
			Headers: []kafka.Header{
				{Key: HeaderEventType, Value: []byte(event.EventType())},
				{Key: HeaderAggregateType, Value: []byte(event.AggregateType())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d events to kafka: %w", len(msgs), err)
	}
	p.logger.Debug("events published to kafka", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

var _ shared.EventPublisher = (*KafkaEventPublisher)(nil)
