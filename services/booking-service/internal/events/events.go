package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/doctorbook/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

const (
	TypeBookingCreated   = "booking.created.v1"
	TypeBookingCancelled = "booking.cancelled.v1"
)

// Event is a booking lifecycle notification. Key is used as the Kafka message key.
type Event struct {
	ID      string
	Type    string
	Key     string
	Payload any
}

// New stamps an event with a fresh id.
func New(eventType, key string, payload any) Event {
	return Event{ID: uuid.NewString(), Type: eventType, Key: key, Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event to the topic named after its type.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher returns Noop when brokers is empty.
func NewKafkaPublisher(brokers string, logger *slog.Logger) Publisher {
	list := kafkax.SplitBrokers(brokers)
	if len(list) == 0 {
		return Noop{}
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(list...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}
	meta := kafkax.EventMeta{EventID: evt.ID, EventType: evt.Type}
	msg := kafka.Message{
		Topic:   evt.Type,
		Key:     []byte(evt.Key),
		Value:   value,
		Headers: kafkax.InjectTraceHeaders(ctx, meta.Headers()),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("event published", "event_id", evt.ID, "event_type", evt.Type)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
