package events

import (
	"context"
	"errors"
	"testing"

	"github.com/md-rashed-zaman/doctorbook/libs/kafkax"
	"github.com/md-rashed-zaman/doctorbook/libs/runtime"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestNewKafkaPublisher_NoBrokersIsNoop(t *testing.T) {
	if _, ok := NewKafkaPublisher(" , ", runtime.DiscardLogger()).(Noop); !ok {
		t.Fatalf("expected Noop publisher without brokers")
	}
	if _, ok := NewKafkaPublisher("kafka:9092", runtime.DiscardLogger()).(*KafkaPublisher); !ok {
		t.Fatalf("expected KafkaPublisher with brokers")
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, logger: runtime.DiscardLogger()}

	evt := New(TypeBookingCreated, "Dr. A", map[string]string{"id": "b1"})
	if evt.ID == "" {
		t.Fatalf("expected generated event id")
	}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != TypeBookingCreated || string(msg.Key) != "Dr. A" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if string(msg.Value) != `{"id":"b1"}` {
		t.Fatalf("unexpected value %s", msg.Value)
	}
	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventID != evt.ID || meta.EventType != TypeBookingCreated {
		t.Fatalf("unexpected headers %+v", meta)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &KafkaPublisher{writer: w, logger: runtime.DiscardLogger()}
	if err := p.Publish(context.Background(), New(TypeBookingCancelled, "x", nil)); !errors.Is(err, w.err) {
		t.Fatalf("expected write error, got %v", err)
	}
}
