package bookings

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StorageKey is the single key under which the whole booking list is stored.
const StorageKey = "book-data"

var tracer = otel.Tracer("github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/bookings")

// Store keeps the booking list as one JSON array in a KV backend.
//
// Every mutation reads the full list and writes it back. Two concurrent
// mutations can therefore lose one of the updates.
type Store struct {
	kv     storage.KV
	logger *slog.Logger
}

func NewStore(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// List returns all bookings in insertion order. Missing, unreadable or corrupt
// data yields an empty list.
func (s *Store) List(ctx context.Context) []model.Booking {
	ctx, span := tracer.Start(ctx, "bookings.List")
	defer span.End()

	list, err := s.read(ctx)
	if err != nil {
		recordErr(span, err)
		s.logger.Warn("read bookings failed", "err", err)
		return []model.Booking{}
	}
	span.SetAttributes(attribute.Int("bookings.count", len(list)))
	return list
}

// Add appends b to the stored list. A backend read failure aborts without
// writing; corrupt data is replaced.
func (s *Store) Add(ctx context.Context, b model.Booking) (bool, error) {
	ctx, span := tracer.Start(ctx, "bookings.Add", trace.WithAttributes(
		attribute.String("booking.id", b.ID),
		attribute.String("booking.doctor", b.DoctorName),
	))
	defer span.End()

	list, err := s.read(ctx)
	if err != nil {
		recordErr(span, err)
		return false, err
	}
	list = append(list, b)
	if err := s.write(ctx, list); err != nil {
		recordErr(span, err)
		return false, err
	}
	return true, nil
}

// RemoveByID drops every booking with the given id. If nothing has ever been
// stored, nothing is written.
func (s *Store) RemoveByID(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "bookings.RemoveByID", trace.WithAttributes(
		attribute.String("booking.id", id),
	))
	defer span.End()

	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		recordErr(span, err)
		return fmt.Errorf("get %s: %w", StorageKey, err)
	}
	if !found {
		return nil
	}

	list := s.decode(raw)
	kept := make([]model.Booking, 0, len(list))
	for _, b := range list {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if err := s.write(ctx, kept); err != nil {
		recordErr(span, err)
		return err
	}
	return nil
}

// BookedSlotKeys returns the slot keys already booked for doctorName.
func (s *Store) BookedSlotKeys(ctx context.Context, doctorName string) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, b := range s.List(ctx) {
		if b.DoctorName != doctorName {
			continue
		}
		keys[availability.BookedKey(b.BookingTime)] = struct{}{}
	}
	return keys
}

func (s *Store) read(ctx context.Context) ([]model.Booking, error) {
	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", StorageKey, err)
	}
	if !found {
		return []model.Booking{}, nil
	}
	return s.decode(raw), nil
}

func (s *Store) decode(raw string) []model.Booking {
	var list []model.Booking
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("stored bookings are not valid json; treating as empty", "err", err)
		return []model.Booking{}
	}
	if list == nil {
		return []model.Booking{}
	}
	return list
}

func (s *Store) write(ctx context.Context, list []model.Booking) error {
	raw, err := Encode(list)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("set %s: %w", StorageKey, err)
	}
	return nil
}

// Encode renders bookings as a compact JSON array without HTML escaping.
// An empty or nil list encodes as "[]".
func Encode(list []model.Booking) (string, error) {
	if list == nil {
		list = []model.Booking{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
