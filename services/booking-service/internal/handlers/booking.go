package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/bookings"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/events"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/schedule"
	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/source"
)

var (
	errSlotUnavailable = errors.New("time slot is not available")
	errDoctorNotFound  = errors.New("doctor not found")
)

type BookingHandler struct {
	source    source.Fetcher
	store     *bookings.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	// writeMu makes the booked-slot check and the write one step within this process.
	writeMu sync.Mutex
}

func NewBookingHandler(src source.Fetcher, store *bookings.Store, publisher events.Publisher, logger *slog.Logger) *BookingHandler {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &BookingHandler{
		source:    src,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to decide which slots are past.
func (h *BookingHandler) WithClock(now func() time.Time) *BookingHandler {
	h.now = now
	return h
}

func (h *BookingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/doctors", h.Doctors)
	mux.HandleFunc("/api/v1/doctors/slots", h.Slots)
	mux.HandleFunc("/api/v1/bookings", h.Bookings)
	mux.HandleFunc("/api/v1/bookings/cancel", h.Cancel)
}

type createBookingRequest struct {
	ID         string `json:"id"`
	DoctorName string `json:"doctor_name"`
	SlotKey    string `json:"slot_key"`
}

type cancelBookingRequest struct {
	ID string `json:"id"`
}

type cancelBookingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type slotsResponse struct {
	Doctor   string            `json:"doctor"`
	Timezone string            `json:"timezone"`
	Day      string            `json:"day"`
	Days     []string          `json:"days"`
	Slots    []model.SlotState `json:"slots"`
}

type bookingEventPayload struct {
	ID          string `json:"id"`
	DoctorName  string `json:"doctor_name"`
	BookingTime string `json:"booking_time"`
}

func (h *BookingHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	groups, ok := h.loadSchedules(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doctorName := strings.TrimSpace(r.URL.Query().Get("doctor"))
	dayName := strings.TrimSpace(r.URL.Query().Get("day"))
	if doctorName == "" {
		http.Error(w, "doctor is required", http.StatusBadRequest)
		return
	}

	groups, ok := h.loadSchedules(w, r)
	if !ok {
		return
	}
	doc, found := schedule.FindDoctor(groups, doctorName)
	if !found {
		http.Error(w, errDoctorNotFound.Error(), http.StatusNotFound)
		return
	}

	day := doc.Days[0]
	if dayName != "" {
		if day, found = schedule.FindDay(doc, dayName); !found {
			http.Error(w, "day not found", http.StatusNotFound)
			return
		}
	}

	days := make([]string, 0, len(doc.Days))
	for _, d := range doc.Days {
		days = append(days, d.DayOfWeek)
	}
	booked := h.store.BookedSlotKeys(r.Context(), doc.Name)
	writeJSON(w, http.StatusOK, slotsResponse{
		Doctor:   doc.Name,
		Timezone: doc.Timezone,
		Day:      day.DayOfWeek,
		Days:     days,
		Slots:    availability.EvaluateDay(day, booked, h.now()),
	})
}

// Bookings serves GET (list) and POST (create) on the collection.
func (h *BookingHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.DoctorName = strings.TrimSpace(req.DoctorName)
	req.SlotKey = strings.TrimSpace(req.SlotKey)
	if req.DoctorName == "" || req.SlotKey == "" {
		http.Error(w, "doctor_name and slot_key are required", http.StatusBadRequest)
		return
	}

	groups, ok := h.loadSchedules(w, r)
	if !ok {
		return
	}
	doc, found := schedule.FindDoctor(groups, req.DoctorName)
	if !found {
		http.Error(w, errDoctorNotFound.Error(), http.StatusNotFound)
		return
	}

	booking := model.Booking{
		ID:          req.ID,
		DoctorName:  doc.Name,
		BookingTime: availability.BookingTimeFromSlotKey(req.SlotKey),
	}
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if status, err := h.reserve(r.Context(), doc, req.SlotKey, booking); err != nil {
		if status == http.StatusInternalServerError {
			h.logger.Error("save booking failed", "err", err, "doctor", doc.Name)
			http.Error(w, "failed to save booking", status)
			return
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.publish(r, events.New(events.TypeBookingCreated, booking.DoctorName, bookingEventPayload{
		ID:          booking.ID,
		DoctorName:  booking.DoctorName,
		BookingTime: booking.BookingTime,
	}))
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	doctorName := strings.TrimSpace(r.URL.Query().Get("doctor"))
	list := h.store.List(r.Context())
	if doctorName != "" {
		filtered := make([]model.Booking, 0, len(list))
		for _, b := range list {
			if b.DoctorName == doctorName {
				filtered = append(filtered, b)
			}
		}
		list = filtered
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	h.writeMu.Lock()
	err := h.store.RemoveByID(r.Context(), req.ID)
	h.writeMu.Unlock()
	if err != nil {
		h.logger.Error("cancel booking failed", "err", err, "id", req.ID)
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	h.publish(r, events.New(events.TypeBookingCancelled, req.ID, cancelBookingResponse{ID: req.ID, Status: "cancelled"}))
	writeJSON(w, http.StatusOK, cancelBookingResponse{ID: req.ID, Status: "cancelled"})
}

// reserve checks the slot against current bookings and stores b under the
// write lock, so a second request for the same slot sees the first one.
func (h *BookingHandler) reserve(ctx context.Context, doc model.DoctorSchedule, slotKey string, b model.Booking) (int, error) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	booked := h.store.BookedSlotKeys(ctx, doc.Name)
	if err := h.checkSlot(doc, booked, slotKey); err != nil {
		return http.StatusConflict, err
	}
	if _, err := h.store.Add(ctx, b); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusCreated, nil
}

func (h *BookingHandler) loadSchedules(w http.ResponseWriter, r *http.Request) ([]model.DoctorSchedule, bool) {
	records, err := h.source.Fetch(r.Context())
	if err != nil {
		h.logger.Warn("availability fetch failed", "err", err)
		http.Error(w, "failed to fetch availability: "+err.Error(), http.StatusBadGateway)
		return nil, false
	}
	return schedule.Group(records), true
}

// checkSlot rejects keys that are outside the doctor's grid, fall in a gap,
// have already ended, or are taken.
func (h *BookingHandler) checkSlot(doc model.DoctorSchedule, booked map[string]struct{}, key string) error {
	now := h.now()
	for _, day := range doc.Days {
		state, ok := availability.FindSlot(availability.EvaluateDay(day, booked, now), key)
		if !ok {
			continue
		}
		if state.Disabled {
			return errSlotUnavailable
		}
		return nil
	}
	return errSlotUnavailable
}

func (h *BookingHandler) publish(r *http.Request, evt events.Event) {
	if err := h.publisher.Publish(r.Context(), evt); err != nil {
		h.logger.Warn("event publish failed", "err", err, "event_type", evt.Type, "event_id", evt.ID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
