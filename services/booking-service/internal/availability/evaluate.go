package availability

import (
	"time"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
)

// EvaluateDay builds the grid for day and resolves each slot against the
// booked slot keys and now.
func EvaluateDay(day model.DaySchedule, booked map[string]struct{}, now time.Time) []model.SlotState {
	slots := BuildDaySlots(day.Slots)
	states := make([]model.SlotState, 0, len(slots))
	for _, s := range slots {
		key := SlotKey(day.DayOfWeek, s.Start, s.End)
		_, isBooked := booked[key]
		past := IsPast(day.DayOfWeek, s.End, now)
		states = append(states, model.SlotState{
			TimeSlot: s,
			Key:      key,
			Past:     past,
			Booked:   isBooked,
			Disabled: !s.Available || past || isBooked,
		})
	}
	return states
}

// FindSlot returns the evaluated slot with the given key.
func FindSlot(states []model.SlotState, key string) (model.SlotState, bool) {
	for _, s := range states {
		if s.Key == key {
			return s, true
		}
	}
	return model.SlotState{}, false
}
