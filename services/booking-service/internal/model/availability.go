package model

// AvailabilityRecord is one row of the remote availability feed.
type AvailabilityRecord struct {
	Name           string `json:"name" yaml:"name"`
	Timezone       string `json:"timezone" yaml:"timezone"`
	DayOfWeek      string `json:"day_of_week" yaml:"day_of_week"`
	AvailableAt    string `json:"available_at" yaml:"available_at"`
	AvailableUntil string `json:"available_until" yaml:"available_until"`
}

// Window is a raw availability window with 12-hour clock bounds, e.g. "9:00AM".
type Window struct {
	AvailableAt    string `json:"available_at"`
	AvailableUntil string `json:"available_until"`
}

type DaySchedule struct {
	DayOfWeek string   `json:"day_of_week"`
	Slots     []Window `json:"slots"`
}

// DoctorSchedule is the grouped view of a doctor's availability.
// Timezone is taken from the first record seen for the doctor.
type DoctorSchedule struct {
	Name     string        `json:"name"`
	Timezone string        `json:"timezone"`
	Days     []DaySchedule `json:"days"`
}

// TimeSlot is a 30-minute segment of a day grid. Start and End are "HH:mm".
type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// SlotState is a TimeSlot resolved against bookings and the current time.
type SlotState struct {
	TimeSlot
	Key      string `json:"key"`
	Past     bool   `json:"past"`
	Booked   bool   `json:"booked"`
	Disabled bool   `json:"disabled"`
}
