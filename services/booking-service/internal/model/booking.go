package model

// Booking is a persisted appointment. BookingTime reads like "Monday 09:00-09:30".
// Field order matches the stored JSON layout.
type Booking struct {
	ID          string `json:"id"`
	DoctorName  string `json:"doctorName"`
	BookingTime string `json:"bookingTime"`
}
