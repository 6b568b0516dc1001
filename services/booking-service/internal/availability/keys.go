package availability

import "strings"

// SlotKey identifies a grid slot, e.g. "Monday-09:00-09:30".
func SlotKey(day, start, end string) string {
	return day + "-" + start + "-" + end
}

// BookingTime is the human-readable form stored on a booking, e.g. "Monday 09:00-09:30".
func BookingTime(day, start, end string) string {
	return day + " " + start + "-" + end
}

// BookingTimeFromSlotKey converts a slot key to its booking time. Keys with
// fewer than three dash-separated parts are returned unchanged.
func BookingTimeFromSlotKey(key string) string {
	parts := strings.Split(key, "-")
	if len(parts) < 3 {
		return key
	}
	return parts[0] + " " + parts[1] + "-" + parts[2]
}

// BookedKey converts a booking time back to a slot key by replacing its first space.
func BookedKey(bookingTime string) string {
	return strings.Replace(bookingTime, " ", "-", 1)
}
