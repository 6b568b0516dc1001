package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const clockLayout = "3:04PM"

// ParseClock parses a 12-hour clock string such as "9:00AM" or "02:30PM" and
// returns its offset from midnight. The AM/PM suffix must be uppercase.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ParseHHMM parses "HH:mm" or "H:mm".
func ParseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time: %s", s)
	}
	return hour, minute, nil
}

// formatHHMM renders an offset from midnight as a 24-hour label. Offsets past
// midnight wrap around.
func formatHHMM(d time.Duration) string {
	h := int(d/time.Hour) % 24
	m := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
