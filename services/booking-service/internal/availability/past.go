package availability

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var dayNumbers = map[string]int{
	"Sunday": 0, "Sun": 0,
	"Monday": 1, "Mon": 1,
	"Tuesday": 2, "Tue": 2,
	"Wednesday": 3, "Wed": 3,
	"Thursday": 4, "Thu": 4,
	"Friday": 5, "Fri": 5,
	"Saturday": 6, "Sat": 6,
}

// DayNumber maps a day label to 0 (Sunday) through 6 (Saturday). Labels are
// trimmed and case-normalized; full names and three-letter abbreviations are
// accepted. Unknown labels map to Sunday.
func DayNumber(label string) int {
	key := strings.TrimSpace(label)
	if n, ok := dayNumbers[normalizeDay(key)]; ok {
		return n
	}
	if n, ok := dayNumbers[key]; ok {
		return n
	}
	return 0
}

func normalizeDay(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// IsPast reports whether the slot ending at slotEnd ("HH:mm") on the given day
// of the current week has already ended. Weeks start on Sunday in now's
// location. A Sunday that already lies behind now is taken to mean next
// Sunday. An unparseable slotEnd is never past.
func IsPast(dayOfWeek, slotEnd string, now time.Time) bool {
	hour, minute, err := ParseHHMM(slotEnd)
	if err != nil {
		return false
	}
	slotDate := SlotDate(dayOfWeek, now)
	end := time.Date(slotDate.Year(), slotDate.Month(), slotDate.Day(), hour, minute, 0, 0, now.Location())
	return end.Before(now)
}

// SlotDate returns midnight of the calendar date the day label refers to in
// now's week.
func SlotDate(dayOfWeek string, now time.Time) time.Time {
	dayNum := DayNumber(dayOfWeek)
	loc := now.Location()
	weekStart := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, loc)
	slotDate := weekStart.AddDate(0, 0, dayNum)
	if dayNum == 0 && beforeDay(slotDate, now) {
		slotDate = slotDate.AddDate(0, 0, 7)
	}
	return slotDate
}

func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
