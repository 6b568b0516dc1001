package availability

import (
	"time"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
)

// SlotWidth is the fixed length of every grid segment.
const SlotWidth = 30 * time.Minute

// Interval is a half-open [Start, End) range expressed as offsets from midnight.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// BuildDaySlots lays a 30-minute grid over the span of a day's windows, from the
// earliest start to the latest end. A segment is available when it fits entirely
// inside at least one window; segments in gaps between windows are emitted as
// unavailable. Windows that fail to parse are ignored.
func BuildDaySlots(windows []model.Window) []model.TimeSlot {
	intervals := parseWindows(windows)
	if len(intervals) == 0 {
		return []model.TimeSlot{}
	}

	dayStart, dayEnd := minMaxIntervals(intervals)
	slots := make([]model.TimeSlot, 0)
	for t := dayStart; t+SlotWidth <= dayEnd; t += SlotWidth {
		slots = append(slots, model.TimeSlot{
			Start:     formatHHMM(t),
			End:       formatHHMM(t + SlotWidth),
			Available: containedInAny(t, t+SlotWidth, intervals),
		})
	}
	return slots
}

func parseWindows(windows []model.Window) []Interval {
	intervals := make([]Interval, 0, len(windows))
	for _, w := range windows {
		start, err := ParseClock(w.AvailableAt)
		if err != nil {
			continue
		}
		end, err := ParseClock(w.AvailableUntil)
		if err != nil {
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals
}

func minMaxIntervals(intervals []Interval) (time.Duration, time.Duration) {
	minStart, maxEnd := intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start < minStart {
			minStart = iv.Start
		}
		if iv.End > maxEnd {
			maxEnd = iv.End
		}
	}
	return minStart, maxEnd
}

func containedInAny(start, end time.Duration, intervals []Interval) bool {
	for _, iv := range intervals {
		if iv.Start <= start && end <= iv.End {
			return true
		}
	}
	return false
}
