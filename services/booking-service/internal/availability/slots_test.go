package availability

import (
	"reflect"
	"testing"
	"time"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
)

func win(at, until string) model.Window {
	return model.Window{AvailableAt: at, AvailableUntil: until}
}

func TestBuildDaySlots_Basic(t *testing.T) {
	slots := BuildDaySlots([]model.Window{win("9:00AM", "10:00AM")})
	want := []model.TimeSlot{
		{Start: "09:00", End: "09:30", Available: true},
		{Start: "09:30", End: "10:00", Available: true},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("expected %+v, got %+v", want, slots)
	}
}

func TestBuildDaySlots_GapIsUnavailable(t *testing.T) {
	slots := BuildDaySlots([]model.Window{win("9:00AM", "9:30AM"), win("10:00AM", "10:30AM")})
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if !slots[0].Available || slots[1].Available || !slots[2].Available {
		t.Fatalf("expected middle slot unavailable, got %+v", slots)
	}
	if slots[1].Start != "09:30" || slots[1].End != "10:00" {
		t.Fatalf("unexpected gap slot %+v", slots[1])
	}
}

func TestBuildDaySlots_AfternoonLabelsAre24Hour(t *testing.T) {
	slots := BuildDaySlots([]model.Window{win("1:00PM", "2:00PM")})
	if len(slots) != 2 || slots[0].Start != "13:00" || slots[1].End != "14:00" {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestBuildDaySlots_OrderIndependent(t *testing.T) {
	a := BuildDaySlots([]model.Window{win("9:00AM", "10:00AM"), win("2:00PM", "3:00PM")})
	b := BuildDaySlots([]model.Window{win("2:00PM", "3:00PM"), win("9:00AM", "10:00AM")})
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("window order changed the grid:\n%+v\n%+v", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("expected 12 slots from 09:00 to 15:00, got %d", len(a))
	}
}

func TestBuildDaySlots_PartialTailDropped(t *testing.T) {
	slots := BuildDaySlots([]model.Window{win("9:15AM", "10:00AM")})
	if len(slots) != 1 || slots[0].Start != "09:15" || slots[0].End != "09:45" || !slots[0].Available {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestBuildDaySlots_EmptyAndUnparseable(t *testing.T) {
	if got := BuildDaySlots(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := BuildDaySlots([]model.Window{win("9:00am", "10:00am"), win("nine", "ten")}); len(got) != 0 {
		t.Fatalf("expected unparseable windows to be ignored, got %+v", got)
	}
	got := BuildDaySlots([]model.Window{win("garbage", "10:00AM"), win(" 09:00AM ", "9:30AM")})
	if len(got) != 1 || got[0].Start != "09:00" {
		t.Fatalf("expected only the valid window to count, got %+v", got)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"9:00AM", 9 * time.Hour, true},
		{"09:30AM", 9*time.Hour + 30*time.Minute, true},
		{"12:00PM", 12 * time.Hour, true},
		{"12:00AM", 0, true},
		{"11:30PM", 23*time.Hour + 30*time.Minute, true},
		{"9:00pm", 0, false},
		{"21:00", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}
