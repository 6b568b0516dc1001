package schedule

import (
	"testing"

	"github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"
)

func rec(name, tz, day, at, until string) model.AvailabilityRecord {
	return model.AvailabilityRecord{Name: name, Timezone: tz, DayOfWeek: day, AvailableAt: at, AvailableUntil: until}
}

func TestGroup_Empty(t *testing.T) {
	got := Group(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestGroup_SingleDoctorMultipleDays(t *testing.T) {
	got := Group([]model.AvailabilityRecord{
		rec("Dr. A", "UTC", "Monday", "9:00AM", "10:00AM"),
		rec("Dr. A", "UTC", "Monday", "2:00PM", "3:00PM"),
		rec("Dr. A", "UTC", "Tuesday", "9:00AM", "9:30AM"),
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(got))
	}
	doc := got[0]
	if doc.Name != "Dr. A" || doc.Timezone != "UTC" {
		t.Fatalf("unexpected doctor %+v", doc)
	}
	if len(doc.Days) != 2 || doc.Days[0].DayOfWeek != "Monday" || doc.Days[1].DayOfWeek != "Tuesday" {
		t.Fatalf("unexpected days %+v", doc.Days)
	}
	if len(doc.Days[0].Slots) != 2 {
		t.Fatalf("expected 2 Monday windows, got %d", len(doc.Days[0].Slots))
	}
	if doc.Days[0].Slots[1] != (model.Window{AvailableAt: "2:00PM", AvailableUntil: "3:00PM"}) {
		t.Fatalf("unexpected second window %+v", doc.Days[0].Slots[1])
	}
}

func TestGroup_FirstSeenOrder(t *testing.T) {
	got := Group([]model.AvailabilityRecord{
		rec("Dr. B", "UTC", "Wednesday", "9:00AM", "10:00AM"),
		rec("Dr. A", "UTC", "Monday", "9:00AM", "10:00AM"),
		rec("Dr. B", "UTC", "Monday", "9:00AM", "10:00AM"),
		rec("Dr. A", "UTC", "Friday", "9:00AM", "10:00AM"),
		rec("Dr. B", "UTC", "Wednesday", "1:00PM", "2:00PM"),
	})
	if len(got) != 2 || got[0].Name != "Dr. B" || got[1].Name != "Dr. A" {
		t.Fatalf("unexpected doctor order %+v", got)
	}
	if got[0].Days[0].DayOfWeek != "Wednesday" || got[0].Days[1].DayOfWeek != "Monday" {
		t.Fatalf("unexpected day order %+v", got[0].Days)
	}
	if len(got[0].Days[0].Slots) != 2 {
		t.Fatalf("expected windows to accumulate on Wednesday, got %+v", got[0].Days[0].Slots)
	}
}

func TestGroup_TimezoneFromFirstRecordAndDuplicatesKept(t *testing.T) {
	got := Group([]model.AvailabilityRecord{
		rec("Dr. A", "America/New_York", "Monday", "9:00AM", "10:00AM"),
		rec("Dr. A", "Europe/London", "Monday", "9:00AM", "10:00AM"),
	})
	if got[0].Timezone != "America/New_York" {
		t.Fatalf("expected first-seen timezone, got %q", got[0].Timezone)
	}
	if len(got[0].Days[0].Slots) != 2 {
		t.Fatalf("expected duplicate windows kept, got %d", len(got[0].Days[0].Slots))
	}
}

func TestGroup_CaseSensitiveKeys(t *testing.T) {
	got := Group([]model.AvailabilityRecord{
		rec("dr. a", "UTC", "Monday", "9:00AM", "10:00AM"),
		rec("Dr. A", "UTC", "monday", "9:00AM", "10:00AM"),
		rec("", "UTC", "", "", ""),
	})
	if len(got) != 3 {
		t.Fatalf("expected 3 distinct doctors, got %d", len(got))
	}
	if got[2].Name != "" || len(got[2].Days) != 1 {
		t.Fatalf("empty name should group like any other key, got %+v", got[2])
	}
}

func TestFindDoctorAndDay(t *testing.T) {
	groups := Group([]model.AvailabilityRecord{
		rec("Dr. A", "UTC", "Monday", "9:00AM", "10:00AM"),
	})
	doc, ok := FindDoctor(groups, "Dr. A")
	if !ok {
		t.Fatalf("expected to find Dr. A")
	}
	if _, ok := FindDoctor(groups, "Dr. Z"); ok {
		t.Fatalf("did not expect to find Dr. Z")
	}
	if _, ok := FindDay(doc, "Monday"); !ok {
		t.Fatalf("expected Monday")
	}
	if _, ok := FindDay(doc, "Sunday"); ok {
		t.Fatalf("did not expect Sunday")
	}
}
