package schedule

import "github.com/md-rashed-zaman/doctorbook/services/booking-service/internal/model"

// Group folds flat availability records into per-doctor, per-day schedules.
// Doctors and days keep the order in which they first appear.
func Group(records []model.AvailabilityRecord) []model.DoctorSchedule {
	out := make([]model.DoctorSchedule, 0)
	doctorIdx := make(map[string]int)
	dayIdx := make(map[string]map[string]int)

	for _, rec := range records {
		di, ok := doctorIdx[rec.Name]
		if !ok {
			di = len(out)
			doctorIdx[rec.Name] = di
			dayIdx[rec.Name] = make(map[string]int)
			out = append(out, model.DoctorSchedule{
				Name:     rec.Name,
				Timezone: rec.Timezone,
				Days:     make([]model.DaySchedule, 0, 1),
			})
		}

		doc := &out[di]
		days := dayIdx[rec.Name]
		dj, ok := days[rec.DayOfWeek]
		if !ok {
			dj = len(doc.Days)
			days[rec.DayOfWeek] = dj
			doc.Days = append(doc.Days, model.DaySchedule{DayOfWeek: rec.DayOfWeek})
		}
		doc.Days[dj].Slots = append(doc.Days[dj].Slots, model.Window{
			AvailableAt:    rec.AvailableAt,
			AvailableUntil: rec.AvailableUntil,
		})
	}
	return out
}

// FindDoctor returns the grouped schedule whose name matches exactly.
func FindDoctor(groups []model.DoctorSchedule, name string) (model.DoctorSchedule, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return model.DoctorSchedule{}, false
}

// FindDay returns the named day of a doctor's schedule.
func FindDay(doc model.DoctorSchedule, day string) (model.DaySchedule, bool) {
	for _, d := range doc.Days {
		if d.DayOfWeek == day {
			return d, true
		}
	}
	return model.DaySchedule{}, false
}
