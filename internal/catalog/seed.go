package catalog

import "time"

var studioZone = time.FixedZone("IST", 5*60*60+30*60)

// SampleSessions returns the studio's demo timetable, scheduled at 18:00
// studio time on the days following now.
func SampleSessions(now time.Time) []ClassSession {
	local := now.In(studioZone)
	evening := func(daysAhead int) time.Time {
		d := local.AddDate(0, 0, daysAhead)
		return time.Date(d.Year(), d.Month(), d.Day(), 18, 0, 0, 0, studioZone)
	}

	return []ClassSession{
		{ID: 1, Name: "Yoga", StartsAt: evening(1), Instructor: "rajeshwari", Capacity: 10, AvailableSlots: 10},
		{ID: 2, Name: "HIIT", StartsAt: evening(1), Instructor: "shashi", Capacity: 8, AvailableSlots: 8},
		{ID: 3, Name: "Zumba", StartsAt: evening(1), Instructor: "hiremath", Capacity: 9, AvailableSlots: 9},
		{ID: 4, Name: "Gym", StartsAt: evening(4), Instructor: "onimath", Capacity: 9, AvailableSlots: 9},
	}
}
