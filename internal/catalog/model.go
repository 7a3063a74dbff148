package catalog

import "time"

type ClassSession struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	StartsAt       time.Time `db:"starts_at" json:"starts_at"`
	Instructor     string    `db:"instructor" json:"instructor"`
	Capacity       int       `db:"capacity" json:"capacity"`
	AvailableSlots int       `db:"available_slots" json:"available_slots"`
}

// Snapshot is a value copy of a session taken when one of its slots was
// reserved. RemainingSlots is the count after the decrement.
type Snapshot struct {
	ID             int       `db:"id"`
	Name           string    `db:"name"`
	StartsAt       time.Time `db:"starts_at"`
	RemainingSlots int       `db:"available_slots"`
}

type ClassResponse struct {
	ID             int    `json:"id" example:"1"`
	Name           string `json:"name" example:"Yoga"`
	Datetime       string `json:"datetime" example:"2025-07-06T18:00:00+05:30"`
	Instructor     string `json:"instructor" example:"rajeshwari"`
	AvailableSlots int    `json:"available_slots" example:"10"`
}
