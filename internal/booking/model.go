package booking

import "time"

// Booking is immutable once recorded. ClassName and ClassStartsAt are copies
// taken at reservation time, not references into the catalog.
type Booking struct {
	ID            int       `db:"id" json:"id"`
	ClassID       int       `db:"class_id" json:"class_id"`
	ClassName     string    `db:"class_name" json:"class_name"`
	ClassStartsAt time.Time `db:"class_starts_at" json:"class_starts_at"`
	ClientName    string    `db:"client_name" json:"client_name"`
	ClientEmail   string    `db:"client_email" json:"client_email"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type NewBooking struct {
	ClassID       int
	ClassName     string
	ClassStartsAt time.Time
	ClientName    string
	ClientEmail   string
}

type ReserveRequest struct {
	ClassID     int    `json:"class_id" binding:"required,gt=0,max=2147483647" example:"1"`
	ClientName  string `json:"client_name" binding:"required,min=2,max=255" example:"rama"`
	ClientEmail string `json:"client_email" binding:"required,email,max=255" example:"rama@example.com"`
}

type FindBookingsQuery struct {
	Email string `form:"email" binding:"required,email,max=255"`
}

type BookingResponse struct {
	ID          int    `json:"id" example:"1"`
	ClassID     int    `json:"class_id" example:"1"`
	ClassName   string `json:"class_name" example:"Yoga"`
	ClientName  string `json:"client_name" example:"rama"`
	ClientEmail string `json:"client_email" example:"rama@example.com"`
	Datetime    string `json:"datetime" example:"2025-07-06T18:00:00+05:30"`
}

// Discrepancy reports a class whose consumed slots do not match the number
// of bookings recorded for it.
type Discrepancy struct {
	ClassID          int    `json:"class_id"`
	ClassName        string `json:"class_name"`
	ConsumedSlots    int    `json:"consumed_slots"`
	RecordedBookings int    `json:"recorded_bookings"`
}

// Diff is positive when slots were taken without a booking being recorded.
func (d Discrepancy) Diff() int {
	return d.ConsumedSlots - d.RecordedBookings
}
