package booking

import "context"

type Repository interface {
	Append(ctx context.Context, b NewBooking) (*Booking, error)
	FindByEmail(ctx context.Context, email string) ([]Booking, error)
	CountByClass(ctx context.Context) (map[int]int, error)
}
