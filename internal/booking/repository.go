package booking

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, nb NewBooking) (*Booking, error) {
	query := `
		INSERT INTO bookings (class_id, class_name, class_starts_at, client_name, client_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, class_id, class_name, class_starts_at, client_name, client_email, created_at
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, nb.ClassID, nb.ClassName, nb.ClassStartsAt, nb.ClientName, nb.ClientEmail)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	query := `
		SELECT id, class_id, class_name, class_starts_at, client_name, client_email, created_at
		FROM bookings
		WHERE client_email = $1
		ORDER BY id
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, email); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) CountByClass(ctx context.Context) (map[int]int, error) {
	query := `
		SELECT class_id, COUNT(*) AS bookings
		FROM bookings
		GROUP BY class_id
	`

	var rows []struct {
		ClassID  int `db:"class_id"`
		Bookings int `db:"bookings"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.ClassID] = row.Bookings
	}
	return counts, nil
}
