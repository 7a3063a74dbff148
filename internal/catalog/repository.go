package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListUpcoming(ctx context.Context, asOf time.Time) ([]ClassSession, error) {
	query := `
		SELECT id, name, starts_at, instructor, capacity, available_slots
		FROM class_sessions
		WHERE starts_at > $1
		ORDER BY id
	`

	sessions := []ClassSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, asOf); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ListAll(ctx context.Context) ([]ClassSession, error) {
	query := `
		SELECT id, name, starts_at, instructor, capacity, available_slots
		FROM class_sessions
		ORDER BY id
	`

	sessions := []ClassSession{}
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ReserveSlot relies on the row lock taken by the conditional UPDATE, so
// concurrent callers on one class are serialized by Postgres itself.
func (r *repository) ReserveSlot(ctx context.Context, classID int) (*Snapshot, error) {
	query := `
		UPDATE class_sessions
		SET available_slots = available_slots - 1
		WHERE id = $1 AND available_slots > 0
		RETURNING id, name, starts_at, available_slots
	`

	var snap Snapshot
	err := r.db.GetContext(ctx, &snap, query, classID)
	if err == nil {
		return &snap, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM class_sessions WHERE id = $1)`, classID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrClassNotFound
	}

	return nil, ErrNoSlotsAvailable
}

func (r *repository) Seed(ctx context.Context, sessions []ClassSession) error {
	for _, cs := range sessions {
		if err := validateSession(cs); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, cs := range sessions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO class_sessions (id, name, starts_at, instructor, capacity, available_slots)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			cs.ID, cs.Name, cs.StartsAt, cs.Instructor, cs.Capacity, cs.AvailableSlots,
		)
		if err != nil {
			return fmt.Errorf("seed class %d: %w", cs.ID, err)
		}
	}

	return tx.Commit()
}
