package catalog

import (
	"context"
	"time"
)

type Repository interface {
	ListUpcoming(ctx context.Context, asOf time.Time) ([]ClassSession, error)
	ListAll(ctx context.Context) ([]ClassSession, error)
	ReserveSlot(ctx context.Context, classID int) (*Snapshot, error)
	Seed(ctx context.Context, sessions []ClassSession) error
}
