package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrNoSlotsAvailable = errors.New("no slots available")
	ErrUnavailable      = errors.New("storage unavailable")
	ErrInvalidSession   = errors.New("invalid class session")
)

type Service interface {
	ListUpcoming(ctx context.Context, asOf time.Time) ([]ClassSession, error)
	ReserveSlot(ctx context.Context, classID int) (*Snapshot, error)
	All(ctx context.Context) ([]ClassSession, error)
	Seed(ctx context.Context, sessions []ClassSession) error
}

type service struct {
	repo    Repository
	timeout time.Duration
}

// NewService bounds every storage call by timeout. A zero timeout leaves
// the caller's context as is.
func NewService(repo Repository, timeout time.Duration) Service {
	return &service{
		repo:    repo,
		timeout: timeout,
	}
}

func (s *service) ListUpcoming(ctx context.Context, asOf time.Time) ([]ClassSession, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	sessions, err := s.repo.ListUpcoming(ctx, asOf)
	if err != nil {
		return nil, classify(err)
	}
	return sessions, nil
}

func (s *service) ReserveSlot(ctx context.Context, classID int) (*Snapshot, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	snap, err := s.repo.ReserveSlot(ctx, classID)
	if err != nil {
		return nil, classify(err)
	}
	if snap.RemainingSlots < 0 {
		panic(fmt.Sprintf("catalog: class %d went below zero slots", classID))
	}
	return snap, nil
}

func (s *service) All(ctx context.Context) ([]ClassSession, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return sessions, nil
}

func (s *service) Seed(ctx context.Context, sessions []ClassSession) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.repo.Seed(ctx, sessions); err != nil {
		return classify(err)
	}
	return nil
}

func (s *service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// classify keeps the user-facing kinds intact and folds everything else,
// deadline overruns included, into ErrUnavailable.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrClassNotFound),
		errors.Is(err, ErrNoSlotsAvailable),
		errors.Is(err, ErrInvalidSession),
		errors.Is(err, ErrUnavailable):
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
