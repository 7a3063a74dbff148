package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"fitstudio/internal/catalog"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"
)

var (
	// ErrPartialFailure means a slot was taken from the catalog but the
	// booking could not be recorded. Reconciliation reports such classes.
	ErrPartialFailure = errors.New("slot reserved but booking was not recorded")

	ErrUnavailable = catalog.ErrUnavailable
)

type Catalog interface {
	ReserveSlot(ctx context.Context, classID int) (*catalog.Snapshot, error)
	All(ctx context.Context) ([]catalog.ClassSession, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, className string, when time.Time) error
}

type Service interface {
	Reserve(ctx context.Context, req ReserveRequest) (*Booking, error)
	FindByEmail(ctx context.Context, email string) ([]Booking, error)
	Reconcile(ctx context.Context) ([]Discrepancy, error)
}

type service struct {
	repo     Repository
	catalog  Catalog
	notifier Notifier
	timeout  time.Duration
}

// NewService wires the ledger to the catalog. notifier may be nil.
func NewService(repo Repository, catalog Catalog, notifier Notifier, timeout time.Duration) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		timeout:  timeout,
	}
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (*Booking, error) {
	snap, err := s.catalog.ReserveSlot(ctx, req.ClassID)
	if err != nil {
		metrics.RecordReservation(outcomeOf(err))
		return nil, err
	}

	// The slot is already taken. Client cancellation must not stop the
	// append; only the store timeout bounds it.
	appendCtx, cancel := s.bound(context.WithoutCancel(ctx))
	defer cancel()

	b, err := s.repo.Append(appendCtx, NewBooking{
		ClassID:       snap.ID,
		ClassName:     snap.Name,
		ClassStartsAt: snap.StartsAt,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
	})
	if err != nil {
		metrics.RecordReservation("partial_failure")
		metrics.RecordPartialFailure()
		logger.Error("slot reserved but booking not recorded",
			"class_id", snap.ID,
			"remaining_slots", snap.RemainingSlots,
			"client_email", req.ClientEmail,
			"error", err,
		)
		return nil, fmt.Errorf("%w: class %d: %w", ErrPartialFailure, snap.ID, err)
	}

	metrics.RecordReservation("booked")
	logger.Info("booking created",
		"booking_id", b.ID,
		"class_id", b.ClassID,
		"remaining_slots", snap.RemainingSlots,
	)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, b.ClientEmail, b.ClientName, b.ClassName, b.ClassStartsAt); err != nil {
			logger.Warn("booking confirmation not queued", "booking_id", b.ID, "error", err)
		}
	}

	return b, nil
}

func (s *service) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	bookings, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return bookings, nil
}

// Reconcile compares each class's consumed slots with its recorded
// bookings. Reservations in flight can show up as a transient mismatch.
func (s *service) Reconcile(ctx context.Context) ([]Discrepancy, error) {
	sessions, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	counts, err := s.repo.CountByClass(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var found []Discrepancy
	for _, cs := range sessions {
		d := Discrepancy{
			ClassID:          cs.ID,
			ClassName:        cs.Name,
			ConsumedSlots:    cs.Capacity - cs.AvailableSlots,
			RecordedBookings: counts[cs.ID],
		}
		metrics.SetLedgerDiscrepancy(strconv.Itoa(cs.ID), d.Diff())
		if d.Diff() != 0 {
			found = append(found, d)
		}
		delete(counts, cs.ID)
	}

	for classID, n := range counts {
		d := Discrepancy{ClassID: classID, RecordedBookings: n}
		metrics.SetLedgerDiscrepancy(strconv.Itoa(classID), d.Diff())
		found = append(found, d)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ClassID < found[j].ClassID })
	return found, nil
}

func (s *service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, catalog.ErrClassNotFound):
		return "not_found"
	case errors.Is(err, catalog.ErrNoSlotsAvailable):
		return "no_slots"
	default:
		return "unavailable"
	}
}
