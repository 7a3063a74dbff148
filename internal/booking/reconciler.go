package booking

import (
	"context"
	"time"

	"fitstudio/internal/logger"
)

type reconcilerService interface {
	Reconcile(ctx context.Context) ([]Discrepancy, error)
}

// Reconciler runs Reconcile on a fixed interval. A mismatch is only raised
// as an error once the same class shows the same difference on two runs in
// a row; the first sighting may be a reservation still in flight.
type Reconciler struct {
	service  reconcilerService
	interval time.Duration
	suspects map[int]int
}

func NewReconciler(service reconcilerService, interval time.Duration) *Reconciler {
	return &Reconciler{
		service:  service,
		interval: interval,
		suspects: make(map[int]int),
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("reconciler started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) []Discrepancy {
	found, err := r.service.Reconcile(ctx)
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		return nil
	}

	next := make(map[int]int, len(found))
	var confirmed []Discrepancy
	for _, d := range found {
		next[d.ClassID] = d.Diff()
		if prev, seen := r.suspects[d.ClassID]; seen && prev == d.Diff() {
			confirmed = append(confirmed, d)
			logger.Error("ledger out of sync with catalog",
				"class_id", d.ClassID,
				"class_name", d.ClassName,
				"consumed_slots", d.ConsumedSlots,
				"recorded_bookings", d.RecordedBookings,
			)
			continue
		}
		logger.Warn("possible ledger mismatch",
			"class_id", d.ClassID,
			"diff", d.Diff(),
		)
	}
	r.suspects = next

	return confirmed
}
