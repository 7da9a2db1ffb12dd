package utils

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const reconcileTimeout = 5 * time.Minute

// Reconciler repairs enrollments that are missing for paid subscriptions.
type Reconciler interface {
	ReconcileSubscriptions(ctx context.Context) (int, error)
}

// InitializeReconcileScheduler runs r on the given cron spec. The returned
// scheduler is already started.
func InitializeReconcileScheduler(r Reconciler, spec string) (*cron.Cron, error) {
	log.Println("[RECONCILE-SCHEDULER] Initializing enrollment reconciliation scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { RunReconcile(r) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[RECONCILE-SCHEDULER] Enrollment reconciliation scheduler started - runs %q", spec)
	return c, nil
}

// RunReconcile performs one reconciliation pass and returns the number of
// enrollments it created.
func RunReconcile(r Reconciler) int {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	healed, err := r.ReconcileSubscriptions(ctx)
	if err != nil {
		log.Printf("[RECONCILE-SCHEDULER] Reconciliation failed: %v", err)
		return 0
	}
	if healed > 0 {
		log.Printf("[RECONCILE-SCHEDULER] Created %d missing enrollment(s)", healed)
	}
	return healed
}
