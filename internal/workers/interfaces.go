// Package workers runs the periodic background jobs of the claim vault
// server on a cron scheduler.
package workers

import (
	"context"

	"github.com/MKhiriev/go-claim-vault/models"
)

// Worker is one unit of periodic work. Its Run method has the shape of
// cron.Job, so any Worker can be scheduled directly.
//
// Implementations must return once the run is done; the scheduler starts a
// fresh call on every tick.
type Worker interface {
	Run()
}

// ScheduleLister is the read side of the schedule service used by the
// statistics worker.
type ScheduleLister interface {
	ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
}

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}
