package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/MKhiriev/go-claim-vault/internal/metrics"
	"github.com/MKhiriev/go-claim-vault/models"
)

// ScheduleStatsWorker refreshes the per-schedule claim gauges from the
// active schedules.
type ScheduleStatsWorker struct {
	ctx       context.Context
	schedules ScheduleLister
	timeout   time.Duration
	logger    *logger.Logger
}

func NewScheduleStatsWorker(ctx context.Context, schedules ScheduleLister, timeout time.Duration, log *logger.Logger) *ScheduleStatsWorker {
	return &ScheduleStatsWorker{ctx: ctx, schedules: schedules, timeout: timeout, logger: log}
}

func (w *ScheduleStatsWorker) Run() {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	active, err := w.schedules.ListSchedules(ctx, models.ScheduleFilter{ActiveOnly: true})
	if err != nil {
		w.logger.Err(err).Msg("listing active schedules failed")
		return
	}

	metrics.ResetScheduleClaims()
	for _, s := range active {
		metrics.SetScheduleClaims(s.ID.String(), s.ClaimCount(), s.Redemptions.Count())
	}
	w.logger.Debug().Int("schedules", len(active)).Msg("schedule stats refreshed")
}
