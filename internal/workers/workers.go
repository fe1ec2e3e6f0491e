package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/MKhiriev/go-claim-vault/internal/logger"
)

// Job binds a Worker to a cron spec.
type Job struct {
	Name   string
	Spec   string
	Worker Worker
}

// Workers owns the cron scheduler and the jobs registered on it.
type Workers struct {
	cron   *cron.Cron
	logger *logger.Logger
}

func NewWorkers(log *logger.Logger, jobs ...Job) (*Workers, error) {
	cl := cronLogger{log}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	for _, job := range jobs {
		if _, err := c.AddJob(job.Spec, job.Worker); err != nil {
			return nil, fmt.Errorf("scheduling %s with spec %q: %w", job.Name, job.Spec, err)
		}
		log.Debug().Str("job", job.Name).Str("spec", job.Spec).Msg("worker scheduled")
	}

	return &Workers{cron: c, logger: log}, nil
}

// Run starts the scheduler in its own goroutine and returns.
func (w *Workers) Run() {
	w.cron.Start()
	w.logger.Info().Int("jobs", len(w.cron.Entries())).Msg("workers started")
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (w *Workers) Stop(ctx context.Context) error {
	select {
	case <-w.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes scheduler output through zerolog.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Err(err).Fields(keysAndValues).Msg(msg)
}
