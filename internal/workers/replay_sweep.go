package workers

import "github.com/MKhiriev/go-claim-vault/internal/logger"

// ReplaySweepWorker evicts expired token ids from an in-process replay guard.
type ReplaySweepWorker struct {
	guard  Sweeper
	logger *logger.Logger
}

func NewReplaySweepWorker(guard Sweeper, log *logger.Logger) *ReplaySweepWorker {
	return &ReplaySweepWorker{guard: guard, logger: log}
}

func (w *ReplaySweepWorker) Run() {
	if dropped := w.guard.Sweep(); dropped > 0 {
		w.logger.Debug().Int("dropped", dropped).Msg("expired token ids swept")
	}
}
