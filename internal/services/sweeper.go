package services

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"maintdeck/internal/store"
)

// Sweeper transitions expired downtime windows to finished. It runs on an
// in-process cron schedule and can also be invoked on demand through Sweep.
// All storage work goes through the store's transaction boundary, so a sweep
// racing a concurrent update simply skips rows the update already finished
// or archived.
type Sweeper struct {
	store *store.DowntimeStore
	cron  *cron.Cron
	spec  string
}

func NewSweeper(st *store.DowntimeStore, schedule string) *Sweeper {
	return &Sweeper{
		store: st,
		cron:  cron.New(),
		spec:  schedule,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.Sweep(); err != nil {
			slog.Error("Scheduled sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Sweeper started", "schedule", s.spec)
	return nil
}

// Stop waits for an in-flight scheduled sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Sweeper stopped")
}

// Sweep finishes every expired window in one transactional bulk update and
// returns the number of rows transitioned. Re-running after a successful
// sweep affects zero rows.
func (s *Sweeper) Sweep() (int64, error) {
	updated, err := s.store.FinishExpired(time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		slog.Info("Sweep finished expired windows", "updated", updated)
	}
	return updated, nil
}
