package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const pruneTimeout = time.Minute

// Pruner deletes audit events older than a retention period.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler prunes old events on a cron schedule.
type Scheduler struct {
	pruner    Pruner
	retention time.Duration
	schedule  cron.Schedule
	now       func() time.Time
	done      chan struct{}
}

// NewScheduler creates a new scheduler instance. expr is a standard
// five-field cron expression.
func NewScheduler(pruner Pruner, retention time.Duration, expr string) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", expr, err)
	}
	if retention <= 0 {
		return nil, fmt.Errorf("event retention must be positive, got %s", retention)
	}
	return &Scheduler{
		pruner:    pruner,
		retention: retention,
		schedule:  schedule,
		now:       time.Now,
		done:      make(chan struct{}),
	}, nil
}

// Run waits for each scheduled time and prunes, until Stop.
func (s *Scheduler) Run() {
	log.Info().Dur("retention", s.retention).Msg("Starting retention scheduler")
	for {
		next := s.schedule.Next(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping retention scheduler")
			return
		case <-timer.C:
			s.PruneOnce()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	close(s.done)
}

// PruneOnce runs one retention pass.
func (s *Scheduler) PruneOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	n, err := s.pruner.Prune(ctx, s.retention)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to prune events")
		return
	}
	log.Info().Int64("deleted", n).Msg("Scheduler: pruned old events")
}
