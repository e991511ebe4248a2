package cronjob

import (
	"fmt"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/scratch"
	"github.com/dappforge/dappforge-backend/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper periodically removes scratch directories left behind by a crashed
// or killed process. Live requests release their own directories.
type Sweeper struct {
	space    *scratch.Space
	maxAge   time.Duration
	schedule string
	log      zerolog.Logger
	now      func() time.Time
	cron     *cron.Cron
}

func NewSweeper(space *scratch.Space, schedule string, maxAge time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		space:    space,
		maxAge:   maxAge,
		schedule: schedule,
		log:      log.With().Str("component", "scratch_sweeper").Logger(),
		now:      time.Now,
	}
}

// Start registers the sweep on a seconds-resolution schedule.
func (s *Sweeper) Start() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.schedule, func() { _, _ = s.RunOnce() }); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.log.Info().Str("schedule", s.schedule).Dur("max_age", s.maxAge).Msg("scratch sweeper started")
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce sweeps immediately and returns the removed paths.
func (s *Sweeper) RunOnce() ([]string, error) {
	removed, err := s.space.Sweep(s.maxAge, s.now())
	metrics.AddScratchSwept(len(removed))
	if err != nil {
		s.log.Warn().Err(err).Int("removed", len(removed)).Msg("scratch sweep incomplete")
		return removed, err
	}
	if len(removed) > 0 {
		s.log.Info().Int("removed", len(removed)).Msg("removed stale scratch directories")
	}
	return removed, nil
}
