package service

import (
	"context"
	"time"

	"github.com/lshigami/Surikat/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExpirySweeper periodically expires attempts whose test window has ended, so
// every attempt eventually reaches a terminal state even when the student just
// walks away. It is an ordinary writer: each Expire goes through the same
// per-attempt lock as student traffic.
type ExpirySweeper struct {
	attemptRepo repository.AttemptRepository
	attemptSvc  AttemptService
	interval    time.Duration
	now         func() time.Time
}

func NewExpirySweeper(attemptRepo repository.AttemptRepository, attemptSvc AttemptService, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ExpirySweeper{
		attemptRepo: attemptRepo,
		attemptSvc:  attemptSvc,
		interval:    interval,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("Expiry sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep expires every overdue attempt it can find. Failures on individual
// attempts are logged and skipped; the next sweep retries them.
func (s *ExpirySweeper) Sweep() {
	overdue, err := s.attemptRepo.FindExpirable(s.now())
	if err != nil {
		log.Error().Err(err).Msg("Expiry sweep query failed")
		return
	}
	if len(overdue) == 0 {
		return
	}

	log.Info().Int("count", len(overdue)).Msg("Expiring overdue attempts")
	for _, attempt := range overdue {
		if _, err := s.attemptSvc.Expire(attempt.ID); err != nil {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to expire attempt")
		}
	}
}
