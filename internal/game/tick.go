package game

import (
	"context"
	"log/slog"
)

// Tick advances the simulation by one tick length. It credits boosted
// passive income, evaluates progression every EvaluateEvery ticks and
// autosaves every SaveEvery ticks. Autosave failures are logged, not
// returned, so a flaky disk does not stop the driver.
func (s *Store) Tick(ctx context.Context) error {
	s.mu.Lock()

	now := s.clock.Now()
	s.multipliers.PruneExpired(now)

	earned := s.income(now, true) * s.econ.TickLength.Seconds()
	s.credit(now, earned, true)
	s.player.ActiveTime += s.econ.TickLength
	s.ticks++

	if s.ticks%int64(s.econ.EvaluateEvery) == 0 {
		s.evaluate(now)
	}
	save := s.ticks%int64(s.econ.SaveEvery) == 0

	s.release(ctx)

	if save {
		if err := s.Save(ctx); err != nil {
			slog.WarnContext(ctx, "autosave failed", "error", err)
		}
	}
	return nil
}

// Flush saves the game; the driver calls it on shutdown.
func (s *Store) Flush(ctx context.Context) error {
	return s.Save(ctx)
}
