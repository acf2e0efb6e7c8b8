package reward

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-tycoon/internal/auction"
)

// ImpressionRecorder collects revenue per completed impression.
type ImpressionRecorder interface {
	RecordImpression(p auction.Provider, revenue float64)
}

// SimulatedPlayer stands in for a real ad SDK. Each view waits the playback
// delay, completes with the configured probability and records the
// provider's per-impression revenue.
type SimulatedPlayer struct {
	recorder       ImpressionRecorder
	delay          time.Duration
	completionRate float64
	revenue        map[auction.Provider]float64
	draw           func() float64
}

type SimulatedPlayerOpt func(*SimulatedPlayer)

func WithPlaybackDelay(d time.Duration) SimulatedPlayerOpt {
	return func(s *SimulatedPlayer) {
		s.delay = d
	}
}

// WithCompletionRate sets the probability, from 0 to 1, that a view completes.
func WithCompletionRate(rate float64) SimulatedPlayerOpt {
	return func(s *SimulatedPlayer) {
		s.completionRate = rate
	}
}

// WithRevenue sets the revenue recorded for one impression from p.
func WithRevenue(p auction.Provider, revenue float64) SimulatedPlayerOpt {
	return func(s *SimulatedPlayer) {
		s.revenue[p] = revenue
	}
}

func WithPlayerDraw(draw func() float64) SimulatedPlayerOpt {
	return func(s *SimulatedPlayer) {
		s.draw = draw
	}
}

func NewSimulatedPlayer(recorder ImpressionRecorder, opts ...SimulatedPlayerOpt) *SimulatedPlayer {
	s := &SimulatedPlayer{
		recorder:       recorder,
		delay:          2 * time.Second,
		completionRate: 0.9,
		revenue: map[auction.Provider]float64{
			auction.ProviderPrimary:   0.004,
			auction.ProviderSecondary: 0.005,
		},
		draw: rand.Float64,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *SimulatedPlayer) ShowRewardedAd(ctx context.Context, provider auction.Provider) (bool, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	if s.draw() >= s.completionRate {
		return false, nil
	}
	if s.recorder != nil {
		s.recorder.RecordImpression(provider, s.revenue[provider])
	}
	return true, nil
}
