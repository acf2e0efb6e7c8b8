package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/auction"
	"github.com/pixil98/go-tycoon/internal/reward"
)

// AdsConfig tunes the simulated ad networks and bid measurement.
type AdsConfig struct {
	RefreshInterval string             `json:"refresh_interval"`
	PlaybackDelay   string             `json:"playback_delay"`
	CompletionRate  float64            `json:"completion_rate"`
	FallbackMinECPM float64            `json:"fallback_min_ecpm"`
	FallbackMaxECPM float64            `json:"fallback_max_ecpm"`
	Revenue         map[string]float64 `json:"revenue"`
}

func (c *AdsConfig) validate() error {
	el := errors.NewErrorList()

	for name, v := range map[string]string{"refresh_interval": c.RefreshInterval, "playback_delay": c.PlaybackDelay} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			el.Add(fmt.Errorf("parsing ads.%s: %w", name, err))
		}
	}
	if c.CompletionRate < 0 || c.CompletionRate > 1 {
		el.Add(fmt.Errorf("ads.completion_rate must be between 0 and 1"))
	}
	if c.FallbackMinECPM < 0 || c.FallbackMaxECPM < c.FallbackMinECPM {
		el.Add(fmt.Errorf("ads fallback ecpm range is invalid"))
	}
	for p, v := range c.Revenue {
		if !known(auction.Provider(p)) {
			el.Add(fmt.Errorf("ads.revenue: unknown provider %q", p))
		}
		if v < 0 {
			el.Add(fmt.Errorf("ads.revenue: %s must not be negative", p))
		}
	}

	return el.Err()
}

func known(p auction.Provider) bool {
	for _, k := range auction.Providers {
		if k == p {
			return true
		}
	}
	return false
}

func (c *AdsConfig) buildSource() *auction.MeasuredSource {
	var opts []auction.MeasuredSourceOpt
	if c.FallbackMaxECPM > 0 {
		opts = append(opts, auction.WithFallbackRange(c.FallbackMinECPM, c.FallbackMaxECPM))
	}
	return auction.NewMeasuredSource(auction.Providers, opts...)
}

func (c *AdsConfig) buildRefresher(source auction.Refreshable) *auction.Refresher {
	var opts []auction.RefresherOpt
	if c.RefreshInterval != "" {
		d, _ := time.ParseDuration(c.RefreshInterval)
		opts = append(opts, auction.WithRefreshInterval(d))
	}
	return auction.NewRefresher(source, opts...)
}

func (c *AdsConfig) buildPlayer(recorder reward.ImpressionRecorder) *reward.SimulatedPlayer {
	var opts []reward.SimulatedPlayerOpt
	if c.PlaybackDelay != "" {
		d, _ := time.ParseDuration(c.PlaybackDelay)
		opts = append(opts, reward.WithPlaybackDelay(d))
	}
	if c.CompletionRate > 0 {
		opts = append(opts, reward.WithCompletionRate(c.CompletionRate))
	}
	for p, v := range c.Revenue {
		opts = append(opts, reward.WithRevenue(auction.Provider(p), v))
	}
	return reward.NewSimulatedPlayer(recorder, opts...)
}
