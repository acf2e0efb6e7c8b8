package auction

import (
	"math/rand/v2"
	"sync"
)

const (
	DefaultFallbackMinECPM = 1.0
	DefaultFallbackMaxECPM = 5.0
)

// StaticSource always returns the same bids.
type StaticSource []Bid

func (s StaticSource) Bids() []Bid {
	out := make([]Bid, len(s))
	copy(out, s)
	return out
}

type counters struct {
	impressions int64
	revenue     float64
}

// MeasuredSource derives bids from observed revenue and impressions. A
// provider with no impressions yet bids a bounded random draw so that both
// networks get traffic until measurements exist.
type MeasuredSource struct {
	mu sync.RWMutex

	providers []Provider
	counters  map[Provider]*counters
	ecpm      map[Provider]float64
	minECPM   float64
	maxECPM   float64
	draw      func() float64
}

type MeasuredSourceOpt func(*MeasuredSource)

// WithFallbackRange bounds the random bid used for unmeasured providers.
func WithFallbackRange(minECPM, maxECPM float64) MeasuredSourceOpt {
	return func(s *MeasuredSource) {
		s.minECPM = minECPM
		s.maxECPM = maxECPM
	}
}

// WithDraw replaces the uniform [0,1) random draw.
func WithDraw(draw func() float64) MeasuredSourceOpt {
	return func(s *MeasuredSource) {
		s.draw = draw
	}
}

func NewMeasuredSource(providers []Provider, opts ...MeasuredSourceOpt) *MeasuredSource {
	s := &MeasuredSource{
		providers: providers,
		counters:  make(map[Provider]*counters, len(providers)),
		ecpm:      make(map[Provider]float64, len(providers)),
		minECPM:   DefaultFallbackMinECPM,
		maxECPM:   DefaultFallbackMaxECPM,
		draw:      rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxECPM < s.minECPM {
		s.minECPM, s.maxECPM = s.maxECPM, s.minECPM
	}
	for _, p := range providers {
		s.counters[p] = &counters{}
	}
	return s
}

// RecordImpression adds one completed impression earning revenue.
func (s *MeasuredSource) RecordImpression(p Provider, revenue float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[p]
	if !ok {
		return
	}
	c.impressions++
	if revenue > 0 {
		c.revenue += revenue
	}
}

// Refresh recomputes measured eCPM from the counters.
func (s *MeasuredSource) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for p, c := range s.counters {
		if c.impressions == 0 {
			delete(s.ecpm, p)
			continue
		}
		s.ecpm[p] = c.revenue / float64(c.impressions) * 1000
	}
}

// Bids returns one bid per provider in priority order.
func (s *MeasuredSource) Bids() []Bid {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := make([]Bid, 0, len(s.providers))
	for _, p := range s.providers {
		ecpm, ok := s.ecpm[p]
		if !ok {
			ecpm = s.minECPM + s.draw()*(s.maxECPM-s.minECPM)
		}
		bids = append(bids, Bid{Provider: p, ECPM: ecpm})
	}
	return bids
}

// Impressions returns the recorded impression count for p.
func (s *MeasuredSource) Impressions(p Provider) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.counters[p]; ok {
		return c.impressions
	}
	return 0
}
