package cooldown

import (
	"maps"
	"time"
)

// Tracker records the last successful activation of each reward. It is a
// pure function of time; it never schedules anything.
type Tracker struct {
	lastUsed map[string]time.Time
}

func NewTracker() *Tracker {
	return &Tracker{lastUsed: map[string]time.Time{}}
}

// Eligible reports whether id may be activated at now. Ids that were never
// activated are always eligible.
func (t *Tracker) Eligible(id string, cooldown time.Duration, now time.Time) bool {
	return t.Remaining(id, cooldown, now) == 0
}

// Remaining returns how long until id becomes eligible, or zero.
func (t *Tracker) Remaining(id string, cooldown time.Duration, now time.Time) time.Duration {
	last, ok := t.lastUsed[id]
	if !ok {
		return 0
	}
	elapsed := now.Sub(last)
	if elapsed >= cooldown {
		return 0
	}
	return cooldown - elapsed
}

// Start records an activation of id at now.
func (t *Tracker) Start(id string, now time.Time) {
	t.lastUsed[id] = now
}

// Entries returns a copy of the activation map.
func (t *Tracker) Entries() map[string]time.Time {
	return maps.Clone(t.lastUsed)
}

// Restore replaces the activation map. Timestamps later than now are clamped
// to now so a skewed save cannot extend a cooldown.
func (t *Tracker) Restore(entries map[string]time.Time, now time.Time) {
	t.lastUsed = make(map[string]time.Time, len(entries))
	for id, at := range entries {
		if at.After(now) {
			at = now
		}
		t.lastUsed[id] = at
	}
}
