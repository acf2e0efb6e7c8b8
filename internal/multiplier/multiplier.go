package multiplier

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidFactor   = errors.New("multiplier factor must be positive")
	ErrInvalidDuration = errors.New("multiplier duration must be positive")
	ErrUnknownKind     = errors.New("unknown multiplier kind")
)

// Kind is the value a multiplier amplifies.
type Kind string

const (
	KindClick    Kind = "click"
	KindIncome   Kind = "income"
	KindBuilding Kind = "building"
)

func (k Kind) Validate() error {
	switch k {
	case KindClick, KindIncome, KindBuilding:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, string(k))
	}
}

// Multiplier is a time-boxed boost. ExpiresAt is absolute so it survives reloads.
type Multiplier struct {
	Kind      Kind
	Factor    float64
	ExpiresAt time.Time
	TargetID  string
}

// Live reports whether the multiplier still applies at now.
func (m Multiplier) Live(now time.Time) bool {
	return m.ExpiresAt.After(now)
}

func (m Multiplier) matches(kind Kind, targetID string) bool {
	if m.Kind != kind {
		return false
	}
	if kind == KindBuilding {
		return m.TargetID == targetID
	}
	return true
}

// Engine keeps the list of active multipliers. It is not safe for concurrent
// use; the owning store serializes access.
type Engine struct {
	active []Multiplier
}

func NewEngine() *Engine {
	return &Engine{}
}

// Add appends a multiplier expiring duration after now. Entries of the same
// kind and target stack rather than replace each other.
func (e *Engine) Add(kind Kind, factor float64, duration time.Duration, targetID string, now time.Time) (Multiplier, error) {
	if err := kind.Validate(); err != nil {
		return Multiplier{}, err
	}
	if !(factor > 0) {
		return Multiplier{}, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	if duration <= 0 {
		return Multiplier{}, fmt.Errorf("%w: %s", ErrInvalidDuration, duration)
	}

	m := Multiplier{
		Kind:      kind,
		Factor:    factor,
		ExpiresAt: now.Add(duration),
		TargetID:  targetID,
	}
	e.active = append(e.active, m)
	return m, nil
}

// PruneExpired drops every entry with ExpiresAt <= now and returns how many
// were removed.
func (e *Engine) PruneExpired(now time.Time) int {
	kept := e.active[:0]
	for _, m := range e.active {
		if m.Live(now) {
			kept = append(kept, m)
		}
	}
	removed := len(e.active) - len(kept)
	for i := len(kept); i < len(e.active); i++ {
		e.active[i] = Multiplier{}
	}
	e.active = kept
	return removed
}

// AggregateFactor is the product of all live factors for kind. targetID is
// only compared for building multipliers. Returns 1 when nothing matches.
func (e *Engine) AggregateFactor(kind Kind, targetID string, now time.Time) float64 {
	e.PruneExpired(now)

	f := 1.0
	for _, m := range e.active {
		if m.matches(kind, targetID) {
			f *= m.Factor
		}
	}
	return f
}

// Active returns a copy of the live multipliers after pruning.
func (e *Engine) Active(now time.Time) []Multiplier {
	e.PruneExpired(now)

	out := make([]Multiplier, len(e.active))
	copy(out, e.active)
	return out
}

// Restore replaces the list, skipping entries that could never apply.
func (e *Engine) Restore(ms []Multiplier) {
	e.active = e.active[:0]
	for _, m := range ms {
		if m.Kind.Validate() != nil || !(m.Factor > 0) {
			continue
		}
		e.active = append(e.active, m)
	}
}
