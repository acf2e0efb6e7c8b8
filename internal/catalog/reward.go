package catalog

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// RewardType is what watching an ad for a reward grants.
type RewardType string

const (
	RewardCurrency   RewardType = "currency"
	RewardMultiplier RewardType = "multiplier"
)

// Reward is an ad-unlocked booster. All per-reward factors, durations and
// cooldowns live here rather than at call sites.
type Reward struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Type       RewardType `json:"type"`
	Amount     float64    `json:"amount,omitempty"`
	Effect     *Effect    `json:"effect,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`
	CooldownMs int64      `json:"cooldown_ms"`
	Order      int        `json:"order"`
}

func (r *Reward) Duration() time.Duration {
	return time.Duration(r.DurationMs) * time.Millisecond
}

func (r *Reward) Cooldown() time.Duration {
	return time.Duration(r.CooldownMs) * time.Millisecond
}

func (r *Reward) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if r.CooldownMs < 0 {
		el.Add(fmt.Errorf("cooldown_ms must not be negative"))
	}

	switch r.Type {
	case RewardCurrency:
		if !(r.Amount > 0) {
			el.Add(fmt.Errorf("currency reward requires a positive amount"))
		}
	case RewardMultiplier:
		if r.Effect == nil {
			el.Add(fmt.Errorf("multiplier reward requires an effect"))
		} else {
			el.Add(r.Effect.Validate())
		}
		if r.DurationMs <= 0 {
			el.Add(fmt.Errorf("multiplier reward requires a positive duration_ms"))
		}
	default:
		el.Add(fmt.Errorf("unknown reward type %q", r.Type))
	}

	return el.Err()
}
