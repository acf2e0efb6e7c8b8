package game

import (
	"fmt"
	"math"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/progression"
)

const SnapshotVersion = 1

// Snapshot is the persisted form of a game. Timestamps are epoch
// milliseconds; zero means unset.
type Snapshot struct {
	Version      int                  `json:"version"`
	Player       PlayerSnapshot       `json:"player"`
	Owned        []OwnedSnapshot      `json:"owned,omitempty"`
	Multipliers  []MultiplierSnapshot `json:"multipliers,omitempty"`
	Cooldowns    map[string]int64     `json:"cooldowns,omitempty"`
	Achievements map[string]int64     `json:"achievements,omitempty"`
	Quests       []QuestSnapshot      `json:"quests,omitempty"`
	Flags        Flags                `json:"flags,omitempty"`
}

type PlayerSnapshot struct {
	CurrentCurrency        float64 `json:"current_currency"`
	TotalCurrency          float64 `json:"total_currency"`
	ClickValue             float64 `json:"click_value"`
	PassiveIncomePerSecond float64 `json:"passive_income_per_second"`
	Level                  int     `json:"level"`
	XP                     int64   `json:"xp"`
	XPRequired             int64   `json:"xp_required"`
	TotalClicks            int64   `json:"total_clicks"`
	ActiveMs               int64   `json:"active_ms"`
	AdsWatched             int64   `json:"ads_watched"`
	Entitled               bool    `json:"entitled,omitempty"`
	LastSavedAt            int64   `json:"last_saved_at"`
}

type OwnedSnapshot struct {
	ID          string           `json:"id"`
	Kind        catalog.ItemKind `json:"kind"`
	Count       int64            `json:"count"`
	PurchasedAt int64            `json:"purchased_at"`
}

type MultiplierSnapshot struct {
	Kind      multiplier.Kind `json:"kind"`
	Factor    float64         `json:"factor"`
	ExpiresAt int64           `json:"expires_at"`
	TargetID  string          `json:"target_id,omitempty"`
}

type QuestSnapshot struct {
	ID          string  `json:"id"`
	Progress    float64 `json:"progress"`
	Completed   bool    `json:"completed,omitempty"`
	CompletedAt int64   `json:"completed_at,omitempty"`
}

func (s *Snapshot) Validate() error {
	el := errors.NewErrorList()

	if s.Version != SnapshotVersion {
		el.Add(fmt.Errorf("unsupported version %d", s.Version))
	}

	p := s.Player
	if !nonNegative(p.CurrentCurrency) {
		el.Add(fmt.Errorf("current currency must be a non-negative number"))
	}
	if !nonNegative(p.TotalCurrency) {
		el.Add(fmt.Errorf("total currency must be a non-negative number"))
	}
	if p.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if p.XP < 0 {
		el.Add(fmt.Errorf("xp must not be negative"))
	}
	if p.XPRequired < 1 {
		el.Add(fmt.Errorf("xp required must be positive"))
	}
	if p.TotalClicks < 0 || p.ActiveMs < 0 || p.AdsWatched < 0 {
		el.Add(fmt.Errorf("counters must not be negative"))
	}

	for _, o := range s.Owned {
		if o.ID == "" || o.Count < 1 {
			el.Add(fmt.Errorf("owned entry %q is invalid", o.ID))
		}
	}
	for _, m := range s.Multipliers {
		if err := m.Kind.Validate(); err != nil {
			el.Add(err)
		}
		if !(m.Factor > 0) || math.IsInf(m.Factor, 1) {
			el.Add(fmt.Errorf("multiplier factor %v is invalid", m.Factor))
		}
	}
	for _, q := range s.Quests {
		if q.ID == "" || !nonNegative(q.Progress) {
			el.Add(fmt.Errorf("quest entry %q is invalid", q.ID))
		}
	}

	return el.Err()
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func toMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// snapshot captures the current state. Caller holds mu.
func (s *Store) snapshot(now time.Time) *Snapshot {
	p := s.player
	snap := &Snapshot{
		Version: SnapshotVersion,
		Player: PlayerSnapshot{
			CurrentCurrency:        p.CurrentCurrency,
			TotalCurrency:          p.TotalCurrency,
			ClickValue:             p.ClickValue,
			PassiveIncomePerSecond: p.PassiveIncomePerSecond,
			Level:                  p.Level,
			XP:                     p.XP,
			XPRequired:             p.XPRequired,
			TotalClicks:            p.TotalClicks,
			ActiveMs:               p.ActiveTime.Milliseconds(),
			AdsWatched:             p.AdsWatched,
			Entitled:               p.Entitled,
			LastSavedAt:            toMs(p.LastSavedAt),
		},
		Cooldowns:    map[string]int64{},
		Achievements: map[string]int64{},
		Flags:        s.flags.clone(),
	}

	for _, item := range s.cat.Items {
		if o, ok := s.owned[item.ID]; ok {
			snap.Owned = append(snap.Owned, OwnedSnapshot{
				ID:          o.ID,
				Kind:        o.Kind,
				Count:       o.Count,
				PurchasedAt: toMs(o.PurchasedAt),
			})
		}
	}

	for _, m := range s.multipliers.Active(now) {
		snap.Multipliers = append(snap.Multipliers, MultiplierSnapshot{
			Kind:      m.Kind,
			Factor:    m.Factor,
			ExpiresAt: toMs(m.ExpiresAt),
			TargetID:  m.TargetID,
		})
	}

	for id, at := range s.cooldowns.Entries() {
		snap.Cooldowns[id] = toMs(at)
	}

	for id, ap := range s.progress.Achievements {
		if ap.Unlocked() {
			snap.Achievements[id] = toMs(ap.UnlockedAt)
		}
	}

	for _, def := range s.cat.Quests {
		if qp, ok := s.progress.Quests[def.ID]; ok {
			snap.Quests = append(snap.Quests, QuestSnapshot{
				ID:          qp.ID,
				Progress:    qp.Progress,
				Completed:   qp.Completed,
				CompletedAt: toMs(qp.CompletedAt),
			})
		}
	}

	return snap
}

// restore replaces the state with snap. Rates are recomputed from owned
// items so catalog changes take effect. Caller holds mu and has validated
// snap.
func (s *Store) restore(snap *Snapshot, now time.Time) []string {
	var skipped []string

	p := snap.Player
	s.player = PlayerState{
		CurrentCurrency: p.CurrentCurrency,
		TotalCurrency:   math.Max(p.TotalCurrency, p.CurrentCurrency),
		Level:           p.Level,
		XP:              p.XP,
		XPRequired:      p.XPRequired,
		TotalClicks:     p.TotalClicks,
		ActiveTime:      time.Duration(p.ActiveMs) * time.Millisecond,
		AdsWatched:      p.AdsWatched,
		Entitled:        p.Entitled,
		LastSavedAt:     fromMs(p.LastSavedAt),
	}

	for _, o := range snap.Owned {
		item, ok := s.cat.Item(o.ID)
		if !ok {
			skipped = append(skipped, o.ID)
			continue
		}
		count := o.Count
		if item.OneTime() {
			count = 1
		}
		s.owned[o.ID] = &OwnedEntity{
			ID:          o.ID,
			Kind:        item.Kind,
			Count:       count,
			PurchasedAt: fromMs(o.PurchasedAt),
		}
	}

	ms := make([]multiplier.Multiplier, 0, len(snap.Multipliers))
	for _, m := range snap.Multipliers {
		ms = append(ms, multiplier.Multiplier{
			Kind:      m.Kind,
			Factor:    m.Factor,
			ExpiresAt: fromMs(m.ExpiresAt),
			TargetID:  m.TargetID,
		})
	}
	s.multipliers.Restore(ms)
	s.multipliers.PruneExpired(now)

	cds := make(map[string]time.Time, len(snap.Cooldowns))
	for id, at := range snap.Cooldowns {
		cds[id] = fromMs(at)
	}
	s.cooldowns.Restore(cds, now)

	for id, at := range snap.Achievements {
		if _, ok := s.cat.Achievement(id); !ok || at == 0 {
			continue
		}
		s.progress.Achievements[id] = &progression.AchievementProgress{ID: id, UnlockedAt: fromMs(at)}
	}
	for _, q := range snap.Quests {
		if _, ok := s.cat.Quest(q.ID); !ok {
			continue
		}
		s.progress.Quests[q.ID] = &progression.QuestProgress{
			ID:          q.ID,
			Progress:    q.Progress,
			Completed:   q.Completed,
			CompletedAt: fromMs(q.CompletedAt),
		}
	}

	s.flags = snap.Flags.clone()
	s.recomputeRates()
	return skipped
}
