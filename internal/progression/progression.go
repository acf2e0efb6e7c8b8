package progression

import (
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
)

// Stats is the snapshot of player statistics achievements are checked against.
type Stats struct {
	TotalClicks      int64
	LifetimeCurrency float64
	BuildingsOwned   int64
	UpgradesOwned    int64
	Level            int
	ActiveSeconds    int64
	AdsWatched       int64
}

// Value returns the statistic an achievement metric reads.
func (s Stats) Value(m catalog.Metric) float64 {
	switch m {
	case catalog.MetricTotalClicks:
		return float64(s.TotalClicks)
	case catalog.MetricLifetimeCurrency:
		return s.LifetimeCurrency
	case catalog.MetricBuildingsOwned:
		return float64(s.BuildingsOwned)
	case catalog.MetricUpgradesOwned:
		return float64(s.UpgradesOwned)
	case catalog.MetricLevel:
		return float64(s.Level)
	case catalog.MetricActiveSeconds:
		return float64(s.ActiveSeconds)
	case catalog.MetricAdsWatched:
		return float64(s.AdsWatched)
	default:
		return 0
	}
}

type AchievementProgress struct {
	ID         string
	UnlockedAt time.Time
}

// Unlocked reports whether the achievement has been earned. Once set,
// UnlockedAt is never cleared.
func (a *AchievementProgress) Unlocked() bool {
	return !a.UnlockedAt.IsZero()
}

type QuestProgress struct {
	ID          string
	Progress    float64
	Completed   bool
	CompletedAt time.Time
}

// Progress is the mutable achievement and quest state of one player.
type Progress struct {
	Achievements map[string]*AchievementProgress
	Quests       map[string]*QuestProgress
}

func NewProgress() *Progress {
	return &Progress{
		Achievements: map[string]*AchievementProgress{},
		Quests:       map[string]*QuestProgress{},
	}
}

type UnlockKind string

const (
	UnlockAchievement UnlockKind = "achievement"
	UnlockQuest       UnlockKind = "quest"
)

// Unlock is one newly earned achievement or completed quest. The caller
// grants Reward exactly once per Unlock.
type Unlock struct {
	Kind   UnlockKind
	ID     string
	Name   string
	Reward float64
	At     time.Time
}

type Evaluator struct {
	cat *catalog.Catalog
}

func NewEvaluator(cat *catalog.Catalog) *Evaluator {
	return &Evaluator{cat: cat}
}

// Evaluate unlocks every achievement whose metric has reached its target,
// in catalog order. Achievements already unlocked are skipped, so repeated
// calls with unchanged stats return nothing.
func (e *Evaluator) Evaluate(now time.Time, stats Stats, p *Progress) []Unlock {
	var unlocks []Unlock
	for _, def := range e.cat.Achievements {
		ap, ok := p.Achievements[def.ID]
		if ok && ap.Unlocked() {
			continue
		}
		if stats.Value(def.Metric) < def.Target {
			continue
		}

		if !ok {
			ap = &AchievementProgress{ID: def.ID}
			p.Achievements[def.ID] = ap
		}
		ap.UnlockedAt = now
		unlocks = append(unlocks, Unlock{
			Kind:   UnlockAchievement,
			ID:     def.ID,
			Name:   def.Name,
			Reward: def.Reward,
			At:     now,
		})
	}
	return unlocks
}

// UpdateQuestProgress adds amount to every open quest in category and
// completes those reaching their target. Non-positive amounts are ignored.
func (e *Evaluator) UpdateQuestProgress(now time.Time, category catalog.QuestCategory, amount float64, p *Progress) []Unlock {
	if !(amount > 0) {
		return nil
	}

	var unlocks []Unlock
	for _, def := range e.cat.Quests {
		if def.Category != category {
			continue
		}
		qp, ok := p.Quests[def.ID]
		if !ok {
			qp = &QuestProgress{ID: def.ID}
			p.Quests[def.ID] = qp
		}
		if qp.Completed {
			continue
		}

		qp.Progress += amount
		if qp.Progress < def.Target {
			continue
		}

		qp.Progress = def.Target
		qp.Completed = true
		qp.CompletedAt = now
		unlocks = append(unlocks, Unlock{
			Kind:   UnlockQuest,
			ID:     def.ID,
			Name:   def.Name,
			Reward: def.Reward,
			At:     now,
		})
	}
	return unlocks
}
