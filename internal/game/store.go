package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/clock"
	"github.com/pixil98/go-tycoon/internal/cooldown"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/progression"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

// Store is the single source of truth for all mutable game state.
// All access must go through its methods to ensure thread-safety.
type Store struct {
	mu sync.Mutex
	// saveMu keeps snapshots reaching the persister in the order taken.
	saveMu sync.Mutex

	cat       *catalog.Catalog
	econ      Economy
	clock     clock.Clock
	persister Persister
	sink      telemetry.Sink
	notifier  Notifier
	evaluator *progression.Evaluator

	player      PlayerState
	owned       map[string]*OwnedEntity
	multipliers *multiplier.Engine
	cooldowns   *cooldown.Tracker
	progress    *progression.Progress
	flags       Flags
	ticks       int64

	// Queued while mu is held, delivered by release.
	events  []telemetry.Event
	notices []Notice
}

type StoreOpt func(*Store)

func WithClock(c clock.Clock) StoreOpt {
	return func(s *Store) {
		s.clock = c
	}
}

func WithEconomy(e Economy) StoreOpt {
	return func(s *Store) {
		s.econ = e
	}
}

// WithPersister enables Save, Load and Reset to reach durable storage.
// Without one the store is memory only.
func WithPersister(p Persister) StoreOpt {
	return func(s *Store) {
		s.persister = p
	}
}

func WithSink(sink telemetry.Sink) StoreOpt {
	return func(s *Store) {
		s.sink = sink
	}
}

func WithNotifier(n Notifier) StoreOpt {
	return func(s *Store) {
		s.notifier = n
	}
}

// NewStore creates a store holding a fresh game. Call Load to restore a save.
func NewStore(cat *catalog.Catalog, opts ...StoreOpt) (*Store, error) {
	s := &Store{
		cat:      cat,
		econ:     DefaultEconomy(),
		clock:    clock.Real{},
		sink:     telemetry.Nop{},
		notifier: nopNotifier{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.econ.Validate(); err != nil {
		return nil, fmt.Errorf("validating economy: %w", err)
	}

	s.evaluator = progression.NewEvaluator(cat)
	s.resetLocked()
	return s, nil
}

func (s *Store) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *Store) Economy() Economy {
	return s.econ
}

func (s *Store) resetLocked() {
	s.player = newPlayerState(s.econ)
	s.owned = map[string]*OwnedEntity{}
	s.multipliers = multiplier.NewEngine()
	s.cooldowns = cooldown.NewTracker()
	s.progress = progression.NewProgress()
	s.flags = nil
	s.ticks = 0
	s.recomputeRates()
}

// release unlocks mu and then delivers queued telemetry and notices so
// sinks never run under the lock.
func (s *Store) release(ctx context.Context) {
	events, notices := s.events, s.notices
	s.events, s.notices = nil, nil
	s.mu.Unlock()

	for _, ev := range events {
		s.sink.Emit(ctx, ev)
	}
	for _, n := range notices {
		s.notifier.Notify(ctx, n)
	}
}

func (s *Store) emit(t telemetry.EventType, now time.Time, fields telemetry.Fields) {
	s.events = append(s.events, telemetry.New(t, now, fields))
}

func (s *Store) notify(n Notice) {
	s.notices = append(s.notices, n)
}

// State returns a copy of the player state.
func (s *Store) State() PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Owned returns the purchased items in catalog order.
func (s *Store) Owned() []OwnedEntity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]OwnedEntity, 0, len(s.owned))
	for _, item := range s.cat.Items {
		if o, ok := s.owned[item.ID]; ok {
			out = append(out, *o)
		}
	}
	return out
}

// Multipliers returns the live temporary multipliers.
func (s *Store) Multipliers() []multiplier.Multiplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.multipliers.Active(s.clock.Now())
}

// Cooldowns returns the last activation time of every used reward.
func (s *Store) Cooldowns() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldowns.Entries()
}

// Achievements returns one entry per catalog achievement; locked ones have
// a zero UnlockedAt.
func (s *Store) Achievements() []progression.AchievementProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]progression.AchievementProgress, 0, len(s.cat.Achievements))
	for _, def := range s.cat.Achievements {
		ap := progression.AchievementProgress{ID: def.ID}
		if p, ok := s.progress.Achievements[def.ID]; ok {
			ap = *p
		}
		out = append(out, ap)
	}
	return out
}

// Quests returns one entry per catalog quest.
func (s *Store) Quests() []progression.QuestProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]progression.QuestProgress, 0, len(s.cat.Quests))
	for _, def := range s.cat.Quests {
		qp := progression.QuestProgress{ID: def.ID}
		if p, ok := s.progress.Quests[def.ID]; ok {
			qp = *p
		}
		out = append(out, qp)
	}
	return out
}

// Price returns the cost of the next unit of itemID.
func (s *Store) Price(itemID string) (float64, error) {
	item, ok := s.cat.Item(itemID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.econ.Price(item.BasePrice, s.countLocked(itemID)), nil
}

// EffectiveClickValue is the currency one click earns right now.
func (s *Store) EffectiveClickValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.ClickValue * s.multipliers.AggregateFactor(multiplier.KindClick, "", s.clock.Now())
}

// EffectiveIncome is the passive income per second with every live
// multiplier applied.
func (s *Store) EffectiveIncome() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.income(s.clock.Now(), true)
}

func (s *Store) SetFlag(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags.Set(key, v)
}

func (s *Store) Flag(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags.Get(key, out)
}

func (s *Store) SetEntitlement(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Entitled = active
}

// HasActiveEntitlement reports whether the player skips rewarded ads.
func (s *Store) HasActiveEntitlement() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Entitled
}

func (s *Store) countLocked(itemID string) int64 {
	if o, ok := s.owned[itemID]; ok {
		return o.Count
	}
	return 0
}

func (s *Store) stats() progression.Stats {
	st := progression.Stats{
		TotalClicks:      s.player.TotalClicks,
		LifetimeCurrency: s.player.TotalCurrency,
		Level:            s.player.Level,
		ActiveSeconds:    int64(s.player.ActiveTime / time.Second),
		AdsWatched:       s.player.AdsWatched,
	}
	for _, o := range s.owned {
		switch o.Kind {
		case catalog.ItemUpgrade:
			st.UpgradesOwned += o.Count
		default:
			st.BuildingsOwned += o.Count
		}
	}
	return st
}
