package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/clock"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/storage"
)

var testStart = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	items := []*catalog.Item{
		{ID: "stand", Name: "Stand", Kind: catalog.ItemBuilding, BasePrice: 10, Income: 1, Order: 1},
		{ID: "farm", Name: "Farm", Kind: catalog.ItemBuilding, BasePrice: 100, Income: 5, Order: 2},
		{ID: "glove", Name: "Glove", Kind: catalog.ItemUpgrade, BasePrice: 50, Order: 3,
			Effect: &catalog.Effect{Kind: multiplier.KindClick, Factor: 2}},
		{ID: "signage", Name: "Signage", Kind: catalog.ItemUpgrade, BasePrice: 20, Order: 4,
			Effect: &catalog.Effect{Kind: multiplier.KindBuilding, Factor: 3, TargetID: "stand"}},
		{ID: "estate", Name: "Estate", Kind: catalog.ItemRealEstate, BasePrice: 1000, Income: 10, Order: 5},
	}
	achievements := []*catalog.Achievement{
		{ID: "clicks_10", Name: "Ten Clicks", Metric: catalog.MetricTotalClicks, Target: 10, Reward: 5, Order: 1},
	}
	quests := []*catalog.Quest{
		{ID: "click_5", Name: "Click Five", Category: catalog.QuestClick, Target: 5, Reward: 2, Order: 1},
	}
	rewards := []*catalog.Reward{
		{ID: "boost", Name: "Income Boost", Type: catalog.RewardMultiplier, DurationMs: 300000, CooldownMs: 180000, Order: 1,
			Effect: &catalog.Effect{Kind: multiplier.KindIncome, Factor: 2}},
		{ID: "frenzy", Name: "Click Frenzy", Type: catalog.RewardMultiplier, DurationMs: 30000, CooldownMs: 180000, Order: 2,
			Effect: &catalog.Effect{Kind: multiplier.KindClick, Factor: 5}},
		{ID: "stand_boost", Name: "Stand Boost", Type: catalog.RewardMultiplier, DurationMs: 120000, CooldownMs: 300000, Order: 3,
			Effect: &catalog.Effect{Kind: multiplier.KindBuilding, Factor: 3, TargetID: "stand"}},
		{ID: "bundle", Name: "Cash Bundle", Type: catalog.RewardCurrency, Amount: 500, CooldownMs: 600000, Order: 4},
	}

	cat, err := catalog.New(items, achievements, quests, rewards)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return cat
}

func newTestStore(t *testing.T, opts ...StoreOpt) (*Store, *clock.Manual) {
	t.Helper()

	clk := clock.NewManual(testStart)
	s, err := NewStore(testCatalog(t), append([]StoreOpt{WithClock(clk)}, opts...)...)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s, clk
}

func newTestPersister(t *testing.T) (*BlobPersister, *storage.BlobStore) {
	t.Helper()

	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating blob store: %v", err)
	}
	return NewBlobPersister(blobs), blobs
}

func fund(t *testing.T, s *Store, amount float64) {
	t.Helper()
	if err := s.GrantCurrency(context.Background(), amount); err != nil {
		t.Fatalf("granting currency: %v", err)
	}
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) count(kind NoticeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, no := range r.notices {
		if no.Kind == kind {
			n++
		}
	}
	return n
}

// comparableState drops the location from LastSavedAt, which a save
// round trip does not keep.
func comparableState(st PlayerState) PlayerState {
	if !st.LastSavedAt.IsZero() {
		st.LastSavedAt = time.UnixMilli(st.LastSavedAt.UnixMilli()).UTC()
	}
	return st
}

func progressionSummary(s *Store) string {
	var parts []string
	for _, a := range s.Achievements() {
		parts = append(parts, fmt.Sprintf("%s:%d", a.ID, unixMilli(a.UnlockedAt)))
	}
	for _, q := range s.Quests() {
		parts = append(parts, fmt.Sprintf("%s:%g:%t:%d", q.ID, q.Progress, q.Completed, unixMilli(q.CompletedAt)))
	}
	return strings.Join(parts, ",")
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
