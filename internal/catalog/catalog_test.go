package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/storage"
)

func TestDefault(t *testing.T) {
	c := Default()

	testutil.AssertEqual(t, "items", len(c.Items), len(DefaultItems()))
	testutil.AssertEqual(t, "achievements", len(c.Achievements), len(DefaultAchievements()))
	testutil.AssertEqual(t, "quests", len(c.Quests), len(DefaultQuests()))
	testutil.AssertEqual(t, "rewards", len(c.Rewards), len(DefaultRewards()))

	farm, ok := c.Item("farm")
	testutil.AssertEqual(t, "farm found", ok, true)
	testutil.AssertEqual(t, "farm kind", farm.Kind, ItemBuilding)
	testutil.AssertEqual(t, "farm repeatable", farm.OneTime(), false)

	shop, _ := c.Item("corner_shop")
	testutil.AssertEqual(t, "real estate one-time", shop.OneTime(), true)

	boost, ok := c.Reward("income_boost")
	testutil.AssertEqual(t, "reward found", ok, true)
	testutil.AssertEqual(t, "cooldown", boost.Cooldown().Milliseconds(), int64(180000))
}

func TestNew_Ordering(t *testing.T) {
	c, err := New(nil, []*Achievement{
		{ID: "b", Name: "B", Metric: MetricLevel, Target: 1, Order: 2},
		{ID: "z", Name: "Z", Metric: MetricLevel, Target: 1, Order: 1},
		{ID: "a", Name: "A", Metric: MetricLevel, Target: 1, Order: 2},
	}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, a := range c.Achievements {
		ids = append(ids, a.ID)
	}
	testutil.AssertEqual(t, "order", strings.Join(ids, ","), "z,a,b")
}

func TestNew_Validation(t *testing.T) {
	tests := map[string]struct {
		items   []*Item
		rewards []*Reward
		expErr  string
	}{
		"duplicate item": {
			items: []*Item{
				{ID: "farm", Name: "Farm", Kind: ItemBuilding, BasePrice: 1},
				{ID: "farm", Name: "Farm", Kind: ItemBuilding, BasePrice: 1},
			},
			expErr: `duplicate item id "farm"`,
		},
		"missing id": {
			items:  []*Item{{Name: "Farm", Kind: ItemBuilding, BasePrice: 1}},
			expErr: "item without id",
		},
		"upgrade without effect": {
			items:  []*Item{{ID: "u", Name: "U", Kind: ItemUpgrade, BasePrice: 1}},
			expErr: "upgrade requires an effect",
		},
		"building with effect": {
			items: []*Item{{ID: "b", Name: "B", Kind: ItemBuilding, BasePrice: 1,
				Effect: &Effect{Kind: multiplier.KindClick, Factor: 2}}},
			expErr: "building items cannot carry an effect",
		},
		"free item": {
			items:  []*Item{{ID: "b", Name: "B", Kind: ItemBuilding}},
			expErr: "base_price must be positive",
		},
		"dangling building target": {
			items: []*Item{{ID: "u", Name: "U", Kind: ItemUpgrade, BasePrice: 1,
				Effect: &Effect{Kind: multiplier.KindBuilding, Factor: 2, TargetID: "mine"}}},
			expErr: `target "mine" is not an item`,
		},
		"target is not a building": {
			items: []*Item{
				{ID: "shop", Name: "Shop", Kind: ItemRealEstate, BasePrice: 1},
				{ID: "u", Name: "U", Kind: ItemUpgrade, BasePrice: 1,
					Effect: &Effect{Kind: multiplier.KindBuilding, Factor: 2, TargetID: "shop"}},
			},
			expErr: `target "shop" is not a building`,
		},
		"multiplier reward without duration": {
			rewards: []*Reward{{ID: "r", Name: "R", Type: RewardMultiplier,
				Effect: &Effect{Kind: multiplier.KindIncome, Factor: 2}}},
			expErr: "requires a positive duration_ms",
		},
		"currency reward without amount": {
			rewards: []*Reward{{ID: "r", Name: "R", Type: RewardCurrency}},
			expErr:  "requires a positive amount",
		},
		"reward with zero factor": {
			rewards: []*Reward{{ID: "r", Name: "R", Type: RewardMultiplier, DurationMs: 1,
				Effect: &Effect{Kind: multiplier.KindIncome, Factor: 0}}},
			expErr: "factor must be positive",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(tt.items, nil, nil, tt.rewards)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestFromStores(t *testing.T) {
	root := t.TempDir()
	dirs := map[string]string{}
	for _, name := range []string{"items", "achievements", "quests", "rewards"} {
		dirs[name] = filepath.Join(root, name)
		if err := os.Mkdir(dirs[name], 0755); err != nil {
			t.Fatalf("creating dir: %v", err)
		}
	}

	write := func(dir, id string, spec any) {
		data, err := json.Marshal(map[string]any{"version": 1, "id": id, "spec": spec})
		if err != nil {
			t.Fatalf("marshalling: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0644); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}
	write(dirs["items"], "mill", Item{Name: "Mill", Kind: ItemBuilding, BasePrice: 10, Income: 1})
	write(dirs["achievements"], "first_mill", Achievement{Name: "Miller", Metric: MetricBuildingsOwned, Target: 1, Reward: 5})
	write(dirs["quests"], "click_5", Quest{Name: "Click", Category: QuestClick, Target: 5, Reward: 5})
	write(dirs["rewards"], "coins", Reward{Name: "Coins", Type: RewardCurrency, Amount: 10, CooldownMs: 1000})

	items, err := storage.NewFileStore[*Item](dirs["items"])
	if err != nil {
		t.Fatalf("loading items: %v", err)
	}
	achievements, err := storage.NewFileStore[*Achievement](dirs["achievements"])
	if err != nil {
		t.Fatalf("loading achievements: %v", err)
	}
	quests, err := storage.NewFileStore[*Quest](dirs["quests"])
	if err != nil {
		t.Fatalf("loading quests: %v", err)
	}
	rewards, err := storage.NewFileStore[*Reward](dirs["rewards"])
	if err != nil {
		t.Fatalf("loading rewards: %v", err)
	}

	c, err := FromStores(items, achievements, quests, rewards)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mill, ok := c.Item("mill")
	testutil.AssertEqual(t, "mill found", ok, true)
	testutil.AssertEqual(t, "mill id", mill.ID, "mill")
	_, ok = c.Reward("coins")
	testutil.AssertEqual(t, "reward found", ok, true)
}
