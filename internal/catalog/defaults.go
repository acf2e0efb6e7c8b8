package catalog

import "github.com/pixil98/go-tycoon/internal/multiplier"

// Default returns the built-in catalog used when no asset paths are configured.
func Default() *Catalog {
	c, err := New(DefaultItems(), DefaultAchievements(), DefaultQuests(), DefaultRewards())
	if err != nil {
		panic("default catalog is invalid: " + err.Error())
	}
	return c
}

func DefaultItems() []*Item {
	return []*Item{
		{ID: "lemonade_stand", Name: "Lemonade Stand", Kind: ItemBuilding, BasePrice: 15, Income: 0.1, Order: 10},
		{ID: "farm", Name: "Farm", Kind: ItemBuilding, BasePrice: 100, Income: 1, Order: 20},
		{ID: "factory", Name: "Factory", Kind: ItemBuilding, BasePrice: 1100, Income: 8, Order: 30},
		{ID: "bank", Name: "Bank", Kind: ItemBuilding, BasePrice: 12000, Income: 47, Order: 40},
		{ID: "strong_finger", Name: "Strong Finger", Kind: ItemUpgrade, BasePrice: 100, Order: 100,
			Effect: &Effect{Kind: multiplier.KindClick, Factor: 2}},
		{ID: "assembly_line", Name: "Assembly Line", Kind: ItemUpgrade, BasePrice: 500, Order: 110,
			Effect: &Effect{Kind: multiplier.KindIncome, Factor: 1.5}},
		{ID: "fertilizer", Name: "Fertilizer", Kind: ItemUpgrade, BasePrice: 1000, Order: 120,
			Effect: &Effect{Kind: multiplier.KindBuilding, Factor: 2, TargetID: "farm"}},
		{ID: "corner_shop", Name: "Corner Shop", Kind: ItemRealEstate, BasePrice: 5000, Income: 20, Order: 200},
		{ID: "office_tower", Name: "Office Tower", Kind: ItemRealEstate, BasePrice: 50000, Income: 150, Order: 210},
	}
}

func DefaultAchievements() []*Achievement {
	return []*Achievement{
		{ID: "first_click", Name: "First Click", Metric: MetricTotalClicks, Target: 1, Reward: 10, Order: 10},
		{ID: "hundred_clicks", Name: "Clicker", Metric: MetricTotalClicks, Target: 100, Reward: 100, Order: 20},
		{ID: "first_building", Name: "Landlord", Metric: MetricBuildingsOwned, Target: 1, Reward: 25, Order: 30},
		{ID: "ten_buildings", Name: "Developer", Metric: MetricBuildingsOwned, Target: 10, Reward: 500, Order: 40},
		{ID: "first_upgrade", Name: "Tinkerer", Metric: MetricUpgradesOwned, Target: 1, Reward: 50, Order: 50},
		{ID: "thousandaire", Name: "Thousandaire", Metric: MetricLifetimeCurrency, Target: 1000, Reward: 100, Order: 60},
		{ID: "millionaire", Name: "Millionaire", Metric: MetricLifetimeCurrency, Target: 1e6, Reward: 10000, Order: 70},
		{ID: "level_five", Name: "Rising Star", Metric: MetricLevel, Target: 5, Reward: 250, Order: 80},
		{ID: "ad_fan", Name: "Ad Fan", Metric: MetricAdsWatched, Target: 5, Reward: 500, Order: 90},
		{ID: "hour_played", Name: "Dedicated", Metric: MetricActiveSeconds, Target: 3600, Reward: 1000, Order: 100},
	}
}

func DefaultQuests() []*Quest {
	return []*Quest{
		{ID: "click_50", Name: "Click 50 times", Category: QuestClick, Target: 50, Reward: 50, Order: 10},
		{ID: "buy_5", Name: "Make 5 purchases", Category: QuestPurchase, Target: 5, Reward: 100, Order: 20},
		{ID: "watch_3", Name: "Watch 3 ads", Category: QuestAdWatch, Target: 3, Reward: 300, Order: 30},
		{ID: "earn_10k", Name: "Earn 10,000", Category: QuestEarn, Target: 10000, Reward: 1000, Order: 40},
	}
}

func DefaultRewards() []*Reward {
	return []*Reward{
		{ID: "income_boost", Name: "Double Income", Type: RewardMultiplier,
			Effect:     &Effect{Kind: multiplier.KindIncome, Factor: 2},
			DurationMs: 5 * 60 * 1000, CooldownMs: 3 * 60 * 1000, Order: 10},
		{ID: "click_frenzy", Name: "Click Frenzy", Type: RewardMultiplier,
			Effect:     &Effect{Kind: multiplier.KindClick, Factor: 5},
			DurationMs: 30 * 1000, CooldownMs: 3 * 60 * 1000, Order: 20},
		{ID: "farm_boost", Name: "Harvest Festival", Type: RewardMultiplier,
			Effect:     &Effect{Kind: multiplier.KindBuilding, Factor: 3, TargetID: "farm"},
			DurationMs: 2 * 60 * 1000, CooldownMs: 5 * 60 * 1000, Order: 30},
		{ID: "cash_bundle", Name: "Cash Bundle", Type: RewardCurrency, Amount: 500,
			CooldownMs: 10 * 60 * 1000, Order: 40},
	}
}
