package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/progression"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

// Click earns the effective click value and returns it.
func (s *Store) Click(ctx context.Context) float64 {
	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	value := s.player.ClickValue * s.multipliers.AggregateFactor(multiplier.KindClick, "", now)

	s.player.TotalClicks++
	s.credit(now, value, true)
	s.emit(telemetry.EventClick, now, telemetry.Fields{"value": value})

	s.gainXP(now, s.econ.XPPerClick)
	s.advanceQuests(now, catalog.QuestClick, 1)
	s.evaluate(now)
	return value
}

// Purchase buys one unit of itemID. A failed purchase changes nothing.
func (s *Store) Purchase(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	fail := func(err error) error {
		s.emit(telemetry.EventPurchaseFailed, now, telemetry.Fields{"item": itemID, "reason": err.Error()})
		return err
	}

	item, ok := s.cat.Item(itemID)
	if !ok {
		return fail(fmt.Errorf("%w: %s", ErrUnknownItem, itemID))
	}

	count := s.countLocked(itemID)
	if item.OneTime() && count > 0 {
		return fail(fmt.Errorf("%w: %s", ErrAlreadyOwned, itemID))
	}

	price := s.econ.Price(item.BasePrice, count)
	if s.player.CurrentCurrency < price {
		return fail(fmt.Errorf("%w: %s costs %.2f", ErrInsufficientFunds, itemID, price))
	}

	s.player.CurrentCurrency -= price
	o, ok := s.owned[itemID]
	if !ok {
		o = &OwnedEntity{ID: itemID, Kind: item.Kind, PurchasedAt: now}
		s.owned[itemID] = o
	}
	o.Count++
	s.recomputeRates()

	s.emit(telemetry.EventPurchase, now, telemetry.Fields{"item": itemID, "price": price, "count": o.Count})
	s.advanceQuests(now, catalog.QuestPurchase, 1)
	s.evaluate(now)
	return nil
}

// GrantCurrency credits amount as earned currency.
func (s *Store) GrantCurrency(ctx context.Context, amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	s.credit(now, amount, true)
	s.evaluate(now)
	return nil
}

func (s *Store) AddXP(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	s.gainXP(now, amount)
	s.evaluate(now)
	return nil
}

// RewardCooldown returns how long until rewardID may be granted again.
// Zero means it is eligible now.
func (s *Store) RewardCooldown(rewardID string) (time.Duration, error) {
	r, ok := s.cat.Reward(rewardID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldowns.Remaining(rewardID, r.Cooldown(), s.clock.Now()), nil
}

// ApplyReward grants rewardID and starts its cooldown. Eligibility is
// checked again under the lock so a stale caller cannot double grant.
func (s *Store) ApplyReward(ctx context.Context, rewardID string) (Grant, error) {
	r, ok := s.cat.Reward(rewardID)
	if !ok {
		return Grant{}, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}

	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	if !s.cooldowns.Eligible(rewardID, r.Cooldown(), now) {
		return Grant{}, fmt.Errorf("%w: %s", ErrOnCooldown, rewardID)
	}

	grant := Grant{RewardID: rewardID, Name: r.Name, Type: r.Type}
	notice := Notice{Kind: NoticeRewardGranted, Name: r.Name, At: now}

	switch r.Type {
	case catalog.RewardMultiplier:
		m, err := s.multipliers.Add(r.Effect.Kind, r.Effect.Factor, r.Duration(), r.Effect.TargetID, now)
		if err != nil {
			return Grant{}, fmt.Errorf("applying reward %s: %w", rewardID, err)
		}
		grant.Multiplier = &m
		notice.Amount = m.Factor
		notice.Duration = r.Duration()
	case catalog.RewardCurrency:
		s.credit(now, r.Amount, true)
		grant.Amount = r.Amount
		notice.Amount = r.Amount
	}

	s.cooldowns.Start(rewardID, now)
	s.player.AdsWatched++
	s.notify(notice)

	s.advanceQuests(now, catalog.QuestAdWatch, 1)
	s.evaluate(now)
	return grant, nil
}

// credit adds amount to both currency totals. Earned currency also advances
// earn quests; achievement and quest payouts do not.
func (s *Store) credit(now time.Time, amount float64, earned bool) {
	if !(amount > 0) {
		return
	}
	s.player.CurrentCurrency += amount
	s.player.TotalCurrency += amount
	if earned {
		s.advanceQuests(now, catalog.QuestEarn, amount)
	}
}

func (s *Store) gainXP(now time.Time, amount int64) {
	s.player.XP += amount
	for s.player.XP >= s.player.XPRequired {
		s.player.XP -= s.player.XPRequired
		s.player.Level++
		s.player.XPRequired = s.econ.nextXPRequired(s.player.XPRequired)

		s.emit(telemetry.EventLevelUp, now, telemetry.Fields{"level": s.player.Level})
		s.notify(Notice{Kind: NoticeLevelUp, Level: s.player.Level, At: now})
	}
}

func (s *Store) advanceQuests(now time.Time, category catalog.QuestCategory, amount float64) {
	s.payout(s.evaluator.UpdateQuestProgress(now, category, amount, s.progress))
}

// evaluate unlocks achievements until none remain; payouts can push
// lifetime currency over further thresholds.
func (s *Store) evaluate(now time.Time) {
	for {
		unlocks := s.evaluator.Evaluate(now, s.stats(), s.progress)
		if len(unlocks) == 0 {
			return
		}
		s.payout(unlocks)
	}
}

func (s *Store) payout(unlocks []progression.Unlock) {
	for _, u := range unlocks {
		s.credit(u.At, u.Reward, false)

		switch u.Kind {
		case progression.UnlockAchievement:
			s.emit(telemetry.EventAchievementUnlock, u.At, telemetry.Fields{"id": u.ID, "reward": u.Reward})
			s.notify(Notice{Kind: NoticeAchievement, Name: u.Name, Amount: u.Reward, At: u.At})
		case progression.UnlockQuest:
			s.emit(telemetry.EventQuestComplete, u.At, telemetry.Fields{"id": u.ID, "reward": u.Reward})
			s.notify(Notice{Kind: NoticeQuest, Name: u.Name, Amount: u.Reward, At: u.At})
		}
	}
}

func (s *Store) recomputeRates() {
	s.player.ClickValue = s.econ.BaseClickValue * s.upgradeFactor(multiplier.KindClick, "")
	s.player.PassiveIncomePerSecond = s.income(time.Time{}, false)
}

// income sums producer output in catalog order. Building factors scale only
// their target's share; income factors scale the total. When boosted is
// false only permanent upgrades apply.
func (s *Store) income(now time.Time, boosted bool) float64 {
	var total float64
	for _, item := range s.cat.Items {
		o, ok := s.owned[item.ID]
		if !ok || item.Income == 0 {
			continue
		}

		contrib := float64(o.Count) * item.Income
		if item.Kind == catalog.ItemBuilding {
			contrib *= s.upgradeFactor(multiplier.KindBuilding, item.ID)
			if boosted {
				contrib *= s.multipliers.AggregateFactor(multiplier.KindBuilding, item.ID, now)
			}
		}
		total += contrib
	}

	total *= s.upgradeFactor(multiplier.KindIncome, "")
	if boosted {
		total *= s.multipliers.AggregateFactor(multiplier.KindIncome, "", now)
	}
	return total
}

// upgradeFactor is the product of every owned upgrade matching kind.
func (s *Store) upgradeFactor(kind multiplier.Kind, targetID string) float64 {
	factor := 1.0
	for _, item := range s.cat.Items {
		if item.Kind != catalog.ItemUpgrade || item.Effect == nil || item.Effect.Kind != kind {
			continue
		}
		if kind == multiplier.KindBuilding && item.Effect.TargetID != targetID {
			continue
		}
		if s.countLocked(item.ID) > 0 {
			factor *= item.Effect.Factor
		}
	}
	return factor
}
