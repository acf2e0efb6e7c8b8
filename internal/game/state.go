package game

import (
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/multiplier"
)

// PlayerState is the scalar state of the player.
type PlayerState struct {
	CurrentCurrency float64
	// TotalCurrency is lifetime earnings. It never decreases.
	TotalCurrency float64
	// ClickValue and PassiveIncomePerSecond include permanent upgrades but
	// not temporary multipliers.
	ClickValue             float64
	PassiveIncomePerSecond float64

	Level      int
	XP         int64
	XPRequired int64

	TotalClicks int64
	ActiveTime  time.Duration
	AdsWatched  int64
	Entitled    bool

	LastSavedAt time.Time
}

func newPlayerState(econ Economy) PlayerState {
	return PlayerState{
		ClickValue: econ.BaseClickValue,
		Level:      1,
		XPRequired: econ.InitialXPRequired,
	}
}

// OwnedEntity records a purchased catalog item.
type OwnedEntity struct {
	ID          string
	Kind        catalog.ItemKind
	Count       int64
	PurchasedAt time.Time
}

// Grant describes what ApplyReward handed out.
type Grant struct {
	RewardID   string
	Name       string
	Type       catalog.RewardType
	Amount     float64
	Multiplier *multiplier.Multiplier
}
