package game

import (
	"fmt"
	"math"
	"time"

	"github.com/pixil98/go-errors"
)

// Economy holds the tuning constants of the simulation.
type Economy struct {
	// GrowthRate is the price factor applied per owned unit.
	GrowthRate     float64
	BaseClickValue float64

	XPPerClick        int64
	InitialXPRequired int64
	// XPGrowth scales XPRequired on every level up.
	XPGrowth float64

	// OfflineEfficiency is the share of passive income credited while away.
	OfflineEfficiency float64
	MinOffline        time.Duration

	TickLength    time.Duration
	EvaluateEvery int
	SaveEvery     int
}

func DefaultEconomy() Economy {
	return Economy{
		GrowthRate:        1.15,
		BaseClickValue:    1,
		XPPerClick:        1,
		InitialXPRequired: 100,
		XPGrowth:          1.5,
		OfflineEfficiency: 0.5,
		MinOffline:        60 * time.Second,
		TickLength:        time.Second,
		EvaluateEvery:     5,
		SaveEvery:         60,
	}
}

func (e Economy) Validate() error {
	el := errors.NewErrorList()

	if !(e.GrowthRate >= 1) {
		el.Add(fmt.Errorf("growth rate must be at least 1"))
	}
	if !(e.BaseClickValue > 0) {
		el.Add(fmt.Errorf("base click value must be positive"))
	}
	if e.XPPerClick < 0 {
		el.Add(fmt.Errorf("xp per click must not be negative"))
	}
	if e.InitialXPRequired < 1 {
		el.Add(fmt.Errorf("initial xp required must be positive"))
	}
	if !(e.XPGrowth >= 1) {
		el.Add(fmt.Errorf("xp growth must be at least 1"))
	}
	if e.OfflineEfficiency < 0 || e.OfflineEfficiency > 1 {
		el.Add(fmt.Errorf("offline efficiency must be between 0 and 1"))
	}
	if e.MinOffline < 0 {
		el.Add(fmt.Errorf("min offline must not be negative"))
	}
	if e.TickLength <= 0 {
		el.Add(fmt.Errorf("tick length must be positive"))
	}
	if e.EvaluateEvery < 1 {
		el.Add(fmt.Errorf("evaluate every must be at least 1"))
	}
	if e.SaveEvery < 1 {
		el.Add(fmt.Errorf("save every must be at least 1"))
	}

	return el.Err()
}

// Price returns the cost of the next unit when count are already owned.
func (e Economy) Price(basePrice float64, count int64) float64 {
	return basePrice * math.Pow(e.GrowthRate, float64(count))
}

// nextXPRequired returns the threshold for the level after one requiring cur.
func (e Economy) nextXPRequired(cur int64) int64 {
	next := int64(math.Floor(float64(cur) * e.XPGrowth))
	if next < 1 {
		next = 1
	}
	return next
}
