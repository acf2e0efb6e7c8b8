package catalog

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/multiplier"
)

// ItemKind decides how a purchasable item behaves once bought.
type ItemKind string

const (
	// ItemBuilding can be bought repeatedly and produces income per unit.
	ItemBuilding ItemKind = "building"
	// ItemUpgrade is bought once and applies a permanent factor.
	ItemUpgrade ItemKind = "upgrade"
	// ItemRealEstate is bought once and produces income.
	ItemRealEstate ItemKind = "real_estate"
)

// Effect is a multiplicative factor applied to clicks, income or one building.
type Effect struct {
	Kind     multiplier.Kind `json:"kind"`
	Factor   float64         `json:"factor"`
	TargetID string          `json:"target_id,omitempty"`
}

func (e *Effect) Validate() error {
	el := errors.NewErrorList()

	el.Add(e.Kind.Validate())
	if !(e.Factor > 0) {
		el.Add(fmt.Errorf("factor must be positive"))
	}
	if e.Kind == multiplier.KindBuilding && e.TargetID == "" {
		el.Add(fmt.Errorf("building effect requires target_id"))
	}

	return el.Err()
}

type Item struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Kind      ItemKind `json:"kind"`
	BasePrice float64  `json:"base_price"`
	Income    float64  `json:"income,omitempty"`
	Effect    *Effect  `json:"effect,omitempty"`
	Order     int      `json:"order"`
}

// OneTime reports whether the item may only be owned once.
func (i *Item) OneTime() bool {
	return i.Kind != ItemBuilding
}

func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if !(i.BasePrice > 0) {
		el.Add(fmt.Errorf("base_price must be positive"))
	}
	if i.Income < 0 {
		el.Add(fmt.Errorf("income must not be negative"))
	}

	switch i.Kind {
	case ItemBuilding, ItemRealEstate:
		if i.Effect != nil {
			el.Add(fmt.Errorf("%s items cannot carry an effect", i.Kind))
		}
	case ItemUpgrade:
		if i.Effect == nil {
			el.Add(fmt.Errorf("upgrade requires an effect"))
		} else {
			el.Add(i.Effect.Validate())
		}
	default:
		el.Add(fmt.Errorf("unknown item kind %q", i.Kind))
	}

	return el.Err()
}
