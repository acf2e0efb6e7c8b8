package auction

import (
	"errors"
	"math"
	"sort"
)

var ErrNoBidsAvailable = errors.New("no bids available")

// Provider names a rewarded-ad network.
type Provider string

const (
	ProviderPrimary   Provider = "primary"
	ProviderSecondary Provider = "secondary"
)

// Providers lists the known networks in tie-break priority order.
var Providers = []Provider{ProviderPrimary, ProviderSecondary}

// Fallback is used when an auction cannot produce a winner.
const Fallback = ProviderPrimary

// Bid is one provider's expected earnings per thousand impressions.
type Bid struct {
	Provider Provider `json:"provider"`
	ECPM     float64  `json:"ecpm"`
}

func (b Bid) valid() bool {
	return b.Provider != "" && b.ECPM >= 0 && !math.IsNaN(b.ECPM) && !math.IsInf(b.ECPM, 0)
}

// BidSource produces the current bid list.
type BidSource interface {
	Bids() []Bid
}

// Run picks the provider with the highest eCPM. Bids are ordered by priority
// on input; equal bids keep that order so the earlier provider wins ties.
// Malformed bids are ignored.
func Run(bids []Bid) (Provider, error) {
	ranked := Rank(bids)
	if len(ranked) == 0 {
		return "", ErrNoBidsAvailable
	}
	return ranked[0].Provider, nil
}

// Rank returns the valid bids sorted by descending eCPM, stable on ties.
func Rank(bids []Bid) []Bid {
	ranked := make([]Bid, 0, len(bids))
	for _, b := range bids {
		if b.valid() {
			ranked = append(ranked, b)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ECPM > ranked[j].ECPM
	})
	return ranked
}
