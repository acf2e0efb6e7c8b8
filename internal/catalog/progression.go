package catalog

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Metric names a player statistic an achievement watches.
type Metric string

const (
	MetricTotalClicks      Metric = "total_clicks"
	MetricLifetimeCurrency Metric = "lifetime_currency"
	MetricBuildingsOwned   Metric = "buildings_owned"
	MetricUpgradesOwned    Metric = "upgrades_owned"
	MetricLevel            Metric = "level"
	MetricActiveSeconds    Metric = "active_seconds"
	MetricAdsWatched       Metric = "ads_watched"
)

func (m Metric) Validate() error {
	switch m {
	case MetricTotalClicks, MetricLifetimeCurrency, MetricBuildingsOwned, MetricUpgradesOwned,
		MetricLevel, MetricActiveSeconds, MetricAdsWatched:
		return nil
	default:
		return fmt.Errorf("unknown metric %q", string(m))
	}
}

// QuestCategory groups quests that advance on the same action.
type QuestCategory string

const (
	QuestClick    QuestCategory = "click"
	QuestPurchase QuestCategory = "purchase"
	QuestAdWatch  QuestCategory = "ad_watch"
	QuestEarn     QuestCategory = "earn"
)

func (c QuestCategory) Validate() error {
	switch c {
	case QuestClick, QuestPurchase, QuestAdWatch, QuestEarn:
		return nil
	default:
		return fmt.Errorf("unknown quest category %q", string(c))
	}
}

type Achievement struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Metric Metric  `json:"metric"`
	Target float64 `json:"target"`
	Reward float64 `json:"reward"`
	Order  int     `json:"order"`
}

func (a *Achievement) Validate() error {
	el := errors.NewErrorList()

	if a.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	el.Add(a.Metric.Validate())
	if !(a.Target > 0) {
		el.Add(fmt.Errorf("target must be positive"))
	}
	if a.Reward < 0 {
		el.Add(fmt.Errorf("reward must not be negative"))
	}

	return el.Err()
}

type Quest struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name"`
	Category QuestCategory `json:"category"`
	Target   float64       `json:"target"`
	Reward   float64       `json:"reward"`
	Order    int           `json:"order"`
}

func (q *Quest) Validate() error {
	el := errors.NewErrorList()

	if q.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	el.Add(q.Category.Validate())
	if !(q.Target > 0) {
		el.Add(fmt.Errorf("target must be positive"))
	}
	if q.Reward < 0 {
		el.Add(fmt.Errorf("reward must not be negative"))
	}

	return el.Err()
}
