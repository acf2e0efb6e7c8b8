package command

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/game"
)

type Config struct {
	TickInterval string        `json:"tick_interval"`
	SaveDir      string        `json:"save_dir"`
	SaveKey      string        `json:"save_key"`
	Economy      EconomyConfig `json:"economy"`
	Catalog      CatalogConfig `json:"catalog"`
	Nats         NatsConfig    `json:"nats"`
	Ads          AdsConfig     `json:"ads"`
	Notify       NotifyConfig  `json:"notify"`
	Console      ConsoleConfig `json:"console"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 100*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
		}
	}

	if c.SaveDir == "" {
		el.Add(fmt.Errorf("save_dir is required"))
	}
	if c.SaveKey != "" && !saveKeyPattern.MatchString(c.SaveKey) {
		el.Add(fmt.Errorf("save_key %q must be lowercase alphanumeric, dash or underscore", c.SaveKey))
	}

	el.Add(c.Economy.validate())
	el.Add(c.Catalog.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Ads.validate())
	el.Add(c.Notify.validate())
	el.Add(c.Console.validate())

	return el.Err()
}

var saveKeyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func (c *Config) persisterOpts() []game.BlobPersisterOpt {
	if c.SaveKey == "" {
		return nil
	}
	return []game.BlobPersisterOpt{game.WithSaveKey(c.SaveKey)}
}

func (c *Config) tickLength() time.Duration {
	if c.TickInterval == "" {
		return game.DefaultEconomy().TickLength
	}
	d, _ := time.ParseDuration(c.TickInterval)
	return d
}

// EconomyConfig overrides selected tuning constants; zero values keep the
// defaults.
type EconomyConfig struct {
	GrowthRate        float64 `json:"growth_rate,omitempty"`
	OfflineEfficiency float64 `json:"offline_efficiency,omitempty"`
	MinOffline        string  `json:"min_offline,omitempty"`
	AutosaveEvery     int     `json:"autosave_every,omitempty"`
}

func (c *EconomyConfig) validate() error {
	el := errors.NewErrorList()

	if c.MinOffline != "" {
		if _, err := time.ParseDuration(c.MinOffline); err != nil {
			el.Add(fmt.Errorf("parsing economy.min_offline: %w", err))
		}
	}
	if c.AutosaveEvery < 0 {
		el.Add(fmt.Errorf("economy.autosave_every must not be negative"))
	}

	return el.Err()
}

func (c *EconomyConfig) build(tick time.Duration) (game.Economy, error) {
	econ := game.DefaultEconomy()
	econ.TickLength = tick

	if c.GrowthRate != 0 {
		econ.GrowthRate = c.GrowthRate
	}
	if c.OfflineEfficiency != 0 {
		econ.OfflineEfficiency = c.OfflineEfficiency
	}
	if c.MinOffline != "" {
		d, err := time.ParseDuration(c.MinOffline)
		if err != nil {
			return game.Economy{}, fmt.Errorf("parsing min_offline: %w", err)
		}
		econ.MinOffline = d
	}
	if c.AutosaveEvery != 0 {
		econ.SaveEvery = c.AutosaveEvery
	}

	if err := econ.Validate(); err != nil {
		return game.Economy{}, err
	}
	return econ, nil
}
