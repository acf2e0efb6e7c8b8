package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength   = time.Second
	DefaultFlushTimeout = 5 * time.Second
)

type Ticker interface {
	Tick(context.Context) error
}

// Flusher is implemented by tickers that persist state on shutdown.
type Flusher interface {
	Flush(context.Context) error
}

// GameDriver advances every ticker once per tick length.
type GameDriver struct {
	tickLength   time.Duration
	flushTimeout time.Duration
	tickers      []Ticker
}

func NewGameDriver(tickers []Ticker, opts ...GameDriverOpt) *GameDriver {
	d := &GameDriver{
		tickLength:   DefaultTickLength,
		flushTimeout: DefaultFlushTimeout,
		tickers:      tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks until ctx is cancelled, then flushes every Flusher. A tick
// error stops the driver.
func (d *GameDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.flush(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *GameDriver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *GameDriver) flush(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.flushTimeout)
	defer cancel()

	for _, t := range d.tickers {
		f, ok := t.(Flusher)
		if !ok {
			continue
		}
		if err := f.Flush(ctx); err != nil {
			slog.ErrorContext(ctx, "flushing on shutdown", "error", err)
		}
	}
}
