package auction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const DefaultRefreshInterval = 30 * time.Second

// Refreshable is a bid source whose measurements are recomputed periodically.
type Refreshable interface {
	Refresh()
}

// Refresher recomputes measured bids on a fixed interval.
type Refresher struct {
	source   Refreshable
	interval time.Duration
}

type RefresherOpt func(*Refresher)

func WithRefreshInterval(d time.Duration) RefresherOpt {
	return func(r *Refresher) {
		r.interval = d
	}
}

func NewRefresher(source Refreshable, opts ...RefresherOpt) *Refresher {
	r := &Refresher{
		source:   source,
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the refresh job until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.source.Refresh),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("scheduling bid refresh: %w", err)
	}

	sched.Start()
	slog.InfoContext(ctx, "bid refresher started", "interval", r.interval)

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	return nil
}
