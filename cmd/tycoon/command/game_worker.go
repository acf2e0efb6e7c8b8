package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-tycoon/internal/display"
	"github.com/pixil98/go-tycoon/internal/game"
)

type readier interface {
	WaitReady(ctx context.Context) error
}

type runner interface {
	Start(ctx context.Context) error
}

// gameWorker restores the saved game once the bus is up so load-time
// notices reach subscribers, then hands the store to the driver.
type gameWorker struct {
	store  *game.Store
	bus    readier
	driver runner
}

func newGameWorker(store *game.Store, bus readier, driver runner) *gameWorker {
	return &gameWorker{store: store, bus: bus, driver: driver}
}

func (w *gameWorker) Start(ctx context.Context) error {
	err := w.bus.WaitReady(ctx)
	if err != nil {
		return fmt.Errorf("waiting for bus: %w", err)
	}

	report, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading save: %w", err)
	}

	switch {
	case report.Corrupt:
		slog.Warn("save was unreadable, starting fresh")
	case report.Found:
		slog.Info("save loaded",
			"offline", display.Duration(report.Offline),
			"earnings", display.Currency(report.OfflineEarnings),
			"skipped", report.Skipped)
	default:
		slog.Info("starting new game")
	}

	return w.driver.Start(ctx)
}
