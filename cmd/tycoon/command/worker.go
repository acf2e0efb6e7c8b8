package command

import (
	"fmt"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-tycoon/internal/clock"
	"github.com/pixil98/go-tycoon/internal/commands"
	"github.com/pixil98/go-tycoon/internal/driver"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/reward"
	"github.com/pixil98/go-tycoon/internal/storage"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	c, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	natsServer, err := c.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	cat, err := c.Catalog.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	econ, err := c.Economy.build(c.tickLength())
	if err != nil {
		return nil, fmt.Errorf("building economy: %w", err)
	}

	blobs, err := storage.NewBlobStore(c.SaveDir)
	if err != nil {
		return nil, fmt.Errorf("creating save store: %w", err)
	}

	notifier, err := c.Notify.buildNotifier(natsServer, c.Nats.notifierOpts()...)
	if err != nil {
		return nil, fmt.Errorf("creating notifier: %w", err)
	}

	sink := telemetry.NewPublisherSink(natsServer, c.Nats.sinkOpts()...)

	clk := clock.Real{}
	store, err := game.NewStore(cat,
		game.WithClock(clk),
		game.WithEconomy(econ),
		game.WithPersister(game.NewBlobPersister(blobs, c.persisterOpts()...)),
		game.WithSink(sink),
		game.WithNotifier(notifier),
	)
	if err != nil {
		return nil, fmt.Errorf("creating game store: %w", err)
	}

	source := c.Ads.buildSource()
	pipeline := reward.NewPipeline(store, source, c.Ads.buildPlayer(source),
		reward.WithEntitlements(store),
		reward.WithSink(sink),
		reward.WithClock(clk),
	)

	handler := commands.NewHandler(store, pipeline)

	d := driver.NewGameDriver([]driver.Ticker{store}, driver.WithTickLength(econ.TickLength))

	gateway := commands.NewGateway(handler, natsServer, c.Nats.gatewayOpts()...)

	workers := service.WorkerList{
		"nats":     natsServer,
		"game":     newGameWorker(store, natsServer, d),
		"bids":     c.Ads.buildRefresher(source),
		"commands": gateway,
	}

	err = c.Console.buildListeners(gateway, workers)
	if err != nil {
		return nil, fmt.Errorf("creating console: %w", err)
	}

	return workers, nil
}
