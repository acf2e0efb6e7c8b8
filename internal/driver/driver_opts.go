package driver

import "time"

type GameDriverOpt func(*GameDriver)

func WithTickLength(tickLength time.Duration) GameDriverOpt {
	return func(d *GameDriver) {
		d.tickLength = tickLength
	}
}

func WithFlushTimeout(timeout time.Duration) GameDriverOpt {
	return func(d *GameDriver) {
		d.flushTimeout = timeout
	}
}
