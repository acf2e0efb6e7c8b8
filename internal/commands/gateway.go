package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-tycoon/internal/display"
)

const DefaultSubject = "tycoon.command"

// Bus serves request/reply subjects.
type Bus interface {
	WaitReady(ctx context.Context) error
	Reply(subject string, handler func(data []byte) []byte) (func(), error)
}

// Gateway exposes a Handler as a request/reply service on the bus.
type Gateway struct {
	handler *Handler
	bus     Bus
	subject string
}

type GatewayOpt func(*Gateway)

func WithSubject(subject string) GatewayOpt {
	return func(g *Gateway) {
		g.subject = subject
	}
}

func NewGateway(h *Handler, bus Bus, opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		handler: h,
		bus:     bus,
		subject: DefaultSubject,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Start serves commands until ctx is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	if err := g.bus.WaitReady(ctx); err != nil {
		return nil
	}

	unsub, err := g.bus.Reply(g.subject, func(data []byte) []byte {
		return []byte(g.Respond(ctx, string(data)))
	})
	if err != nil {
		return fmt.Errorf("registering command handler: %w", err)
	}
	defer unsub()

	slog.InfoContext(ctx, "command gateway listening", "subject", g.subject)
	<-ctx.Done()
	return nil
}

// Respond runs line and renders the result or the error for the player.
func (g *Gateway) Respond(ctx context.Context, line string) string {
	out, err := g.handler.Execute(ctx, line)
	if err != nil {
		var ue *UserError
		if errors.As(err, &ue) {
			return display.Wrap(ue.Message)
		}
		slog.ErrorContext(ctx, "command failed", "command", line, "error", err)
		return "Something went wrong. Please try again."
	}
	return out
}
