package listener

import (
	"context"
	"io"
	"log/slog"
)

// Responder answers one line of player input.
type Responder interface {
	Respond(ctx context.Context, line string) string
}

type ConnectionManager struct {
	responder Responder
	banner    string
}

type ConnectionManagerOpt func(*ConnectionManager)

// WithBanner sets the text written when a session opens.
func WithBanner(banner string) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.banner = banner
	}
}

func NewConnectionManager(r Responder, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		responder: r,
		banner:    DefaultBanner,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "console session", "error", err)
	}
}
