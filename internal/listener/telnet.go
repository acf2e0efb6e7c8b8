package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"syscall"

	"github.com/iammegalith/telnet"
)

type TelnetListener struct {
	port     uint16
	sessions *sessions
	next     atomic.Int64
}

func NewTelnetListener(port uint16, cm *ConnectionManager, opts ...ListenerOpt) *TelnetListener {
	cfg := newListenerConfig(opts)
	return &TelnetListener{
		port:     port,
		sessions: newSessions(cm, cfg.maxSessions),
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), l)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			l.sessions.stop()
		case <-done:
		}
	}()

	slog.InfoContext(ctx, "listening for telnet", "port", l.port)

	err := svr.ListenAndServe()
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}

	return nil
}

// HandleTelnet serves one telnet connection.
func (l *TelnetListener) HandleTelnet(conn *telnet.Connection) {
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("closing telnet connection", "error", err)
		}
	}()

	id := fmt.Sprintf("telnet-%d", l.next.Add(1))
	l.sessions.run("telnet", id, newCRLFReadWriter(conn))
}
