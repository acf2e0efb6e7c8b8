package listener

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// sessions runs console sessions under one shared context so a listener
// can end them all at shutdown. A positive limit caps concurrent sessions.
type sessions struct {
	cm     *ConnectionManager
	ctx    context.Context
	cancel context.CancelFunc
	limit  int

	mu     sync.Mutex
	active int
	wg     sync.WaitGroup
}

func newSessions(cm *ConnectionManager, limit int) *sessions {
	ctx, cancel := context.WithCancel(context.Background())
	return &sessions{cm: cm, ctx: ctx, cancel: cancel, limit: limit}
}

// run serves conn until its session ends. It reports false without
// serving when the session limit is reached.
func (s *sessions) run(transport, remote string, conn io.ReadWriter) bool {
	s.mu.Lock()
	if s.limit > 0 && s.active >= s.limit {
		s.mu.Unlock()
		io.WriteString(conn, "Too many players connected. Try again later.\n")
		slog.Warn("console session refused", "transport", transport, "remote", remote, "limit", s.limit)
		return false
	}
	s.active++
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
		s.wg.Done()
	}()

	slog.Info("console session opened", "transport", transport, "remote", remote)
	s.cm.AcceptConnection(s.ctx, conn)
	slog.Info("console session closed", "transport", transport, "remote", remote)
	return true
}

// Active returns the number of open sessions.
func (s *sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// stop cancels every session and waits for them to return.
func (s *sessions) stop() {
	s.cancel()
	s.wg.Wait()
}
