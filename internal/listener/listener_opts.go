package listener

type listenerConfig struct {
	maxSessions int
}

type ListenerOpt func(*listenerConfig)

// WithMaxSessions caps concurrent sessions on one listener. Zero means no cap.
func WithMaxSessions(n int) ListenerOpt {
	return func(c *listenerConfig) {
		c.maxSessions = n
	}
}

func newListenerConfig(opts []ListenerOpt) listenerConfig {
	var c listenerConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
