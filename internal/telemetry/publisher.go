package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

const DefaultSubjectPrefix = "tycoon.telemetry"

// Publisher delivers raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PublisherSink encodes events as JSON and publishes them on
// <prefix>.<event type>.
type PublisherSink struct {
	pub    Publisher
	prefix string
}

type PublisherSinkOpt func(*PublisherSink)

func WithSubjectPrefix(prefix string) PublisherSinkOpt {
	return func(s *PublisherSink) {
		s.prefix = prefix
	}
}

func NewPublisherSink(pub Publisher, opts ...PublisherSinkOpt) *PublisherSink {
	s := &PublisherSink{
		pub:    pub,
		prefix: DefaultSubjectPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PublisherSink) Emit(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.WarnContext(ctx, "encoding telemetry event", "type", ev.Type, "error", err)
		return
	}
	if err := s.pub.Publish(s.prefix+"."+string(ev.Type), data); err != nil {
		slog.WarnContext(ctx, "publishing telemetry event", "type", ev.Type, "error", err)
	}
}

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns the recorded events, optionally filtered by type.
func (r *Recorder) Events(types ...EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[EventType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var out []Event
	for _, ev := range r.events {
		if len(want) == 0 || want[ev.Type] {
			out = append(out, ev)
		}
	}
	return out
}
