package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNew(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := New(EventClick, at, Fields{"value": 1.0})
	b := New(EventClick, at, nil)

	testutil.AssertEqual(t, "type", a.Type, EventClick)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
}

func TestPublisherSink(t *testing.T) {
	tests := map[string]struct {
		prefix     string
		pubErr     error
		expSubject string
	}{
		"default prefix": {
			expSubject: "tycoon.telemetry.purchase",
		},
		"custom prefix": {
			prefix:     "analytics",
			expSubject: "analytics.purchase",
		},
		"publish failure is swallowed": {
			pubErr: errors.New("bus down"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pub := &fakePublisher{err: tt.pubErr}
			var opts []PublisherSinkOpt
			if tt.prefix != "" {
				opts = append(opts, WithSubjectPrefix(tt.prefix))
			}
			sink := NewPublisherSink(pub, opts...)

			ev := New(EventPurchase, time.Now(), Fields{"item": "farm"})
			sink.Emit(context.Background(), ev)

			if tt.pubErr != nil {
				testutil.AssertEqual(t, "published", len(pub.subjects), 0)
				return
			}
			testutil.AssertEqual(t, "published", len(pub.subjects), 1)
			testutil.AssertEqual(t, "subject", pub.subjects[0], tt.expSubject)

			var decoded Event
			if err := json.Unmarshal(pub.payloads[0], &decoded); err != nil {
				t.Fatalf("decoding payload: %v", err)
			}
			testutil.AssertEqual(t, "id", decoded.ID, ev.ID)
			testutil.AssertEqual(t, "item", decoded.Fields["item"], any("farm"))
		})
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Emit(context.Background(), New(EventClick, time.Now(), nil))
	r.Emit(context.Background(), New(EventSave, time.Now(), nil))
	r.Emit(context.Background(), New(EventClick, time.Now(), nil))

	testutil.AssertEqual(t, "all", len(r.Events()), 3)
	testutil.AssertEqual(t, "clicks", len(r.Events(EventClick)), 2)
	testutil.AssertEqual(t, "none", len(r.Events(EventReset)), 0)
}
