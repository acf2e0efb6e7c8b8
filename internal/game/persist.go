package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-tycoon/internal/storage"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

// Persister reads and writes the saved game. Load returns (nil, nil) when
// nothing has been saved and wraps ErrPersistenceCorrupt when the save
// cannot be decoded.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Blobs is the key/value storage a BlobPersister writes to.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

const DefaultSaveKey = "save"

// BlobPersister stores the snapshot as JSON under a single key.
type BlobPersister struct {
	blobs Blobs
	key   string
}

type BlobPersisterOpt func(*BlobPersister)

func WithSaveKey(key string) BlobPersisterOpt {
	return func(p *BlobPersister) {
		p.key = key
	}
}

func NewBlobPersister(blobs Blobs, opts ...BlobPersisterOpt) *BlobPersister {
	p := &BlobPersister{
		blobs: blobs,
		key:   DefaultSaveKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *BlobPersister) Load(ctx context.Context) (*Snapshot, error) {
	data, err := p.blobs.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceCorrupt, err)
	}
	return &snap, nil
}

func (p *BlobPersister) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}
	if err := p.blobs.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	return nil
}

func (p *BlobPersister) Clear(ctx context.Context) error {
	return p.blobs.Delete(ctx, p.key)
}

// LoadReport describes what Load found.
type LoadReport struct {
	Found bool
	// Corrupt is set when a save existed but was discarded.
	Corrupt         bool
	Offline         time.Duration
	OfflineEarnings float64
	// Skipped lists saved items no longer in the catalog.
	Skipped []string
}

// Save persists the current state and stamps LastSavedAt.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	// Progression is settled first so the save holds every unlock its
	// stats already earn and Load has nothing new to pay out.
	s.mu.Lock()
	now := s.clock.Now()
	s.evaluate(now)
	s.player.LastSavedAt = now
	snap := s.snapshot(now)
	s.release(ctx)

	if err := s.persister.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving game: %w", err)
	}

	s.sink.Emit(ctx, telemetry.New(telemetry.EventSave, now, nil))
	return nil
}

// Load replaces the state with the saved game and credits offline earnings.
// A missing save leaves a fresh game. A corrupt save is discarded in favour
// of a fresh game and reported rather than returned as an error.
func (s *Store) Load(ctx context.Context) (LoadReport, error) {
	if s.persister == nil {
		return LoadReport{}, nil
	}

	snap, err := s.persister.Load(ctx)
	if err != nil && !errors.Is(err, ErrPersistenceCorrupt) {
		return LoadReport{}, fmt.Errorf("loading game: %w", err)
	}
	if err == nil && snap != nil {
		if verr := snap.Validate(); verr != nil {
			err = fmt.Errorf("%w: %w", ErrPersistenceCorrupt, verr)
		}
	}

	s.mu.Lock()
	defer s.release(ctx)

	now := s.clock.Now()
	s.resetLocked()

	if err != nil {
		slog.WarnContext(ctx, "discarding corrupt save", "error", err)
		s.emit(telemetry.EventPersistenceCorrupt, now, telemetry.Fields{"error": err.Error()})
		return LoadReport{Corrupt: true}, nil
	}
	if snap == nil {
		return LoadReport{}, nil
	}

	report := LoadReport{Found: true}
	report.Skipped = s.restore(snap, now)
	for _, id := range report.Skipped {
		slog.WarnContext(ctx, "dropping unknown item from save", "item", id)
	}

	if !s.player.LastSavedAt.IsZero() {
		elapsed := now.Sub(s.player.LastSavedAt)
		if elapsed >= s.econ.MinOffline {
			earned := s.player.PassiveIncomePerSecond * elapsed.Seconds() * s.econ.OfflineEfficiency
			report.Offline = elapsed
			if earned > 0 {
				s.credit(now, earned, true)
				report.OfflineEarnings = earned
				s.emit(telemetry.EventOfflineEarnings, now, telemetry.Fields{"amount": earned, "seconds": elapsed.Seconds()})
				s.notify(Notice{Kind: NoticeOfflineEarnings, Amount: earned, Duration: elapsed, At: now})
			}
		}
	}

	s.emit(telemetry.EventLoad, now, telemetry.Fields{"level": s.player.Level})
	s.evaluate(now)
	return report, nil
}

// Reset returns to a fresh game and clears the save.
func (s *Store) Reset(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	now := s.clock.Now()
	s.resetLocked()
	s.emit(telemetry.EventReset, now, nil)
	s.release(ctx)

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clearing save: %w", err)
	}
	return nil
}
