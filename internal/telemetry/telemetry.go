package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventClick              EventType = "click"
	EventPurchase           EventType = "purchase"
	EventPurchaseFailed     EventType = "purchase_failed"
	EventLevelUp            EventType = "level_up"
	EventAchievementUnlock  EventType = "achievement_unlocked"
	EventQuestComplete      EventType = "quest_completed"
	EventOfflineEarnings    EventType = "offline_earnings"
	EventSave               EventType = "save"
	EventLoad               EventType = "load"
	EventReset              EventType = "reset"
	EventRewardRequested    EventType = "reward_requested"
	EventRewardBlocked      EventType = "reward_blocked"
	EventAuction            EventType = "auction"
	EventRewardGranted      EventType = "reward_granted"
	EventRewardFailed       EventType = "reward_failed"
	EventPersistenceCorrupt EventType = "persistence_corrupt"
)

// Fields carries event-specific attributes.
type Fields map[string]any

type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	At     time.Time `json:"at"`
	Fields Fields    `json:"fields,omitempty"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, at time.Time, fields Fields) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		At:     at,
		Fields: fields,
	}
}

// Sink receives analytics events. Emit is fire-and-forget: implementations
// must not block the caller for long and must not report errors back.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
