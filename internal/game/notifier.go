package game

import (
	"context"
	"time"
)

type NoticeKind string

const (
	NoticeLevelUp         NoticeKind = "level_up"
	NoticeAchievement     NoticeKind = "achievement"
	NoticeQuest           NoticeKind = "quest"
	NoticeOfflineEarnings NoticeKind = "offline_earnings"
	NoticeRewardGranted   NoticeKind = "reward_granted"
)

// Notice is a player-facing event. Only the fields relevant to Kind are set.
type Notice struct {
	Kind     NoticeKind
	Name     string
	Level    int
	Amount   float64
	Duration time.Duration
	At       time.Time
}

// Notifier delivers notices to the player. Notify is called outside the
// store lock.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}
