package reward

import (
	"errors"

	"github.com/pixil98/go-tycoon/internal/game"
)

var (
	ErrAlreadyPending   = errors.New("reward request already pending")
	ErrAdPlaybackFailed = errors.New("rewarded ad not completed")

	ErrUnknownReward = game.ErrUnknownReward
	ErrOnCooldown    = game.ErrOnCooldown
)
