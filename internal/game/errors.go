package game

import "errors"

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownReward      = errors.New("unknown reward")
	ErrOnCooldown         = errors.New("reward on cooldown")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrPersistenceCorrupt = errors.New("persisted state is corrupt")
)
