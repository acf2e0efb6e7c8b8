package reward

// State is the position of a reward id in the request state machine.
// Blocked, Granted and Failed describe how the latest request ended.
type State int

const (
	StateIdle State = iota
	StateCooldownCheck
	StateBlocked
	StateAuctionRunning
	StateAdPlaying
	StateGranted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCooldownCheck:
		return "cooldown_check"
	case StateBlocked:
		return "blocked"
	case StateAuctionRunning:
		return "auction_running"
	case StateAdPlaying:
		return "ad_playing"
	case StateGranted:
		return "granted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
