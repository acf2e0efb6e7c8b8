package reward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-tycoon/internal/auction"
	"github.com/pixil98/go-tycoon/internal/clock"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

// AdPlayer shows a rewarded ad from provider. It returns true only when the
// player watched to completion.
type AdPlayer interface {
	ShowRewardedAd(ctx context.Context, provider auction.Provider) (bool, error)
}

// Entitlements reports premium status; entitled players skip playback.
type Entitlements interface {
	HasActiveEntitlement() bool
}

// Granter checks and applies rewards against game state.
type Granter interface {
	RewardCooldown(rewardID string) (time.Duration, error)
	ApplyReward(ctx context.Context, rewardID string) (game.Grant, error)
}

// Result describes a finished request.
type Result struct {
	RequestID string
	RewardID  string
	Provider  auction.Provider
	// NoBids is set when the auction had no valid bids and the fallback
	// provider was used.
	NoBids bool
	// Skipped is set when playback was bypassed by an entitlement.
	Skipped bool
	Grant   game.Grant
}

// Pipeline mediates reward requests: cooldown check, auction, playback and
// grant. Requests for different rewards run independently; a second request
// for a reward already in flight fails with ErrAlreadyPending.
type Pipeline struct {
	granter      Granter
	bids         auction.BidSource
	player       AdPlayer
	entitlements Entitlements
	sink         telemetry.Sink
	clock        clock.Clock

	mu      sync.Mutex
	pending map[string]bool
	states  map[string]State
}

type PipelineOpt func(*Pipeline)

func WithEntitlements(e Entitlements) PipelineOpt {
	return func(p *Pipeline) {
		p.entitlements = e
	}
}

func WithSink(sink telemetry.Sink) PipelineOpt {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

// WithClock stamps telemetry from c; share the store's clock so both agree.
func WithClock(c clock.Clock) PipelineOpt {
	return func(p *Pipeline) {
		p.clock = c
	}
}

func NewPipeline(granter Granter, bids auction.BidSource, player AdPlayer, opts ...PipelineOpt) *Pipeline {
	p := &Pipeline{
		granter: granter,
		bids:    bids,
		player:  player,
		sink:    telemetry.Nop{},
		clock:   clock.Real{},
		pending: map[string]bool{},
		states:  map[string]State{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// State returns where rewardID is in the request state machine.
func (p *Pipeline) State(rewardID string) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[rewardID]
}

// Pending reports whether a request for rewardID is in flight.
func (p *Pipeline) Pending(rewardID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending[rewardID]
}

// RequestReward runs one request to completion. No game state changes
// unless the ad completes (or is skipped by entitlement) and the grant
// succeeds.
func (p *Pipeline) RequestReward(ctx context.Context, rewardID string) (Result, error) {
	res := Result{RequestID: uuid.NewString(), RewardID: rewardID}
	p.emit(ctx, telemetry.EventRewardRequested, res, nil)

	if !p.begin(rewardID) {
		// The request in flight owns the state machine, so only the
		// event is recorded.
		err := fmt.Errorf("%w: %s", ErrAlreadyPending, rewardID)
		p.emit(ctx, telemetry.EventRewardFailed, res, telemetry.Fields{"error": err.Error()})
		return res, err
	}
	defer p.end(rewardID)

	p.setState(rewardID, StateCooldownCheck)
	remaining, err := p.granter.RewardCooldown(rewardID)
	if err != nil {
		return res, p.fail(ctx, res, err)
	}
	if remaining > 0 {
		p.setState(rewardID, StateBlocked)
		p.emit(ctx, telemetry.EventRewardBlocked, res, telemetry.Fields{"remaining_ms": remaining.Milliseconds()})
		return res, fmt.Errorf("%w: %s ready in %s", ErrOnCooldown, rewardID, remaining.Round(time.Second))
	}

	p.setState(rewardID, StateAuctionRunning)
	res.Provider, err = auction.Run(p.bids.Bids())
	if errors.Is(err, auction.ErrNoBidsAvailable) {
		res.Provider = auction.Fallback
		res.NoBids = true
	} else if err != nil {
		return res, p.fail(ctx, res, err)
	}
	p.emit(ctx, telemetry.EventAuction, res, telemetry.Fields{"provider": string(res.Provider), "no_bids": res.NoBids})

	if p.entitlements != nil && p.entitlements.HasActiveEntitlement() {
		res.Skipped = true
	} else {
		p.setState(rewardID, StateAdPlaying)
		completed, err := p.player.ShowRewardedAd(ctx, res.Provider)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return res, p.fail(ctx, res, fmt.Errorf("%w: %w", ErrAdPlaybackFailed, err))
		}
		if !completed {
			return res, p.fail(ctx, res, fmt.Errorf("%w: %s", ErrAdPlaybackFailed, rewardID))
		}
	}

	res.Grant, err = p.granter.ApplyReward(ctx, rewardID)
	if err != nil {
		return res, p.fail(ctx, res, err)
	}

	p.setState(rewardID, StateGranted)
	p.emit(ctx, telemetry.EventRewardGranted, res, telemetry.Fields{"provider": string(res.Provider), "skipped": res.Skipped})
	slog.InfoContext(ctx, "reward granted", "reward", rewardID, "provider", res.Provider, "skipped", res.Skipped)
	return res, nil
}

func (p *Pipeline) begin(rewardID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending[rewardID] {
		return false
	}
	p.pending[rewardID] = true
	return true
}

func (p *Pipeline) end(rewardID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, rewardID)
}

func (p *Pipeline) setState(rewardID string, s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[rewardID] = s
}

func (p *Pipeline) fail(ctx context.Context, res Result, err error) error {
	p.setState(res.RewardID, StateFailed)
	p.emit(ctx, telemetry.EventRewardFailed, res, telemetry.Fields{"error": err.Error()})
	return err
}

func (p *Pipeline) emit(ctx context.Context, t telemetry.EventType, res Result, fields telemetry.Fields) {
	if fields == nil {
		fields = telemetry.Fields{}
	}
	fields["reward"] = res.RewardID
	fields["request"] = res.RequestID
	p.sink.Emit(ctx, telemetry.New(t, p.clock.Now(), fields))
}
