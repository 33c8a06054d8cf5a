package guard

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aussiebroadwan/retailhub/internal/session"
)

// DefaultVerifyTimeout bounds one verification run.
const DefaultVerifyTimeout = 30 * time.Second

// SessionView is what the gates read and, on a panic, write.
// Implemented by *session.Store.
type SessionView interface {
	Snapshot() session.Snapshot
	CompleteVerification(ctx context.Context, epoch uint64, outcome session.Outcome) bool
}

// Verifier runs post-login verification.
// Implemented by *verification.Orchestrator.
type Verifier interface {
	Run(ctx context.Context) session.Outcome
}

// AuthGate guards the authenticated area.
type AuthGate struct {
	state    SessionView
	verifier Verifier
	log      *slog.Logger
	timeout  time.Duration

	inflight singleflight.Group
}

// NewAuthGate creates an AuthGate. A zero timeout uses DefaultVerifyTimeout.
func NewAuthGate(state SessionView, verifier Verifier, logger *slog.Logger, timeout time.Duration) *AuthGate {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &AuthGate{
		state:    state,
		verifier: verifier,
		log:      logger.With("component", "guard"),
		timeout:  timeout,
	}
}

// Check evaluates the gate without blocking. If the session still needs
// verification, a run is started in the background (at most one per
// session epoch) and a verifying decision is returned.
func (g *AuthGate) Check(ctx context.Context, attempted string) Decision {
	snap := g.state.Snapshot()
	d := EvaluateAuthenticated(snap, attempted)
	if d.Kind == KindLoading && d.Loading == LoadingVerifying {
		g.trigger(ctx, snap.Epoch)
	}
	return d
}

// Wait is Check, but blocks until verification finishes or ctx is done.
// Server-rendered pages use it with a short deadline to skip the loading
// state when the checks are fast.
func (g *AuthGate) Wait(ctx context.Context, attempted string) Decision {
	snap := g.state.Snapshot()
	d := EvaluateAuthenticated(snap, attempted)
	if d.Kind != KindLoading || d.Loading != LoadingVerifying {
		return d
	}

	select {
	case <-g.trigger(ctx, snap.Epoch):
	case <-ctx.Done():
	}
	return EvaluateAuthenticated(g.state.Snapshot(), attempted)
}

func (g *AuthGate) trigger(ctx context.Context, epoch uint64) <-chan singleflight.Result {
	// Detached: the run outlives the request that happened to start it.
	ctx = context.WithoutCancel(ctx)
	key := strconv.FormatUint(epoch, 10)
	return g.inflight.DoChan(key, func() (any, error) {
		return g.verify(ctx, epoch), nil
	})
}

func (g *AuthGate) verify(parent context.Context, epoch uint64) (out session.Outcome) {
	// A previous run for this epoch may have finished between our snapshot
	// and DoChan.
	if snap := g.state.Snapshot(); snap.Epoch != epoch || snap.Checked || !snap.Authenticated {
		return snap.Outcome
	}

	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("verification panicked", "panic", r)
			out = session.Outcome{Destination: session.DestinationOnboarding, MissingFields: []string{}}
			g.state.CompleteVerification(ctx, epoch, out)
		}
	}()

	return g.verifier.Run(ctx)
}

// GuestGate guards login, registration and onboarding pages.
type GuestGate struct {
	state interface{ Snapshot() session.Snapshot }
}

// NewGuestGate creates a GuestGate.
func NewGuestGate(state interface{ Snapshot() session.Snapshot }) *GuestGate {
	return &GuestGate{state: state}
}

// Check evaluates the gate for page.
func (g *GuestGate) Check(page string, resume bool) Decision {
	return EvaluateGuest(g.state.Snapshot(), page, resume)
}
