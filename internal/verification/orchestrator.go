// Package verification resolves where a freshly authenticated retailer
// belongs: the dashboard, onboarding, location setup, or the pending screen.
//
// The checks run strictly in order and short-circuit:
//
//	authorization status --authorized--> dashboard
//	        |
//	profile completeness --error/incomplete--> onboarding
//	        |
//	store existence --error/none--> onboarding-location
//	        |
//	      pending
//
// A failed status call is treated as "not yet authorized" so an outage of
// the verification service never strands the user on a loading screen.
// Every run ends by marking the session checked, whatever happened.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/retailhub/internal/session"
	"github.com/aussiebroadwan/retailhub/pkg/retailapi"
	"github.com/aussiebroadwan/retailhub/pkg/slogx"
)

// StatusUnavailableMessage is shown when the authorization status could not
// be fetched and the backend gave no message of its own.
const StatusUnavailableMessage = "We couldn't confirm your account status. Please try again shortly."

// Checker performs the three remote checks. Implemented by *retailapi.Client
// wired through the gateway transport.
type Checker interface {
	VerificationStatus(ctx context.Context) (*retailapi.VerificationStatus, error)
	DataStatus(ctx context.Context) (*retailapi.DataStatus, error)
	Locations(ctx context.Context) (*retailapi.LocationList, error)
}

// StateRecorder receives the outcome. Implemented by *session.Store.
type StateRecorder interface {
	Epoch() uint64
	CompleteVerification(ctx context.Context, epoch uint64, outcome session.Outcome) bool
	LocationID() string
	SetActiveLocation(ctx context.Context, id string) error
}

// Orchestrator runs the post-login check chain.
type Orchestrator struct {
	checker Checker
	state   StateRecorder
	log     *slog.Logger
}

// New creates an Orchestrator.
func New(checker Checker, state StateRecorder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		checker: checker,
		state:   state,
		log:     logger.With("component", "verification"),
	}
}

// Run resolves the session's destination and records it. It always returns
// one of the four destinations. The result is discarded by the recorder if
// the session changed (logout, new login, reset) while the checks ran.
//
// Run does not deduplicate concurrent calls; callers do that.
func (o *Orchestrator) Run(ctx context.Context) (out session.Outcome) {
	epoch := o.state.Epoch()
	start := time.Now()
	log := o.logger(ctx)

	defer func() {
		if !out.Destination.Valid() {
			out = session.Outcome{Destination: session.DestinationOnboarding, MissingFields: []string{}}
		}
		recorded := o.state.CompleteVerification(ctx, epoch, out)

		runDuration.Observe(time.Since(start).Seconds())
		destinationTotal.WithLabelValues(string(out.Destination)).Inc()

		log.Info("verification complete",
			"destination", out.Destination,
			"missing_fields", len(out.MissingFields),
			"stale", !recorded,
			"duration", time.Since(start),
		)
	}()

	// 1. Authorization status. Failure falls through with its message.
	var message string
	status, err := o.checker.VerificationStatus(ctx)
	if err != nil {
		checkFailures.WithLabelValues("status").Inc()
		log.Warn("authorization status check failed", "error", classify(err))
		message = retailapi.MessageOf(err, StatusUnavailableMessage)
	} else {
		// 2. Authorized short-circuits everything else.
		if status.Authorized() {
			return session.Outcome{Destination: session.DestinationDashboard}
		}
		message = statusMessage(status)
	}

	// 3. Profile completeness.
	data, err := o.checker.DataStatus(ctx)
	if err != nil {
		checkFailures.WithLabelValues("data").Inc()
		log.Warn("completeness check failed", "error", classify(err))
		return session.Outcome{
			Destination:   session.DestinationOnboarding,
			Message:       message,
			MissingFields: []string{},
		}
	}
	if !data.IsComplete {
		missing := data.MissingFields
		if missing == nil {
			missing = []string{}
		}
		return session.Outcome{
			Destination:   session.DestinationOnboarding,
			Message:       message,
			MissingFields: missing,
		}
	}

	// 4. Store existence.
	locations, err := o.checker.Locations(ctx)
	if err != nil {
		checkFailures.WithLabelValues("locations").Inc()
		log.Warn("location check failed", "error", classify(err))
		return session.Outcome{Destination: session.DestinationOnboardingLocation, Message: message}
	}
	if !locations.HasLocation || len(locations.Locations) == 0 {
		return session.Outcome{Destination: session.DestinationOnboardingLocation, Message: message}
	}

	o.selectDefaultLocation(ctx, locations.Locations)

	// 5. Everything in place, waiting on manual approval.
	return session.Outcome{Destination: session.DestinationPending, Message: message}
}

func (o *Orchestrator) selectDefaultLocation(ctx context.Context, locations []retailapi.Location) {
	if o.state.LocationID() != "" {
		return
	}
	if err := o.state.SetActiveLocation(ctx, locations[0].ID); err != nil {
		o.logger(ctx).Warn("failed to select default location", "location_id", locations[0].ID, "error", err)
	}
}

func (o *Orchestrator) logger(ctx context.Context) *slog.Logger {
	if reqID := slogx.RequestID(ctx); reqID != "" {
		return o.log.With("req_id", reqID)
	}
	return o.log
}

func statusMessage(s *retailapi.VerificationStatus) string {
	if s.Message != "" {
		return s.Message
	}
	return s.DeactivationReason
}

// classify tags a check error for logs and metrics.
func classify(err error) error {
	if retailapi.IsUnauthorized(err) {
		return fmt.Errorf("%w: %w", session.ErrAuthorizationDenied, err)
	}
	return fmt.Errorf("%w: %w", session.ErrRemoteCheckFailed, err)
}
