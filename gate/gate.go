// Package gate implements the layered authorization state machine guarding
// protected navigations. Authorization failures are never errors: every
// evaluation produces an explicit Decision the presentation layer renders,
// and denied requesters are redirected without detail of why.
package gate

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"

	"go.uber.org/zap"
)

// Outcome is the tagged result of one gate evaluation.
type Outcome int

const (
	// OutcomeUnresolved: authentication state not yet determined. Render a
	// blocking placeholder; no redirect.
	OutcomeUnresolved Outcome = iota
	// OutcomeUnauthenticated: no valid session. Redirect to the sign-in
	// entry point for the area, preserving the requested destination.
	OutcomeUnauthenticated
	// OutcomeForbidden: session valid but the profile's role does not admit
	// the area. Redirected to admin sign-in with no "forbidden" distinction,
	// to avoid role-probing.
	OutcomeForbidden
	// OutcomePendingVerification: profile status is pending and the
	// destination requires verified status.
	OutcomePendingVerification
	// OutcomeDeclined: profile status is declined. The decision carries the
	// decline reason for the status page.
	OutcomeDeclined
	// OutcomeAdmitted: all checks pass.
	OutcomeAdmitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomePendingVerification:
		return "pending"
	case OutcomeDeclined:
		return "declined"
	case OutcomeAdmitted:
		return "admitted"
	default:
		return "unknown"
	}
}

// Area distinguishes the two gate layers.
type Area int

const (
	AreaResident Area = iota
	AreaAdmin
)

// Redirect targets.
const (
	ResidentSignInPath = "/signin"
	AdminSignInPath    = "/admin/signin"
	PendingStatusPath  = "/status/pending"
	DeclinedStatusPath = "/status/declined"
)

// Requirement is a protected destination's static declaration: the area it
// belongs to and whether it needs verified status or merely authentication.
type Requirement struct {
	Area            Area
	RequireVerified bool
}

// Session is the resolved authentication state of the requester.
type Session struct {
	// Resolved is false while the identity provider has not yet answered
	// (cold load, token refresh in flight).
	Resolved bool
	// Authenticated reports whether a valid session handle exists.
	Authenticated bool
	UID           string
	Email         string
}

// Decision is one gate evaluation result.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	// Reason carries the decline reason for OutcomeDeclined. It is always
	// empty for OutcomeForbidden.
	Reason string `json:"reason,omitempty"`
	// RedirectTo is the navigation target for every non-admitted,
	// non-unresolved outcome.
	RedirectTo string `json:"redirectTo,omitempty"`
}

// ProfileSource resolves the current profile document for a session.
type ProfileSource interface {
	ProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

// ProfileWatcher lets the gate observe profile changes for push-driven
// cache invalidation. Satisfied by realtime.SyncManager.
type ProfileWatcher interface {
	Subscribe(collection string, onChange realtime.OnChange) (realtime.Unsubscribe, error)
}

// DecisionCache holds profile-dependent decisions between profile changes.
// Satisfied by the Redis-backed cache; nil disables caching.
type DecisionCache interface {
	Get(ctx context.Context, uid string, req Requirement) (Decision, bool)
	Set(ctx context.Context, uid string, req Requirement, d Decision)
	Invalidate(ctx context.Context, uid string)
}

// Gate evaluates protected navigations against the current session and the
// continuously-synchronized profile document.
type Gate struct {
	profiles ProfileSource
	cache    DecisionCache
	log      *zap.Logger
}

// New builds a gate. cache may be nil.
func New(profiles ProfileSource, cache DecisionCache, log *zap.Logger) *Gate {
	return &Gate{profiles: profiles, cache: cache, log: log}
}

// Evaluate runs the state machine in order: unresolved, unauthenticated,
// role mismatch (admin area), pending (verification-required destinations),
// declined, admitted. next is the originally requested destination,
// preserved across the sign-in redirect.
func (g *Gate) Evaluate(ctx context.Context, sess Session, req Requirement, next string) Decision {
	if !sess.Resolved {
		return Decision{Outcome: OutcomeUnresolved}
	}
	if !sess.Authenticated {
		return Decision{
			Outcome:    OutcomeUnauthenticated,
			RedirectTo: withNext(signInPath(req.Area), next),
		}
	}

	// Only profile-dependent outcomes are cached; the cache is invalidated
	// whenever the profile document changes (WatchProfiles).
	if g.cache != nil {
		if d, ok := g.cache.Get(ctx, sess.UID, req); ok {
			return d
		}
	}

	profile, err := g.profiles.ProfileByID(ctx, sess.UID)
	if err != nil {
		// A session without a profile cannot be admitted anywhere. Route to
		// sign-in silently; the redirect reveals nothing about why.
		if !errors.Is(err, store.ErrNotFound) {
			g.log.Warn("profile lookup failed during gate evaluation",
				zap.String("uid", sess.UID), zap.Error(err))
		}
		return Decision{
			Outcome:    OutcomeUnauthenticated,
			RedirectTo: withNext(signInPath(req.Area), next),
		}
	}

	d := decideFromProfile(profile, req)
	if g.cache != nil {
		g.cache.Set(ctx, sess.UID, req, d)
	}
	return d
}

func decideFromProfile(profile *models.Profile, req Requirement) Decision {
	if req.Area == AreaAdmin && profile.Role != models.RoleAdmin {
		// Same redirect as a missing session. Deliberate: no leak of the
		// distinction between "no account" and "wrong role".
		return Decision{
			Outcome:    OutcomeForbidden,
			RedirectTo: AdminSignInPath,
		}
	}

	if profile.Status == models.StatusDeclined {
		return Decision{
			Outcome:    OutcomeDeclined,
			Reason:     profile.DeclineReason,
			RedirectTo: DeclinedStatusPath,
		}
	}

	if req.Area == AreaResident && req.RequireVerified && profile.Status == models.StatusPending {
		return Decision{
			Outcome:    OutcomePendingVerification,
			RedirectTo: PendingStatusPath,
		}
	}

	return Decision{Outcome: OutcomeAdmitted}
}

// WatchProfiles subscribes the gate to the profiles collection so that any
// profile mutation invalidates that profile's cached decisions. The next
// protected navigation of the affected session then re-evaluates against
// fresh state (push-driven, not polled). Returns the unsubscribe func.
func (g *Gate) WatchProfiles(watcher ProfileWatcher) (realtime.Unsubscribe, error) {
	if g.cache == nil {
		return func() {}, nil
	}

	var prev map[string]profileDigest
	return watcher.Subscribe(models.ProfilesCollection, func(snap store.Snapshot) {
		current := make(map[string]profileDigest, len(snap))
		for _, rec := range snap {
			p := models.ProfileFromRecord(rec)
			current[p.ID] = profileDigest{role: p.Role, status: p.Status, reason: p.DeclineReason}
		}
		for uid, d := range current {
			if old, ok := prev[uid]; !ok || old != d {
				g.cache.Invalidate(context.Background(), uid)
			}
		}
		for uid := range prev {
			if _, ok := current[uid]; !ok {
				g.cache.Invalidate(context.Background(), uid)
			}
		}
		prev = current
	})
}

type profileDigest struct {
	role   models.Role
	status models.Status
	reason string
}

func signInPath(area Area) string {
	if area == AreaAdmin {
		return AdminSignInPath
	}
	return ResidentSignInPath
}

func withNext(path, next string) string {
	if next == "" {
		return path
	}
	return fmt.Sprintf("%s?next=%s", path, url.QueryEscape(next))
}
