package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProfiles is an in-memory ProfileSource.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	fail     bool
	lookups  int
}

func (f *fakeProfiles) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.fail {
		return nil, store.ErrFetch
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) set(p models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profiles == nil {
		f.profiles = make(map[string]models.Profile)
	}
	f.profiles[p.ID] = p
}

// memoryCache is a map-backed DecisionCache recording invalidations.
type memoryCache struct {
	mu          sync.Mutex
	decisions   map[string]Decision
	invalidated []string
}

func memKey(uid string, req Requirement) string {
	key := uid + "/resident"
	if req.Area == AreaAdmin {
		key = uid + "/admin"
	}
	if req.RequireVerified {
		key += "/verified"
	}
	return key
}

func (c *memoryCache) Get(ctx context.Context, uid string, req Requirement) (Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.decisions[memKey(uid, req)]
	return d, ok
}

func (c *memoryCache) Set(ctx context.Context, uid string, req Requirement, d Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.decisions == nil {
		c.decisions = make(map[string]Decision)
	}
	c.decisions[memKey(uid, req)] = d
}

func (c *memoryCache) Invalidate(ctx context.Context, uid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.decisions {
		if len(k) > len(uid) && k[:len(uid)] == uid && k[len(uid)] == '/' {
			delete(c.decisions, k)
		}
	}
	c.invalidated = append(c.invalidated, uid)
}

func (c *memoryCache) invalidations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

func resident(uid string, status models.Status) models.Profile {
	return models.Profile{ID: uid, Role: models.RoleResident, Status: status}
}

func authedSession(uid string) Session {
	return Session{Resolved: true, Authenticated: true, UID: uid, Email: uid + "@test"}
}

func TestEvaluate_UnresolvedSessionBlocksWithoutRedirect(t *testing.T) {
	g := New(&fakeProfiles{}, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), Session{}, Requirement{Area: AreaResident}, "/announcements")
	assert.Equal(t, OutcomeUnresolved, d.Outcome)
	assert.Empty(t, d.RedirectTo, "unresolved must never redirect")
}

func TestEvaluate_UnauthenticatedRedirectsToSignInWithNext(t *testing.T) {
	g := New(&fakeProfiles{}, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), Session{Resolved: true}, Requirement{Area: AreaResident}, "/events")
	assert.Equal(t, OutcomeUnauthenticated, d.Outcome)
	assert.Equal(t, ResidentSignInPath+"?next=%2Fevents", d.RedirectTo)
}

func TestEvaluate_UnauthenticatedAdminAreaRedirectsToAdminSignIn(t *testing.T) {
	g := New(&fakeProfiles{}, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), Session{Resolved: true}, Requirement{Area: AreaAdmin}, "")
	assert.Equal(t, OutcomeUnauthenticated, d.Outcome)
	assert.Equal(t, AdminSignInPath, d.RedirectTo)
}

func TestEvaluate_MissingProfileTreatedAsUnauthenticated(t *testing.T) {
	g := New(&fakeProfiles{}, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("ghost"), Requirement{Area: AreaResident}, "")
	assert.Equal(t, OutcomeUnauthenticated, d.Outcome)
	assert.Equal(t, ResidentSignInPath, d.RedirectTo)
}

func TestEvaluate_LookupFailureDeniesSilently(t *testing.T) {
	g := New(&fakeProfiles{fail: true}, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("uid"), Requirement{Area: AreaResident}, "")
	assert.Equal(t, OutcomeUnauthenticated, d.Outcome, "a failed lookup must deny, never admit")
}

func TestEvaluate_ResidentRoleInAdminAreaIsForbidden(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusVerified))
	g := New(profiles, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("uid"), Requirement{Area: AreaAdmin}, "")
	assert.Equal(t, OutcomeForbidden, d.Outcome)
	assert.Equal(t, AdminSignInPath, d.RedirectTo, "forbidden must look like a missing admin session")
	assert.Empty(t, d.Reason, "forbidden carries no detail")
}

func TestEvaluate_DeclinedCarriesReason(t *testing.T) {
	profiles := &fakeProfiles{}
	p := resident("uid", models.StatusDeclined)
	p.DeclineReason = "address could not be verified"
	profiles.set(p)
	g := New(profiles, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("uid"), Requirement{Area: AreaResident}, "")
	assert.Equal(t, OutcomeDeclined, d.Outcome)
	assert.Equal(t, DeclinedStatusPath, d.RedirectTo)
	assert.Equal(t, "address could not be verified", d.Reason)
}

func TestEvaluate_PendingAdmittedToInformationalDestinations(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusPending))
	g := New(profiles, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("uid"), Requirement{Area: AreaResident}, "")
	assert.Equal(t, OutcomeAdmitted, d.Outcome)
}

func TestEvaluate_PendingBlockedFromVerifiedDestinations(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusPending))
	g := New(profiles, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("uid"),
		Requirement{Area: AreaResident, RequireVerified: true}, "")
	assert.Equal(t, OutcomePendingVerification, d.Outcome)
	assert.Equal(t, PendingStatusPath, d.RedirectTo)
}

func TestEvaluate_FollowsProfileStatusTransitions(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusPending))
	g := New(profiles, nil, zap.NewNop())
	req := Requirement{Area: AreaResident, RequireVerified: true}
	sess := authedSession("uid")

	d := g.Evaluate(context.Background(), sess, req, "")
	assert.Equal(t, OutcomePendingVerification, d.Outcome)

	profiles.set(resident("uid", models.StatusVerified))
	d = g.Evaluate(context.Background(), sess, req, "")
	assert.Equal(t, OutcomeAdmitted, d.Outcome, "a verified profile admits the next navigation")

	p := resident("uid", models.StatusDeclined)
	p.DeclineReason = "moved out of the barangay"
	profiles.set(p)
	d = g.Evaluate(context.Background(), sess, req, "")
	assert.Equal(t, OutcomeDeclined, d.Outcome)
	assert.Equal(t, "moved out of the barangay", d.Reason, "the latest decline reason must be carried")
}

func TestEvaluate_VerifiedResidentAdmittedEverywhereResident(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusVerified))
	g := New(profiles, nil, zap.NewNop())

	for _, req := range []Requirement{
		{Area: AreaResident},
		{Area: AreaResident, RequireVerified: true},
	} {
		d := g.Evaluate(context.Background(), authedSession("uid"), req, "")
		assert.Equal(t, OutcomeAdmitted, d.Outcome)
	}
}

func TestEvaluate_AdminAdmittedToAdminArea(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(models.Profile{ID: "cap", Role: models.RoleAdmin, Status: models.StatusVerified})
	g := New(profiles, nil, zap.NewNop())

	d := g.Evaluate(context.Background(), authedSession("cap"), Requirement{Area: AreaAdmin}, "")
	assert.Equal(t, OutcomeAdmitted, d.Outcome)
}

func TestEvaluate_CachesProfileDependentDecisions(t *testing.T) {
	profiles := &fakeProfiles{}
	profiles.set(resident("uid", models.StatusVerified))
	cache := &memoryCache{}
	g := New(profiles, cache, zap.NewNop())

	req := Requirement{Area: AreaResident}
	sess := authedSession("uid")

	first := g.Evaluate(context.Background(), sess, req, "")
	second := g.Evaluate(context.Background(), sess, req, "")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, profiles.lookups, "the second evaluation must come from the cache")
}

func TestEvaluate_UnauthenticatedBypassesCache(t *testing.T) {
	cache := &memoryCache{}
	g := New(&fakeProfiles{}, cache, zap.NewNop())

	g.Evaluate(context.Background(), Session{Resolved: true}, Requirement{Area: AreaResident}, "")
	assert.Empty(t, cache.decisions, "session-only outcomes must not be cached")
}

func TestWatchProfiles_InvalidatesChangedProfiles(t *testing.T) {
	mem := store.NewMemoryStore()
	manager := realtime.NewSyncManager(mem, zap.NewNop())
	cache := &memoryCache{}
	g := New(&fakeProfiles{}, cache, zap.NewNop())

	ctx := context.Background()
	_, err := manager.Add(ctx, models.ProfilesCollection,
		resident("uid-1", models.StatusPending).ToFields())
	require.NoError(t, err)

	stop, err := g.WatchProfiles(manager)
	require.NoError(t, err)
	defer stop()

	// The initial snapshot invalidates every known uid once.
	waitForCond(t, func() bool {
		return contains(cache.invalidations(), "uid-1")
	})
	before := len(cache.invalidations())

	require.NoError(t, manager.Update(ctx, models.ProfilesCollection, "uid-1",
		store.Fields{"status": string(models.StatusVerified)}))

	waitForCond(t, func() bool {
		return len(cache.invalidations()) > before && contains(cache.invalidations(), "uid-1")
	})
}

func TestWatchProfiles_NilCacheIsNoOp(t *testing.T) {
	g := New(&fakeProfiles{}, nil, zap.NewNop())
	stop, err := g.WatchProfiles(realtime.NewSyncManager(store.NewMemoryStore(), zap.NewNop()))
	require.NoError(t, err)
	stop()
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func waitForCond(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 400; i++ {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
