package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeNotifier struct {
	mu        sync.Mutex
	sent      []string
	failSends bool
}

func (f *fakeNotifier) Send(ctx context.Context, toEmail, toName, template string, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSends {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, template)
	return nil
}

func newTestService(t *testing.T) (*DefaultProfileService, *store.MemoryStore, *fakeNotifier) {
	t.Helper()
	mem := store.NewMemoryStore()
	notifier := &fakeNotifier{}
	svc := &DefaultProfileService{
		Sync:     realtime.NewSyncManager(mem, zap.NewNop()),
		Notifier: notifier,
		Log:      zap.NewNop(),
	}
	return svc, mem, notifier
}

var testActor = realtime.Actor{ID: "admin-1", Email: "captain@barangay.test"}

func testSignup(t *testing.T, svc *DefaultProfileService, uid string) models.Profile {
	t.Helper()
	created, fields, err := svc.Signup(context.Background(), models.Profile{
		ID:       uid,
		Email:    uid + "@example.com",
		FullName: "Juan Dela Cruz",
		Address:  "Purok 3, Barangay San Isidro",
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	return *created
}

func TestSignup_CreatesPendingResident(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := testSignup(t, svc, "uid-1")
	assert.Equal(t, "uid-1", created.ID, "profile id must be the identity provider uid")
	assert.Equal(t, models.RoleResident, created.Role)
	assert.Equal(t, models.StatusPending, created.Status)

	got, err := svc.ProfileByID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestSignup_ForcesResidentRoleAndPendingStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.Signup(context.Background(), models.Profile{
		ID:       "uid-sneaky",
		Email:    "sneaky@example.com",
		FullName: "Self Promoter",
		Role:     models.RoleAdmin,
		Status:   models.StatusVerified,
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.Equal(t, models.RoleResident, created.Role, "signup must never grant admin")
	assert.Equal(t, models.StatusPending, created.Status, "signup must never grant verified")
}

func TestSignup_DuplicateRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	testSignup(t, svc, "uid-1")

	_, _, err := svc.Signup(context.Background(), models.Profile{
		ID:       "uid-1",
		Email:    "uid-1@example.com",
		FullName: "Juan Again",
	})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestSignup_InvalidFieldsReported(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, fields, err := svc.Signup(context.Background(), models.Profile{
		ID:       "uid-1",
		Email:    "not-an-email",
		FullName: "J",
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "fullName")
}

func TestApprove_VerifiesAndNotifies(t *testing.T) {
	svc, _, notifier := newTestService(t)
	testSignup(t, svc, "uid-1")

	updated, notified, err := svc.Approve(context.Background(), "uid-1", testActor)
	require.NoError(t, err)
	assert.True(t, notified)
	assert.Equal(t, models.StatusVerified, updated.Status)
	assert.False(t, updated.VerifiedAt.IsZero())
	assert.Equal(t, []string{"verification_approved"}, notifier.sent)
}

func TestApprove_FailedEmailIsDegradedSuccess(t *testing.T) {
	svc, _, notifier := newTestService(t)
	notifier.failSends = true
	testSignup(t, svc, "uid-1")

	updated, notified, err := svc.Approve(context.Background(), "uid-1", testActor)
	require.NoError(t, err, "a failed email must not roll back the approval")
	assert.False(t, notified)
	assert.Equal(t, models.StatusVerified, updated.Status)
}

func TestApprove_ClearsEarlierDeclineReason(t *testing.T) {
	svc, _, _ := newTestService(t)
	testSignup(t, svc, "uid-1")

	_, _, err := svc.Decline(context.Background(), "uid-1", "incomplete address", testActor)
	require.NoError(t, err)

	updated, _, err := svc.Approve(context.Background(), "uid-1", testActor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, updated.Status)
	assert.Empty(t, updated.DeclineReason)
}

func TestApprove_MissingProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Approve(context.Background(), "ghost", testActor)
	assert.ErrorIs(t, err, realtime.ErrNotFound)
}

func TestDecline_RequiresReason(t *testing.T) {
	svc, _, _ := newTestService(t)
	testSignup(t, svc, "uid-1")

	_, _, err := svc.Decline(context.Background(), "uid-1", "", testActor)
	assert.ErrorIs(t, err, ErrReasonRequired)

	got, err := svc.ProfileByID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status, "a rejected decline must not change status")
}

func TestDecline_RecordsReasonAndNotifies(t *testing.T) {
	svc, _, notifier := newTestService(t)
	testSignup(t, svc, "uid-1")

	updated, notified, err := svc.Decline(context.Background(), "uid-1", "address could not be verified", testActor)
	require.NoError(t, err)
	assert.True(t, notified)
	assert.Equal(t, models.StatusDeclined, updated.Status)
	assert.Equal(t, "address could not be verified", updated.DeclineReason)
	assert.Equal(t, []string{"verification_declined"}, notifier.sent)
}

func TestAllResidents_ExcludesAdmins(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	testSignup(t, svc, "uid-1")

	admin := models.Profile{
		ID: "cap", Email: "cap@barangay.test", FullName: "Barangay Captain",
		Role: models.RoleAdmin, Status: models.StatusVerified,
	}
	_, err := svc.Sync.Add(ctx, models.ProfilesCollection, admin.ToFields())
	require.NoError(t, err)

	residents, err := svc.AllResidents(ctx)
	require.NoError(t, err)
	require.Len(t, residents, 1)
	assert.Equal(t, "uid-1", residents[0].ID)
}

func TestAuthenticateStaff_ValidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.Profile{
		ID: "cap", Email: "cap@barangay.test", FullName: "Barangay Captain",
		Role: models.RoleAdmin, Status: models.StatusVerified,
		PasswordHash: string(hash),
	}
	_, err = svc.Sync.Add(ctx, models.ProfilesCollection, admin.ToFields())
	require.NoError(t, err)

	token, err := svc.AuthenticateStaff(ctx, "cap@barangay.test", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, email, err := utils.ExtractSessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cap", subject)
	assert.Equal(t, "cap@barangay.test", email)
}

func TestAuthenticateStaff_SingleFailurePath(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.Profile{
		ID: "cap", Email: "cap@barangay.test", FullName: "Barangay Captain",
		Role: models.RoleAdmin, Status: models.StatusVerified,
		PasswordHash: string(hash),
	}
	_, err = svc.Sync.Add(ctx, models.ProfilesCollection, admin.ToFields())
	require.NoError(t, err)

	// Wrong password, unknown account, and resident account all fail the
	// same way.
	testSignup(t, svc, "uid-1")
	for _, attempt := range []struct{ email, password string }{
		{"cap@barangay.test", "wrong"},
		{"nobody@barangay.test", "secret"},
		{"uid-1@example.com", "secret"},
	} {
		_, err := svc.AuthenticateStaff(ctx, attempt.email, attempt.password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestUpdateFCMToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	testSignup(t, svc, "uid-1")

	require.NoError(t, svc.UpdateFCMToken(context.Background(), "uid-1", "device-token"))

	got, err := svc.ProfileByID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "device-token", got.FCMToken)
}
