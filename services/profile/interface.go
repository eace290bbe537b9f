package profile

import (
	"context"
	"errors"

	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/notification"

	"go.uber.org/zap"
)

// ProfileService manages resident and staff accounts.
type ProfileService interface {
	// Signup creates a pending resident profile for a verified identity
	// session. Field errors are returned keyed by field name.
	Signup(ctx context.Context, p models.Profile) (*models.Profile, map[string]string, error)
	// ProfileByID resolves the current profile document; used by the gate
	// on every protected navigation.
	ProfileByID(ctx context.Context, id string) (*models.Profile, error)
	// AllResidents lists every resident profile for the admin review queue.
	AllResidents(ctx context.Context) ([]models.Profile, error)
	// Approve transitions a pending resident to verified. The returned bool
	// reports whether the notification email was delivered.
	Approve(ctx context.Context, id string, actor realtime.Actor) (*models.Profile, bool, error)
	// Decline transitions a resident to declined with a required reason.
	Decline(ctx context.Context, id, reason string, actor realtime.Actor) (*models.Profile, bool, error)
	// AuthenticateStaff validates admin credentials and issues a staff
	// session token.
	AuthenticateStaff(ctx context.Context, email, password string) (string, error)
	// UpdateFCMToken records a device push token on the profile.
	UpdateFCMToken(ctx context.Context, id, token string) error
}

var (
	ErrProfileExists      = errors.New("profile: already exists")
	ErrInvalidCredentials = errors.New("profile: invalid credentials")
	ErrReasonRequired     = errors.New("profile: decline reason required")
)

// DefaultProfileService is the production implementation.
type DefaultProfileService struct {
	Sync     *realtime.SyncManager
	Notifier notification.Notifier
	Log      *zap.Logger
}
