package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/notification"
	"barangaylink/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	staffTokenTTL = 12 * time.Hour
	notifyTimeout = 5 * time.Second
)

// Signup creates a pending resident profile. The profile ID is the identity
// provider's uid, so the gate can resolve it straight from the session.
func (s *DefaultProfileService) Signup(ctx context.Context, p models.Profile) (*models.Profile, map[string]string, error) {
	p.Role = models.RoleResident
	p.Status = models.StatusPending

	if fields := models.Validate(p); fields != nil {
		return nil, fields, nil
	}

	if _, err := s.Sync.Get(ctx, models.ProfilesCollection, p.ID); err == nil {
		return nil, nil, ErrProfileExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("signup: existing profile check: %w", err)
	}

	rec, err := s.Sync.Add(ctx, models.ProfilesCollection, p.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("signup: %w", err)
	}

	created := p
	created.ID = rec.ID
	created.CreatedAt = rec.CreatedAt
	created.UpdatedAt = rec.UpdatedAt
	s.Log.Info("resident signed up", zap.String("profileID", created.ID), zap.String("email", created.Email))
	return &created, nil, nil
}

// ProfileByID resolves the current profile document.
func (s *DefaultProfileService) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	rec, err := s.Sync.Get(ctx, models.ProfilesCollection, id)
	if err != nil {
		return nil, err
	}
	p := models.ProfileFromRecord(*rec)
	return &p, nil
}

// AllResidents lists resident profiles for the admin review queue.
func (s *DefaultProfileService) AllResidents(ctx context.Context) ([]models.Profile, error) {
	snap, err := s.Sync.GetAll(ctx, models.ProfilesCollection)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	out := make([]models.Profile, 0, len(snap))
	for _, rec := range snap {
		p := models.ProfileFromRecord(rec)
		if p.Role == models.RoleResident {
			out = append(out, p)
		}
	}
	return out, nil
}

// Approve transitions a resident to verified and emails them. A failed email
// degrades the result (notified=false) without blocking the transition.
func (s *DefaultProfileService) Approve(ctx context.Context, id string, actor realtime.Actor) (*models.Profile, bool, error) {
	now := time.Now().UTC()
	update := store.Fields{
		"status":        string(models.StatusVerified),
		"verifiedAt":    now,
		"declineReason": "",
	}
	if err := s.Sync.Update(ctx, models.ProfilesCollection, id, update); err != nil {
		return nil, false, fmt.Errorf("approve %s: %w", id, err)
	}

	updated, err := s.ProfileByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("approve %s: read back: %w", id, err)
	}

	notified := s.notify(updated, notification.TemplateVerificationApproved, nil)
	s.Log.Info("resident approved",
		zap.String("profileID", id), zap.String("by", actor.Email), zap.Bool("notified", notified))
	return updated, notified, nil
}

// Decline transitions a resident to declined. The reason is required and is
// carried to the decline-status page by the gate.
func (s *DefaultProfileService) Decline(ctx context.Context, id, reason string, actor realtime.Actor) (*models.Profile, bool, error) {
	if reason == "" {
		return nil, false, ErrReasonRequired
	}

	update := store.Fields{
		"status":        string(models.StatusDeclined),
		"declineReason": reason,
		"declinedAt":    time.Now().UTC(),
	}
	if err := s.Sync.Update(ctx, models.ProfilesCollection, id, update); err != nil {
		return nil, false, fmt.Errorf("decline %s: %w", id, err)
	}

	updated, err := s.ProfileByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("decline %s: read back: %w", id, err)
	}

	notified := s.notify(updated, notification.TemplateVerificationDeclined, map[string]string{"Reason": reason})
	s.Log.Info("resident declined",
		zap.String("profileID", id), zap.String("by", actor.Email), zap.Bool("notified", notified))
	return updated, notified, nil
}

func (s *DefaultProfileService) notify(p *models.Profile, template string, params map[string]string) bool {
	if s.Notifier == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.Notifier.Send(ctx, p.Email, p.FullName, template, params); err != nil {
		s.Log.Warn("notification failed", zap.String("profileID", p.ID), zap.Error(err))
		return false
	}
	return true
}

// AuthenticateStaff validates admin credentials against the stored bcrypt
// hash and issues an HS256 staff token.
func (s *DefaultProfileService) AuthenticateStaff(ctx context.Context, email, password string) (string, error) {
	snap, err := s.Sync.GetAll(ctx, models.ProfilesCollection)
	if err != nil {
		return "", fmt.Errorf("staff auth: %w", err)
	}

	for _, rec := range snap {
		p := models.ProfileFromRecord(rec)
		if p.Email != email || p.Role != models.RoleAdmin {
			continue
		}
		if p.PasswordHash == "" {
			break
		}
		if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
			break
		}
		return utils.GenerateStaffToken(p.ID, p.Email, staffTokenTTL)
	}
	// Single failure path: no hint whether the account exists.
	return "", ErrInvalidCredentials
}

// UpdateFCMToken records a device push token on the profile.
func (s *DefaultProfileService) UpdateFCMToken(ctx context.Context, id, token string) error {
	if err := s.Sync.Update(ctx, models.ProfilesCollection, id, store.Fields{"fcmToken": token}); err != nil {
		return fmt.Errorf("update fcm token %s: %w", id, err)
	}
	return nil
}
