package models

import (
	"time"

	"barangaylink/database/store"
)

// Collection names for profile documents.
const ProfilesCollection = "profiles"

// Role of a portal account.
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// Status of a resident's verification.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusDeclined Status = "declined"
)

// Profile is one portal account. Residents sign up through the identity
// provider and start pending; an administrator approves or declines them.
type Profile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email" validate:"required,email"`
	FullName      string    `json:"fullName" validate:"required,min=2,max=120"`
	Phone         string    `json:"phone" validate:"omitempty,min=7,max=20"`
	Address       string    `json:"address" validate:"omitempty,max=240"`
	Role          Role      `json:"role" validate:"required,oneof=resident admin"`
	Status        Status    `json:"status" validate:"required,oneof=pending verified declined"`
	DeclineReason string    `json:"declineReason,omitempty"`
	PasswordHash  string    `json:"-"`
	FCMToken      string    `json:"-"`
	VerifiedAt    time.Time `json:"verifiedAt,omitempty"`
	DeclinedAt    time.Time `json:"declinedAt,omitempty"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

// ToFields flattens the profile's domain fields for the document store.
func (p Profile) ToFields() store.Fields {
	f := store.Fields{
		"email":    p.Email,
		"fullName": p.FullName,
		"phone":    p.Phone,
		"address":  p.Address,
		"role":     string(p.Role),
		"status":   string(p.Status),
	}
	if p.DeclineReason != "" {
		f["declineReason"] = p.DeclineReason
	}
	if p.PasswordHash != "" {
		f["passwordHash"] = p.PasswordHash
	}
	if p.FCMToken != "" {
		f["fcmToken"] = p.FCMToken
	}
	if !p.VerifiedAt.IsZero() {
		f["verifiedAt"] = p.VerifiedAt
	}
	if !p.DeclinedAt.IsZero() {
		f["declinedAt"] = p.DeclinedAt
	}
	if p.ID != "" {
		f["id"] = p.ID
	}
	return f
}

// ProfileFromRecord rebuilds a profile from a store record.
func ProfileFromRecord(rec store.Record) Profile {
	p := Profile{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	p.Email = asString(rec.Fields["email"])
	p.FullName = asString(rec.Fields["fullName"])
	p.Phone = asString(rec.Fields["phone"])
	p.Address = asString(rec.Fields["address"])
	p.Role = Role(asString(rec.Fields["role"]))
	p.Status = Status(asString(rec.Fields["status"]))
	p.DeclineReason = asString(rec.Fields["declineReason"])
	p.PasswordHash = asString(rec.Fields["passwordHash"])
	p.FCMToken = asString(rec.Fields["fcmToken"])
	p.VerifiedAt = asTime(rec.Fields["verifiedAt"])
	p.DeclinedAt = asTime(rec.Fields["declinedAt"])
	return p
}
