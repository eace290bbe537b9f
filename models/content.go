package models

import (
	"time"

	"barangaylink/database/store"
)

// Collection names for content records.
const (
	AnnouncementsCollection = "announcements"
	AlertsCollection        = "alerts"
	OfficialsCollection     = "officials"
	EventsCollection        = "events"
	VotingEventsCollection  = "voting_events"
	VotesCollection         = "votes"
	FeedbackCollection      = "feedback"
)

// ContentCollections lists every collection subject to the
// archive-before-delete protocol.
var ContentCollections = []string{
	AnnouncementsCollection,
	AlertsCollection,
	OfficialsCollection,
	EventsCollection,
	VotingEventsCollection,
	VotesCollection,
	FeedbackCollection,
}

// Announcement is a barangay-wide notice.
type Announcement struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required,min=3,max=160"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category" validate:"omitempty,max=60"`
	Posted   bool   `json:"posted"`
	AuthorID string `json:"authorId"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (a Announcement) ToFields() store.Fields {
	return store.Fields{
		"title":    a.Title,
		"body":     a.Body,
		"category": a.Category,
		"posted":   a.Posted,
		"authorId": a.AuthorID,
		"imageUrl": a.ImageURL,
	}
}

func AnnouncementFromRecord(rec store.Record) Announcement {
	return Announcement{
		ID:        rec.ID,
		Title:     asString(rec.Fields["title"]),
		Body:      asString(rec.Fields["body"]),
		Category:  asString(rec.Fields["category"]),
		Posted:    asBool(rec.Fields["posted"]),
		AuthorID:  asString(rec.Fields["authorId"]),
		ImageURL:  asString(rec.Fields["imageUrl"]),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// Alert severity levels.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is an emergency or advisory notice.
type Alert struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required,min=3,max=160"`
	Message  string `json:"message" validate:"required"`
	Severity string `json:"severity" validate:"required,oneof=info warning critical"`
	Active   bool   `json:"active"`
	AuthorID string `json:"authorId"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (a Alert) ToFields() store.Fields {
	return store.Fields{
		"title":    a.Title,
		"message":  a.Message,
		"severity": a.Severity,
		"active":   a.Active,
		"authorId": a.AuthorID,
	}
}

func AlertFromRecord(rec store.Record) Alert {
	return Alert{
		ID:        rec.ID,
		Title:     asString(rec.Fields["title"]),
		Message:   asString(rec.Fields["message"]),
		Severity:  asString(rec.Fields["severity"]),
		Active:    asBool(rec.Fields["active"]),
		AuthorID:  asString(rec.Fields["authorId"]),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// Official is one member of the barangay council.
type Official struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName" validate:"required,min=2,max=120"`
	Position  string    `json:"position" validate:"required,max=80"`
	PhotoURL  string    `json:"photoUrl" validate:"omitempty,url"`
	TermStart time.Time `json:"termStart"`
	TermEnd   time.Time `json:"termEnd" validate:"omitempty,gtfield=TermStart"`
	Order     int       `json:"order"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (o Official) ToFields() store.Fields {
	return store.Fields{
		"fullName":  o.FullName,
		"position":  o.Position,
		"photoUrl":  o.PhotoURL,
		"termStart": o.TermStart,
		"termEnd":   o.TermEnd,
		"order":     o.Order,
	}
}

func OfficialFromRecord(rec store.Record) Official {
	return Official{
		ID:        rec.ID,
		FullName:  asString(rec.Fields["fullName"]),
		Position:  asString(rec.Fields["position"]),
		PhotoURL:  asString(rec.Fields["photoUrl"]),
		TermStart: asTime(rec.Fields["termStart"]),
		TermEnd:   asTime(rec.Fields["termEnd"]),
		Order:     asInt(rec.Fields["order"]),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// Event is a scheduled barangay activity.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,min=3,max=160"`
	Description string    `json:"description" validate:"required"`
	Venue       string    `json:"venue" validate:"omitempty,max=160"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"omitempty,gtfield=StartsAt"`
	AuthorID    string    `json:"authorId"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (e Event) ToFields() store.Fields {
	return store.Fields{
		"title":       e.Title,
		"description": e.Description,
		"venue":       e.Venue,
		"startsAt":    e.StartsAt,
		"endsAt":      e.EndsAt,
		"authorId":    e.AuthorID,
	}
}

func EventFromRecord(rec store.Record) Event {
	return Event{
		ID:          rec.ID,
		Title:       asString(rec.Fields["title"]),
		Description: asString(rec.Fields["description"]),
		Venue:       asString(rec.Fields["venue"]),
		StartsAt:    asTime(rec.Fields["startsAt"]),
		EndsAt:      asTime(rec.Fields["endsAt"]),
		AuthorID:    asString(rec.Fields["authorId"]),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

// Voting event lifecycle.
const (
	VotingDraft  = "draft"
	VotingOpen   = "open"
	VotingClosed = "closed"
)

// VotingEvent is a poll residents cast one vote each in.
type VotingEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,min=3,max=160"`
	Description string    `json:"description"`
	Options     []string  `json:"options" validate:"required,min=2,dive,required"`
	OpensAt     time.Time `json:"opensAt"`
	ClosesAt    time.Time `json:"closesAt" validate:"omitempty,gtfield=OpensAt"`
	Status      string    `json:"status" validate:"required,oneof=draft open closed"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (v VotingEvent) ToFields() store.Fields {
	return store.Fields{
		"title":       v.Title,
		"description": v.Description,
		"options":     v.Options,
		"opensAt":     v.OpensAt,
		"closesAt":    v.ClosesAt,
		"status":      v.Status,
	}
}

func VotingEventFromRecord(rec store.Record) VotingEvent {
	return VotingEvent{
		ID:          rec.ID,
		Title:       asString(rec.Fields["title"]),
		Description: asString(rec.Fields["description"]),
		Options:     asStringSlice(rec.Fields["options"]),
		OpensAt:     asTime(rec.Fields["opensAt"]),
		ClosesAt:    asTime(rec.Fields["closesAt"]),
		Status:      asString(rec.Fields["status"]),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

// Vote is one resident's choice in a voting event.
type Vote struct {
	ID            string `json:"id"`
	VotingEventID string `json:"votingEventId" validate:"required"`
	OwnerID       string `json:"ownerId" validate:"required"`
	Option        string `json:"option" validate:"required"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (v Vote) ToFields() store.Fields {
	return store.Fields{
		"votingEventId": v.VotingEventID,
		"ownerId":       v.OwnerID,
		"option":        v.Option,
	}
}

func VoteFromRecord(rec store.Record) Vote {
	return Vote{
		ID:            rec.ID,
		VotingEventID: asString(rec.Fields["votingEventId"]),
		OwnerID:       asString(rec.Fields["ownerId"]),
		Option:        asString(rec.Fields["option"]),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// Feedback workflow states.
const (
	FeedbackNew      = "new"
	FeedbackReviewed = "reviewed"
	FeedbackResolved = "resolved"
)

// Feedback is a resident-submitted concern or suggestion.
type Feedback struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId" validate:"required"`
	OwnerEmail string `json:"ownerEmail" validate:"omitempty,email"`
	Subject    string `json:"subject" validate:"required,min=3,max=160"`
	Message    string `json:"message" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=new reviewed resolved"`
	AdminReply string `json:"adminReply"`

	CreatedAt store.Timestamp `json:"createdAt"`
	UpdatedAt store.Timestamp `json:"updatedAt"`
}

func (f Feedback) ToFields() store.Fields {
	return store.Fields{
		"ownerId":    f.OwnerID,
		"ownerEmail": f.OwnerEmail,
		"subject":    f.Subject,
		"message":    f.Message,
		"status":     f.Status,
		"adminReply": f.AdminReply,
	}
}

func FeedbackFromRecord(rec store.Record) Feedback {
	return Feedback{
		ID:         rec.ID,
		OwnerID:    asString(rec.Fields["ownerId"]),
		OwnerEmail: asString(rec.Fields["ownerEmail"]),
		Subject:    asString(rec.Fields["subject"]),
		Message:    asString(rec.Fields["message"]),
		Status:     asString(rec.Fields["status"]),
		AdminReply: asString(rec.Fields["adminReply"]),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
