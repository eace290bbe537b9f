package content

import (
	"context"
	"errors"

	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/notification"

	"go.uber.org/zap"
)

// ContentService manages every content collection: announcements, alerts,
// officials, events, voting events, votes and feedback. Deletes go through
// the archive-before-delete protocol of the sync layer.
type ContentService interface {
	// Reads degrade to empty on transport failure; the portal is
	// best-effort informational display, not a system of record.
	Announcements(ctx context.Context) []models.Announcement
	Alerts(ctx context.Context) []models.Alert
	Officials(ctx context.Context) []models.Official
	Events(ctx context.Context) []models.Event
	VotingEvents(ctx context.Context) []models.VotingEvent

	CreateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, map[string]string, error)
	UpdateAnnouncement(ctx context.Context, id string, a models.Announcement) (map[string]string, error)
	CreateAlert(ctx context.Context, a models.Alert) (*models.Alert, map[string]string, error)
	UpdateAlert(ctx context.Context, id string, a models.Alert) (map[string]string, error)
	CreateOfficial(ctx context.Context, o models.Official) (*models.Official, map[string]string, error)
	UpdateOfficial(ctx context.Context, id string, o models.Official) (map[string]string, error)
	CreateEvent(ctx context.Context, e models.Event) (*models.Event, map[string]string, error)
	UpdateEvent(ctx context.Context, id string, e models.Event) (map[string]string, error)
	CreateVotingEvent(ctx context.Context, v models.VotingEvent) (*models.VotingEvent, map[string]string, error)
	UpdateVotingEvent(ctx context.Context, id string, v models.VotingEvent) (map[string]string, error)

	CastVote(ctx context.Context, v models.Vote) (*models.Vote, map[string]string, error)
	VoteTally(ctx context.Context, votingEventID string) (map[string]int, error)

	SubmitFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, map[string]string, error)
	FeedbackForOwner(ctx context.Context, ownerID string) []models.Feedback
	AllFeedback(ctx context.Context) []models.Feedback
	ReviewFeedback(ctx context.Context, id, status, reply string) (map[string]string, error)

	Delete(ctx context.Context, collection, id string, actor realtime.Actor) error
	ClearCollection(ctx context.Context, collection string, actor realtime.Actor) (int, error)
	Archived(ctx context.Context, collection string) ([]models.ArchiveRecord, error)
}

var (
	ErrUnknownCollection = errors.New("content: unknown collection")
	ErrVotingClosed      = errors.New("content: voting event is not open")
	ErrDuplicateVote     = errors.New("content: resident already voted in this event")
)

// DefaultContentService is the production implementation.
type DefaultContentService struct {
	Sync *realtime.SyncManager
	Push *notification.PushService
	Log  *zap.Logger
}

func knownCollection(name string) bool {
	for _, c := range models.ContentCollections {
		if c == name {
			return true
		}
	}
	return false
}
