package content

import (
	"context"
	"sync"
	"testing"
	"time"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/notification"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*messaging.Message
}

func (f *fakeSender) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return "msg-id", nil
}

func newTestService(t *testing.T) (*DefaultContentService, *store.MemoryStore, *fakeSender) {
	t.Helper()
	mem := store.NewMemoryStore()
	sender := &fakeSender{}
	svc := &DefaultContentService{
		Sync: realtime.NewSyncManager(mem, zap.NewNop()),
		Push: &notification.PushService{Client: sender},
		Log:  zap.NewNop(),
	}
	return svc, mem, sender
}

var testActor = realtime.Actor{ID: "admin-1", Email: "captain@barangay.test"}

func openVotingEvent(t *testing.T, svc *DefaultContentService, options ...string) models.VotingEvent {
	t.Helper()
	created, fields, err := svc.CreateVotingEvent(context.Background(), models.VotingEvent{
		Title:    "Basketball court repaint color",
		Options:  options,
		Status:   models.VotingOpen,
		OpensAt:  time.Now().Add(-time.Hour),
		ClosesAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	return *created
}

func TestCreateAnnouncement_ValidationFailureReturnsFieldErrors(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, fields, err := svc.CreateAnnouncement(context.Background(), models.Announcement{Title: "ab"})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "body")

	assert.Empty(t, svc.Announcements(context.Background()), "invalid input must not reach the store")
}

func TestCreateAnnouncement_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.CreateAnnouncement(context.Background(), models.Announcement{
		Title:  "Garbage collection schedule",
		Body:   "Collection moves to Tuesdays starting next week.",
		Posted: true,
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.NotEmpty(t, created.ID)

	list := svc.Announcements(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Garbage collection schedule", list[0].Title)
}

func TestCreateAlert_BroadcastsActiveWarning(t *testing.T) {
	svc, _, sender := newTestService(t)

	_, fields, err := svc.CreateAlert(context.Background(), models.Alert{
		Title:    "Typhoon signal 2",
		Message:  "Evacuation center open at the covered court.",
		Severity: models.SeverityWarning,
		Active:   true,
	})
	require.NoError(t, err)
	require.Nil(t, fields)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, notification.AlertsTopic, sender.sent[0].Topic)
}

func TestCreateAlert_InactiveIsNotBroadcast(t *testing.T) {
	svc, _, sender := newTestService(t)

	_, fields, err := svc.CreateAlert(context.Background(), models.Alert{
		Title:    "Draft advisory",
		Message:  "Not yet published.",
		Severity: models.SeverityCritical,
		Active:   false,
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.Empty(t, sender.sent)
}

func TestCreateAlert_InfoSeverityStaysInApp(t *testing.T) {
	svc, _, sender := newTestService(t)

	_, fields, err := svc.CreateAlert(context.Background(), models.Alert{
		Title:    "Office hours",
		Message:  "Hall open until noon on Saturday.",
		Severity: models.SeverityInfo,
		Active:   true,
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.Empty(t, sender.sent, "informational alerts are not pushed to devices")
}

func TestCreateEvent_RejectsPastStartDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, fields, err := svc.CreateEvent(context.Background(), models.Event{
		Title:       "Last week's cleanup",
		Description: "Already happened.",
		StartsAt:    time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "must not be in the past", fields["startsAt"])
}

func TestCreateEvent_AcceptsFutureDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.CreateEvent(context.Background(), models.Event{
		Title:       "Fiesta parade",
		Description: "Annual parade along the main road.",
		StartsAt:    time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.NotEmpty(t, created.ID)
}

func TestCastVote_RecordsOneVote(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := openVotingEvent(t, svc, "blue", "green")

	created, fields, err := svc.CastVote(context.Background(), models.Vote{
		VotingEventID: event.ID,
		OwnerID:       "uid-1",
		Option:        "blue",
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.NotEmpty(t, created.ID)

	tally, err := svc.VoteTally(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"blue": 1}, tally)
}

func TestCastVote_SecondVoteRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := openVotingEvent(t, svc, "blue", "green")

	vote := models.Vote{VotingEventID: event.ID, OwnerID: "uid-1", Option: "blue"}
	_, _, err := svc.CastVote(context.Background(), vote)
	require.NoError(t, err)

	vote.Option = "green"
	_, _, err = svc.CastVote(context.Background(), vote)
	assert.ErrorIs(t, err, ErrDuplicateVote)

	tally, err := svc.VoteTally(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"blue": 1}, tally, "the rejected vote must not count")
}

func TestCastVote_DraftEventIsClosed(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.CreateVotingEvent(context.Background(), models.VotingEvent{
		Title:   "Unpublished poll",
		Options: []string{"yes", "no"},
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.Equal(t, models.VotingDraft, created.Status)

	_, _, err = svc.CastVote(context.Background(), models.Vote{
		VotingEventID: created.ID, OwnerID: "uid-1", Option: "yes",
	})
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestCastVote_OutsideWindowIsClosed(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.CreateVotingEvent(context.Background(), models.VotingEvent{
		Title:    "Expired poll",
		Options:  []string{"yes", "no"},
		Status:   models.VotingOpen,
		OpensAt:  time.Now().Add(-2 * time.Hour),
		ClosesAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Nil(t, fields)

	_, _, err = svc.CastVote(context.Background(), models.Vote{
		VotingEventID: created.ID, OwnerID: "uid-1", Option: "yes",
	})
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestCastVote_UnknownOptionReturnsFieldError(t *testing.T) {
	svc, _, _ := newTestService(t)
	event := openVotingEvent(t, svc, "blue", "green")

	_, fields, err := svc.CastVote(context.Background(), models.Vote{
		VotingEventID: event.ID, OwnerID: "uid-1", Option: "purple",
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "option")
}

func TestSubmitFeedback_ForcesNewStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, fields, err := svc.SubmitFeedback(context.Background(), models.Feedback{
		OwnerID:    "uid-1",
		Subject:    "Streetlight out",
		Message:    "The light at Purok 3 has been dark for a week.",
		Status:     models.FeedbackResolved,
		AdminReply: "should be cleared",
	})
	require.NoError(t, err)
	require.Nil(t, fields)
	assert.Equal(t, models.FeedbackNew, created.Status)
	assert.Empty(t, created.AdminReply)
}

func TestFeedbackForOwner_IsolatesOwners(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, owner := range []string{"uid-a", "uid-a", "uid-b"} {
		_, fields, err := svc.SubmitFeedback(ctx, models.Feedback{
			OwnerID: owner,
			Subject: "Drainage issue",
			Message: "Clogged canal near the school.",
		})
		require.NoError(t, err)
		require.Nil(t, fields)
	}

	assert.Len(t, svc.FeedbackForOwner(ctx, "uid-a"), 2)
	assert.Len(t, svc.FeedbackForOwner(ctx, "uid-b"), 1)
	assert.Empty(t, svc.FeedbackForOwner(ctx, "uid-c"))
	assert.Len(t, svc.AllFeedback(ctx), 3)
}

func TestReviewFeedback_UpdatesStatusAndReply(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.SubmitFeedback(ctx, models.Feedback{
		OwnerID: "uid-1",
		Subject: "Noise complaint",
		Message: "Karaoke past midnight on weekdays.",
	})
	require.NoError(t, err)

	fields, err := svc.ReviewFeedback(ctx, created.ID, models.FeedbackReviewed, "Patrol scheduled.")
	require.NoError(t, err)
	require.Nil(t, fields)

	all := svc.AllFeedback(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, models.FeedbackReviewed, all[0].Status)
	assert.Equal(t, "Patrol scheduled.", all[0].AdminReply)
}

func TestReviewFeedback_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	fields, err := svc.ReviewFeedback(context.Background(), "any", "escalated", "")
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "status")
}

func TestDelete_UnknownCollectionRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Delete(context.Background(), "profiles", "id", testActor)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestDelete_ArchivesRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.CreateAnnouncement(ctx, models.Announcement{
		Title: "Obsolete notice",
		Body:  "No longer relevant.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, models.AnnouncementsCollection, created.ID, testActor))

	assert.Empty(t, svc.Announcements(ctx))
	archived, err := svc.Archived(ctx, models.AnnouncementsCollection)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, created.ID, archived[0].OriginalID)
	assert.Equal(t, testActor.ID, archived[0].ArchivedBy)
}

func TestClearCollection_ArchivesEverything(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"first notice", "second notice"} {
		_, _, err := svc.CreateAnnouncement(ctx, models.Announcement{Title: title, Body: "text"})
		require.NoError(t, err)
	}

	cleared, err := svc.ClearCollection(ctx, models.AnnouncementsCollection, testActor)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	assert.Empty(t, svc.Announcements(ctx))
	archived, err := svc.Archived(ctx, models.AnnouncementsCollection)
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestClearCollection_FailedArchiveStopsEarly(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAnnouncement(ctx, models.Announcement{Title: "survivor", Body: "text"})
	require.NoError(t, err)

	mem.FailAdds[realtime.ArchiveCollection(models.AnnouncementsCollection)] = true

	cleared, err := svc.ClearCollection(ctx, models.AnnouncementsCollection, testActor)
	assert.ErrorIs(t, err, realtime.ErrArchiveFailed)
	assert.Equal(t, 0, cleared)
	assert.Len(t, svc.Announcements(ctx), 1, "records with failed archives must survive")
}
