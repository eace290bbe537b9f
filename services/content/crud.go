package content

import (
	"context"
	"fmt"
	"time"

	"barangaylink/models"
	"barangaylink/realtime"

	"go.uber.org/zap"
)

// Announcements returns the current snapshot, empty on transport failure.
func (s *DefaultContentService) Announcements(ctx context.Context) []models.Announcement {
	snap := s.Sync.GetAllOrEmpty(ctx, models.AnnouncementsCollection)
	out := make([]models.Announcement, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.AnnouncementFromRecord(rec))
	}
	return out
}

func (s *DefaultContentService) CreateAnnouncement(ctx context.Context, a models.Announcement) (*models.Announcement, map[string]string, error) {
	if fields := models.Validate(a); fields != nil {
		return nil, fields, nil
	}
	rec, err := s.Sync.Add(ctx, models.AnnouncementsCollection, a.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("create announcement: %w", err)
	}
	a.ID = rec.ID
	a.CreatedAt = rec.CreatedAt
	a.UpdatedAt = rec.UpdatedAt
	return &a, nil, nil
}

func (s *DefaultContentService) UpdateAnnouncement(ctx context.Context, id string, a models.Announcement) (map[string]string, error) {
	if fields := models.Validate(a); fields != nil {
		return fields, nil
	}
	return nil, s.Sync.Update(ctx, models.AnnouncementsCollection, id, a.ToFields())
}

func (s *DefaultContentService) Alerts(ctx context.Context) []models.Alert {
	snap := s.Sync.GetAllOrEmpty(ctx, models.AlertsCollection)
	out := make([]models.Alert, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.AlertFromRecord(rec))
	}
	return out
}

// CreateAlert stores the alert and broadcasts it to subscribed devices. A
// failed broadcast is logged, not surfaced; the alert is already live.
func (s *DefaultContentService) CreateAlert(ctx context.Context, a models.Alert) (*models.Alert, map[string]string, error) {
	if fields := models.Validate(a); fields != nil {
		return nil, fields, nil
	}
	rec, err := s.Sync.Add(ctx, models.AlertsCollection, a.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("create alert: %w", err)
	}
	a.ID = rec.ID
	a.CreatedAt = rec.CreatedAt
	a.UpdatedAt = rec.UpdatedAt

	if a.Active {
		if err := s.Push.BroadcastAlert(ctx, a); err != nil {
			s.Log.Warn("alert broadcast failed", zap.String("alertID", a.ID), zap.Error(err))
		}
	}
	return &a, nil, nil
}

func (s *DefaultContentService) UpdateAlert(ctx context.Context, id string, a models.Alert) (map[string]string, error) {
	if fields := models.Validate(a); fields != nil {
		return fields, nil
	}
	return nil, s.Sync.Update(ctx, models.AlertsCollection, id, a.ToFields())
}

func (s *DefaultContentService) Officials(ctx context.Context) []models.Official {
	snap := s.Sync.GetAllOrEmpty(ctx, models.OfficialsCollection)
	out := make([]models.Official, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.OfficialFromRecord(rec))
	}
	return out
}

func (s *DefaultContentService) CreateOfficial(ctx context.Context, o models.Official) (*models.Official, map[string]string, error) {
	if fields := models.Validate(o); fields != nil {
		return nil, fields, nil
	}
	rec, err := s.Sync.Add(ctx, models.OfficialsCollection, o.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("create official: %w", err)
	}
	o.ID = rec.ID
	o.CreatedAt = rec.CreatedAt
	o.UpdatedAt = rec.UpdatedAt
	return &o, nil, nil
}

func (s *DefaultContentService) UpdateOfficial(ctx context.Context, id string, o models.Official) (map[string]string, error) {
	if fields := models.Validate(o); fields != nil {
		return fields, nil
	}
	return nil, s.Sync.Update(ctx, models.OfficialsCollection, id, o.ToFields())
}

func (s *DefaultContentService) Events(ctx context.Context) []models.Event {
	snap := s.Sync.GetAllOrEmpty(ctx, models.EventsCollection)
	out := make([]models.Event, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.EventFromRecord(rec))
	}
	return out
}

// CreateEvent rejects a start date in the past before any store call.
func (s *DefaultContentService) CreateEvent(ctx context.Context, e models.Event) (*models.Event, map[string]string, error) {
	fields := models.Validate(e)
	if fields == nil && e.StartsAt.Before(time.Now()) {
		fields = map[string]string{"startsAt": "must not be in the past"}
	}
	if fields != nil {
		return nil, fields, nil
	}

	rec, err := s.Sync.Add(ctx, models.EventsCollection, e.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}
	e.ID = rec.ID
	e.CreatedAt = rec.CreatedAt
	e.UpdatedAt = rec.UpdatedAt
	return &e, nil, nil
}

func (s *DefaultContentService) UpdateEvent(ctx context.Context, id string, e models.Event) (map[string]string, error) {
	if fields := models.Validate(e); fields != nil {
		return fields, nil
	}
	return nil, s.Sync.Update(ctx, models.EventsCollection, id, e.ToFields())
}

// Delete archives then deletes a record from any content collection.
func (s *DefaultContentService) Delete(ctx context.Context, collection, id string, actor realtime.Actor) error {
	if !knownCollection(collection) {
		return ErrUnknownCollection
	}
	return s.Sync.Remove(ctx, collection, id, actor)
}

// ClearCollection archives then deletes every record, one at a time. A
// partial failure leaves earlier records archived-and-deleted.
func (s *DefaultContentService) ClearCollection(ctx context.Context, collection string, actor realtime.Actor) (int, error) {
	if !knownCollection(collection) {
		return 0, ErrUnknownCollection
	}
	snap, err := s.Sync.GetAll(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", collection, err)
	}
	ids := make([]string, 0, len(snap))
	for _, rec := range snap {
		ids = append(ids, rec.ID)
	}
	return s.Sync.Clear(ctx, collection, ids, actor)
}

// Archived lists the archive copies for one content collection.
func (s *DefaultContentService) Archived(ctx context.Context, collection string) ([]models.ArchiveRecord, error) {
	if !knownCollection(collection) {
		return nil, ErrUnknownCollection
	}
	snap, err := s.Sync.GetAll(ctx, realtime.ArchiveCollection(collection))
	if err != nil {
		return nil, fmt.Errorf("archived %s: %w", collection, err)
	}
	out := make([]models.ArchiveRecord, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.ArchiveRecordFromRecord(rec))
	}
	return out, nil
}
