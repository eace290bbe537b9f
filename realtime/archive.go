package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barangaylink/database/store"

	"go.uber.org/zap"
)

// Actor identifies who initiated a delete, for archive provenance.
type Actor struct {
	ID    string
	Email string
}

// ArchiveCollection returns the append-only collection holding archived
// copies of the given collection's deleted records.
func ArchiveCollection(collection string) string {
	return "archived_" + collection
}

// Remove deletes a record through the archive-before-delete protocol:
//
//  1. Read the full current document; a missing id is a no-op success.
//  2. Write original fields plus provenance into archived_<collection>.
//  3. Only after the archive write succeeds, delete the original.
//
// The archive write is fail-closed: on failure the delete is not attempted
// and ErrArchiveFailed is returned.
func (m *SyncManager) Remove(ctx context.Context, collection, id string, actor Actor) error {
	rec, err := m.store.Get(ctx, collection, id)
	if errors.Is(err, store.ErrNotFound) {
		// Repeated delete is not an error.
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove %s/%s: read: %w", collection, id, err)
	}

	payload := make(store.Fields, len(rec.Fields)+5)
	for k, v := range rec.Fields {
		payload[k] = v
	}
	payload["originalId"] = rec.ID
	payload["originalCollection"] = collection
	payload["archivedAt"] = time.Now().UTC()
	payload["archivedBy"] = actor.ID
	payload["archivedByEmail"] = actor.Email

	if _, err := m.store.Add(ctx, ArchiveCollection(collection), payload); err != nil {
		m.log.Error("archive write failed, blocking delete",
			zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: %s/%s: %v", ErrArchiveFailed, collection, id, err)
	}

	if err := m.store.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with a concurrent delete. The extra archive copy
			// is additive and accepted.
			return nil
		}
		return fmt.Errorf("remove %s/%s: delete: %w", collection, id, err)
	}
	return nil
}

// Clear runs Remove over each id as independent archive-then-delete
// operations. A partial failure leaves earlier ids archived-and-deleted and
// later ids untouched; there is no cross-record atomicity. It returns how
// many ids completed before the first failure.
func (m *SyncManager) Clear(ctx context.Context, collection string, ids []string, actor Actor) (int, error) {
	for i, id := range ids {
		if err := m.Remove(ctx, collection, id, actor); err != nil {
			return i, fmt.Errorf("clear %s: id %s: %w", collection, id, err)
		}
	}
	return len(ids), nil
}
