// Package store defines the document-store contract the sync layer is built
// on: named collections of string-keyed documents with server-assigned ids
// and timestamps, plus a push-based change notification per collection.
package store

import (
	"context"
	"errors"
	"time"
)

// Fields is the open field map of one document, excluding the reserved
// "id", "createdAt" and "updatedAt" keys.
type Fields map[string]any

// Timestamp distinguishes an optimistic client-side approximation from a
// value read back from the store. Consumers must not treat an unresolved
// timestamp as durable truth.
type Timestamp struct {
	Time     time.Time `json:"time"`
	Resolved bool      `json:"resolved"`
}

// ResolvedAt wraps a store-assigned time.
func ResolvedAt(t time.Time) Timestamp {
	return Timestamp{Time: t, Resolved: true}
}

// PendingAt wraps a client-approximated time that has not yet been read back.
func PendingAt(t time.Time) Timestamp {
	return Timestamp{Time: t, Resolved: false}
}

// Record is one document instance.
type Record struct {
	ID        string    `json:"id"`
	Fields    Fields    `json:"fields"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Snapshot is the complete current contents of a collection (or filtered
// subset) at one point in time, in store order.
type Snapshot []Record

// Filter is a single-field equality predicate evaluated store-side.
type Filter struct {
	Field string
	Value any
}

// Event signals that a collection changed. It carries no delta; consumers
// re-read the full snapshot.
type Event struct {
	Collection string
}

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("store: document not found")
	// ErrFetch wraps transport failures on reads.
	ErrFetch = errors.New("store: fetch failed")
)

// DocumentStore is the narrow contract over the remote document database.
type DocumentStore interface {
	// GetAll returns the full current snapshot of a collection.
	GetAll(ctx context.Context, collection string) (Snapshot, error)
	// GetFiltered returns the snapshot restricted to documents matching an
	// equality predicate on one field.
	GetFiltered(ctx context.Context, collection string, filter Filter) (Snapshot, error)
	// Get returns one document by id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Record, error)
	// Add inserts a new document. If fields carries a non-empty "id" string
	// it is used as the document id, otherwise one is assigned. The returned
	// record carries unresolved timestamps.
	Add(ctx context.Context, collection string, fields Fields) (*Record, error)
	// Update merges fields into an existing document and refreshes
	// updatedAt. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error
	// Delete removes a document. Returns ErrNotFound if the id does not exist.
	Delete(ctx context.Context, collection, id string) error
	// Watch registers a change notification channel for a collection. The
	// returned teardown stops delivery and closes the channel. Events may be
	// coalesced; every event means "re-read the snapshot".
	Watch(ctx context.Context, collection string) (<-chan Event, func(), error)
}
