// Package realtime maintains continuously-updated projections of document
// store collections. Consumers either take a one-shot snapshot or register a
// callback that receives the full snapshot again on every collection change.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"barangaylink/database/store"

	"go.uber.org/zap"
)

// OnChange receives the entire current snapshot, never a diff.
type OnChange func(store.Snapshot)

// Unsubscribe tears down one subscription. It is synchronous: after it
// returns, the callback will not be invoked again. Callers own calling it
// exactly once.
type Unsubscribe func()

var (
	// ErrFetch is returned when a one-shot read fails at the transport.
	ErrFetch = store.ErrFetch
	// ErrNotFound is returned when an update targets a vanished id.
	ErrNotFound = store.ErrNotFound
	// ErrArchiveFailed is returned when the archive write preceding a delete
	// fails; the delete is not attempted.
	ErrArchiveFailed = errors.New("realtime: archive write failed, delete blocked")
)

// SyncManager owns the active subscription registry and mediates all reads
// and writes against the document store. It is owned by the application root
// and injected into consumers; there is no package-level registry.
type SyncManager struct {
	store store.DocumentStore
	log   *zap.Logger

	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	mu       sync.Mutex
	closed   bool
	onChange OnChange
}

// deliver invokes the callback unless the subscription was torn down. The
// per-subscription lock is what makes Unsubscribe synchronous: a teardown
// either waits out an in-flight delivery or prevents the next one.
func (s *subscription) deliver(snap store.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.onChange(snap)
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// NewSyncManager builds a manager over the given store.
func NewSyncManager(st store.DocumentStore, log *zap.Logger) *SyncManager {
	return &SyncManager{
		store: st,
		log:   log,
		subs:  make(map[int]*subscription),
	}
}

// GetAll performs a one-shot fetch of the full current snapshot.
func (m *SyncManager) GetAll(ctx context.Context, collection string) (store.Snapshot, error) {
	snap, err := m.store.GetAll(ctx, collection)
	if err != nil {
		m.log.Warn("one-shot fetch failed", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("getAll %s: %w", collection, err)
	}
	return snap, nil
}

// GetFiltered performs a one-shot fetch restricted store-side to documents
// matching an equality predicate on one field.
func (m *SyncManager) GetFiltered(ctx context.Context, collection string, filter store.Filter) (store.Snapshot, error) {
	snap, err := m.store.GetFiltered(ctx, collection, filter)
	if err != nil {
		m.log.Warn("filtered fetch failed", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("getFiltered %s: %w", collection, err)
	}
	return snap, nil
}

// GetAllOrEmpty degrades a failed one-shot fetch to an empty snapshot, for
// best-effort informational display. The failure is logged, not retried.
func (m *SyncManager) GetAllOrEmpty(ctx context.Context, collection string) store.Snapshot {
	snap, err := m.GetAll(ctx, collection)
	if err != nil {
		return store.Snapshot{}
	}
	return snap
}

// Subscribe registers a continuous listener on a collection. The callback is
// invoked once immediately with the current snapshot and again after every
// collection change. Concurrent subscriptions to the same collection are
// independent.
func (m *SyncManager) Subscribe(collection string, onChange OnChange) (Unsubscribe, error) {
	return m.subscribe(collection, nil, onChange)
}

// SubscribeFiltered is Subscribe restricted store-side to documents matching
// an equality predicate on one field.
func (m *SyncManager) SubscribeFiltered(collection string, filter store.Filter, onChange OnChange) (Unsubscribe, error) {
	f := filter
	return m.subscribe(collection, &f, onChange)
}

func (m *SyncManager) subscribe(collection string, filter *store.Filter, onChange OnChange) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(context.Background())
	events, teardown, err := m.store.Watch(ctx, collection)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}

	sub := &subscription{onChange: onChange}
	m.mu.Lock()
	handle := m.next
	m.next++
	m.subs[handle] = sub
	m.mu.Unlock()

	fetch := func() (store.Snapshot, error) {
		if filter != nil {
			return m.store.GetFiltered(ctx, collection, *filter)
		}
		return m.store.GetAll(ctx, collection)
	}

	// Initial snapshot, delivered before the watch loop starts so the first
	// invocation is immediate from the caller's point of view.
	if snap, err := fetch(); err != nil {
		m.log.Warn("initial snapshot failed", zap.String("collection", collection), zap.Error(err))
	} else {
		sub.deliver(snap)
	}

	go func() {
		for range events {
			snap, err := fetch()
			if err != nil {
				// Not auto-restarted; the caller re-subscribes if it cares.
				m.log.Warn("snapshot refresh failed", zap.String("collection", collection), zap.Error(err))
				continue
			}
			sub.deliver(snap)
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.close()
			teardown()
			cancel()
			m.mu.Lock()
			delete(m.subs, handle)
			m.mu.Unlock()
		})
	}
	return unsubscribe, nil
}

// ActiveSubscriptions reports how many listeners are currently registered.
func (m *SyncManager) ActiveSubscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Get returns one record by id, or ErrNotFound.
func (m *SyncManager) Get(ctx context.Context, collection, id string) (*store.Record, error) {
	rec, err := m.store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Add appends a new record. The returned record carries a store-assigned id
// and client-approximated timestamps; resolved values arrive with the next
// snapshot.
func (m *SyncManager) Add(ctx context.Context, collection string, fields store.Fields) (*store.Record, error) {
	rec, err := m.store.Add(ctx, collection, fields)
	if err != nil {
		return nil, fmt.Errorf("add to %s: %w", collection, err)
	}
	return rec, nil
}

// Update merges fields into an existing record and refreshes updatedAt.
func (m *SyncManager) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	if err := m.store.Update(ctx, collection, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("update %s/%s: %w", collection, id, store.ErrNotFound)
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}
