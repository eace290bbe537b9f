package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore with the same watch semantics
// as the Mongo implementation. It backs tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	colls    map[string]*memoryCollection
	watchers map[string]map[int]chan Event
	nextID   int

	// FailReads forces GetAll/GetFiltered/Get to fail, for exercising
	// degraded-read paths.
	FailReads bool
	// FailAdds forces Add to fail, for exercising fail-closed archiving.
	FailAdds map[string]bool
}

type memoryCollection struct {
	order []string
	docs  map[string]Fields
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		colls:    make(map[string]*memoryCollection),
		watchers: make(map[string]map[int]chan Event),
		FailAdds: make(map[string]bool),
	}
}

func (s *MemoryStore) coll(name string) *memoryCollection {
	c, ok := s.colls[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]Fields)}
		s.colls[name] = c
	}
	return c
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string) (Snapshot, error) {
	return s.snapshot(collection, nil)
}

func (s *MemoryStore) GetFiltered(ctx context.Context, collection string, filter Filter) (Snapshot, error) {
	f := filter
	return s.snapshot(collection, &f)
}

func (s *MemoryStore) snapshot(collection string, filter *Filter) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailReads {
		return nil, ErrFetch
	}

	c, ok := s.colls[collection]
	if !ok {
		return Snapshot{}, nil
	}
	out := make(Snapshot, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		if filter != nil && doc[filter.Field] != filter.Value {
			continue
		}
		out = append(out, recordFromMemoryDoc(id, doc))
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailReads {
		return nil, ErrFetch
	}

	c, ok := s.colls[collection]
	if !ok {
		return nil, ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec := recordFromMemoryDoc(id, doc)
	return &rec, nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, fields Fields) (*Record, error) {
	s.mu.Lock()
	if s.FailAdds[collection] {
		s.mu.Unlock()
		return nil, ErrFetch
	}

	id, _ := fields["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	doc := make(Fields, len(fields)+2)
	for k, v := range fields {
		if isReservedField(k) {
			continue
		}
		doc[k] = v
	}
	doc["createdAt"] = now
	doc["updatedAt"] = now

	c := s.coll(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
	s.mu.Unlock()

	s.notify(collection)
	return &Record{
		ID:        id,
		Fields:    copyFields(fields),
		CreatedAt: PendingAt(now),
		UpdatedAt: PendingAt(now),
	}, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	c, ok := s.colls[collection]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range fields {
		if isReservedField(k) {
			continue
		}
		doc[k] = v
	}
	doc["updatedAt"] = time.Now().UTC()
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	c, ok := s.colls[collection]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context, collection string) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Event, 16)
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[int]chan Event)
	}
	s.watchers[collection][id] = ch

	teardown := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[collection][id]; ok {
			delete(s.watchers[collection], id)
			close(w)
		}
	}
	return ch, teardown, nil
}

func (s *MemoryStore) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers[collection] {
		select {
		case ch <- Event{Collection: collection}:
		default:
			// A queued event already forces a snapshot re-read.
		}
	}
}

func recordFromMemoryDoc(id string, doc Fields) Record {
	rec := Record{ID: id, Fields: make(Fields, len(doc))}
	for k, v := range doc {
		switch k {
		case "createdAt":
			rec.CreatedAt = ResolvedAt(v.(time.Time))
		case "updatedAt":
			rec.UpdatedAt = ResolvedAt(v.(time.Time))
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}
