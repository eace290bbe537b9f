package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoStore implements DocumentStore on a MongoDB database. Change
// notification uses per-collection change streams, which requires the server
// to run as a replica set.
type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore returns a DocumentStore backed by the given Mongo database.
func NewMongoStore(db *mongo.Database) DocumentStore {
	return &mongoStore{db: db}
}

func (s *mongoStore) GetAll(ctx context.Context, collection string) (Snapshot, error) {
	return s.find(ctx, collection, bson.M{})
}

func (s *mongoStore) GetFiltered(ctx context.Context, collection string, filter Filter) (Snapshot, error) {
	return s.find(ctx, collection, bson.M{filter.Field: filter.Value})
}

func (s *mongoStore) find(ctx context.Context, collection string, query bson.M) (Snapshot, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, collection, err)
	}

	snapshot := make(Snapshot, 0, len(docs))
	for _, doc := range docs {
		snapshot = append(snapshot, recordFromDoc(doc))
	}
	return snapshot, nil
}

func (s *mongoStore) Get(ctx context.Context, collection, id string) (*Record, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrFetch, collection, id, err)
	}
	rec := recordFromDoc(doc)
	return &rec, nil
}

func (s *mongoStore) Add(ctx context.Context, collection string, fields Fields) (*Record, error) {
	id, _ := fields["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()

	doc := bson.M{"id": id, "createdAt": now, "updatedAt": now}
	for k, v := range fields {
		if isReservedField(k) {
			continue
		}
		doc[k] = v
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo: insert into %s: %w", collection, err)
	}

	return &Record{
		ID:        id,
		Fields:    copyFields(fields),
		CreatedAt: PendingAt(now),
		UpdatedAt: PendingAt(now),
	}, nil
}

func (s *mongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range fields {
		if isReservedField(k) {
			continue
		}
		set[k] = v
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo: update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) Watch(ctx context.Context, collection string) (<-chan Event, func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("mongo: watch %s: %w", collection, err)
	}

	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			select {
			case ch <- Event{Collection: collection}:
			default:
				// Channel full: a queued event already forces a re-read of
				// the latest snapshot, so coalescing is safe.
			}
		}
	}()

	return ch, cancel, nil
}

func isReservedField(k string) bool {
	return k == "id" || k == "createdAt" || k == "updatedAt" || k == "_id"
}

func copyFields(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if isReservedField(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// recordFromDoc splits a raw Mongo document into the reserved identity and
// timestamp fields and the open field map.
func recordFromDoc(doc bson.M) Record {
	rec := Record{Fields: make(Fields, len(doc))}
	for k, v := range doc {
		switch k {
		case "_id":
		case "id":
			rec.ID, _ = v.(string)
		case "createdAt":
			rec.CreatedAt = ResolvedAt(asTime(v))
		case "updatedAt":
			rec.UpdatedAt = ResolvedAt(asTime(v))
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	default:
		return time.Time{}
	}
}
