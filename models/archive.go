package models

import (
	"time"

	"barangaylink/database/store"
)

// ArchiveRecord is an immutable copy of a deleted content record's fields
// plus deletion provenance. Archive records are append-only and never flow
// back through the realtime sync layer.
type ArchiveRecord struct {
	ID                 string       `json:"id"`
	OriginalID         string       `json:"originalId"`
	OriginalCollection string       `json:"originalCollection"`
	ArchivedAt         time.Time    `json:"archivedAt"`
	ArchivedBy         string       `json:"archivedBy"`
	ArchivedByEmail    string       `json:"archivedByEmail"`
	Fields             store.Fields `json:"fields"`
}

// ArchiveRecordFromRecord splits provenance metadata from the preserved
// original field set.
func ArchiveRecordFromRecord(rec store.Record) ArchiveRecord {
	a := ArchiveRecord{
		ID:     rec.ID,
		Fields: make(store.Fields, len(rec.Fields)),
	}
	for k, v := range rec.Fields {
		switch k {
		case "originalId":
			a.OriginalID = asString(v)
		case "originalCollection":
			a.OriginalCollection = asString(v)
		case "archivedAt":
			a.ArchivedAt = asTime(v)
		case "archivedBy":
			a.ArchivedBy = asString(v)
		case "archivedByEmail":
			a.ArchivedByEmail = asString(v)
		default:
			a.Fields[k] = v
		}
	}
	return a
}
