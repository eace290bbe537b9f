package storage

import (
	"context"
)

// StorageService uploads validated files to the object store and returns a
// publicly-fetchable URL. Upload constraints (type allow-list, size caps)
// are enforced by this package before the uploader is ever invoked.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}
