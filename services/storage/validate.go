package storage

import "fmt"

// UploadKind selects the size cap for a call site.
type UploadKind int

const (
	// KindImage covers announcement and official photos (5 MB cap).
	KindImage UploadKind = iota
	// KindDocument covers PDF attachments (10 MB cap).
	KindDocument
)

const (
	maxImageBytes    = 5 << 20
	maxDocumentBytes = 10 << 20
)

// allowedContentTypes is the upload allow-list.
var allowedContentTypes = map[string]UploadKind{
	"image/jpeg":      KindImage,
	"image/jpg":       KindImage,
	"image/png":       KindImage,
	"application/pdf": KindDocument,
}

// ValidateUpload checks content type and size before any uploader call.
// Failures come back keyed by field name for inline display; a nil map
// means the file is acceptable.
func ValidateUpload(contentType string, size int64, kind UploadKind) map[string]string {
	declaredKind, ok := allowedContentTypes[contentType]
	if !ok {
		return map[string]string{"file": fmt.Sprintf("file type %q is not allowed", contentType)}
	}
	if declaredKind != kind {
		return map[string]string{"file": "file type does not match the upload destination"}
	}

	limit := int64(maxImageBytes)
	if kind == KindDocument {
		limit = maxDocumentBytes
	}
	if size > limit {
		return map[string]string{"file": fmt.Sprintf("file exceeds the %d MB limit", limit>>20)}
	}
	return nil
}
