package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload_AcceptsAllowedTypes(t *testing.T) {
	assert.Nil(t, ValidateUpload("image/jpeg", 1<<20, KindImage))
	assert.Nil(t, ValidateUpload("image/jpg", 1<<20, KindImage))
	assert.Nil(t, ValidateUpload("image/png", 5<<20, KindImage))
	assert.Nil(t, ValidateUpload("application/pdf", 10<<20, KindDocument))
}

func TestValidateUpload_RejectsDisallowedType(t *testing.T) {
	fields := ValidateUpload("image/gif", 1<<20, KindImage)
	assert.Contains(t, fields, "file")

	fields = ValidateUpload("application/zip", 1<<20, KindDocument)
	assert.Contains(t, fields, "file")
}

func TestValidateUpload_RejectsKindMismatch(t *testing.T) {
	// A PDF sent to an image destination and vice versa.
	assert.Contains(t, ValidateUpload("application/pdf", 1<<20, KindImage), "file")
	assert.Contains(t, ValidateUpload("image/png", 1<<20, KindDocument), "file")
}

func TestValidateUpload_EnforcesSizeCaps(t *testing.T) {
	assert.Contains(t, ValidateUpload("image/png", 5<<20+1, KindImage), "file")
	assert.Contains(t, ValidateUpload("application/pdf", 10<<20+1, KindDocument), "file")
}
