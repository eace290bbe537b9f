package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderer_EmitsTitleKPIsAndTable(t *testing.T) {
	rows := []Row{
		{"fullName": "Juan Dela Cruz", "status": "verified"},
		{"fullName": "Maria Santos", "status": "pending"},
	}
	kpis := map[string]int{
		"residents.total":    2,
		"residents.verified": 1,
	}

	artifact, contentType, err := CSVRenderer{}.Render("Resident Report", rows, kpis)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	out := string(artifact)
	assert.True(t, strings.HasPrefix(out, "Resident Report\n"))
	assert.Contains(t, out, "residents.total,2")
	assert.Contains(t, out, "residents.verified,1")
	assert.Contains(t, out, "fullName,status")
	assert.Contains(t, out, "Juan Dela Cruz,verified")
	assert.Contains(t, out, "Maria Santos,pending")
}

func TestCSVRenderer_KPIsAreSorted(t *testing.T) {
	artifact, _, err := CSVRenderer{}.Render("r", nil, map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)

	out := string(artifact)
	assert.Less(t, strings.Index(out, "a,1"), strings.Index(out, "b,2"))
	assert.Less(t, strings.Index(out, "b,2"), strings.Index(out, "c,3"))
}

func TestCSVRenderer_NoRowsOmitsTable(t *testing.T) {
	artifact, _, err := CSVRenderer{}.Render("empty", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(artifact), "empty\n")
}

func TestCSVRenderer_UnionOfRowKeys(t *testing.T) {
	rows := []Row{
		{"fullName": "Juan"},
		{"address": "Purok 3"},
	}
	artifact, _, err := CSVRenderer{}.Render("r", rows, nil)
	require.NoError(t, err)

	out := string(artifact)
	assert.Contains(t, out, "address,fullName")
	// Missing cells render empty.
	assert.Contains(t, out, ",Juan")
	assert.Contains(t, out, "Purok 3,")
}
