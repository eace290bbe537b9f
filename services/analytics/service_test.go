package analytics

import (
	"context"
	"testing"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*DefaultAnalyticsService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := &DefaultAnalyticsService{
		Sync:     realtime.NewSyncManager(mem, zap.NewNop()),
		Renderer: report.CSVRenderer{},
	}
	return svc, mem
}

func seedProfiles(t *testing.T, svc *DefaultAnalyticsService) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []models.Profile{
		{ID: "r1", Email: "r1@x.test", FullName: "Resident One", Role: models.RoleResident, Status: models.StatusPending},
		{ID: "r2", Email: "r2@x.test", FullName: "Resident Two", Role: models.RoleResident, Status: models.StatusVerified},
		{ID: "cap", Email: "cap@x.test", FullName: "Captain", Role: models.RoleAdmin, Status: models.StatusVerified},
	} {
		_, err := svc.Sync.Add(ctx, models.ProfilesCollection, p.ToFields())
		require.NoError(t, err)
	}
}

func TestOverview_CountsResidentsByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	seedProfiles(t, svc)

	kpis := svc.Overview(context.Background())
	assert.Equal(t, 2, kpis["residents.total"], "admin accounts must not count as residents")
	assert.Equal(t, 1, kpis["residents.pending"])
	assert.Equal(t, 1, kpis["residents.verified"])
}

func TestOverview_CountsActiveAlerts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, a := range []models.Alert{
		{Title: "Flood watch", Message: "m", Severity: models.SeverityWarning, Active: true},
		{Title: "Old advisory", Message: "m", Severity: models.SeverityInfo, Active: false},
	} {
		_, err := svc.Sync.Add(ctx, models.AlertsCollection, a.ToFields())
		require.NoError(t, err)
	}

	kpis := svc.Overview(ctx)
	assert.Equal(t, 2, kpis["alerts.total"])
	assert.Equal(t, 1, kpis["alerts.active"])
}

func TestOverview_DegradesToZerosOnTransportFailure(t *testing.T) {
	svc, mem := newTestService(t)
	mem.FailReads = true

	kpis := svc.Overview(context.Background())
	assert.Equal(t, 0, kpis["residents.total"])
	assert.Equal(t, 0, kpis["announcements.total"])
}

func TestReport_ListsResidentRoster(t *testing.T) {
	svc, _ := newTestService(t)
	seedProfiles(t, svc)

	artifact, contentType, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	out := string(artifact)
	assert.Contains(t, out, "Resident One")
	assert.Contains(t, out, "Resident Two")
	assert.NotContains(t, out, "Captain", "admins are not part of the roster")
}
