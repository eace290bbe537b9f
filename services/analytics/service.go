// Package analytics aggregates portal KPIs for the admin dashboard and the
// downloadable report.
package analytics

import (
	"context"
	"fmt"

	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/services/report"
)

// AnalyticsService computes dashboard KPIs and renders reports.
type AnalyticsService interface {
	Overview(ctx context.Context) map[string]int
	Report(ctx context.Context) ([]byte, string, error)
}

// DefaultAnalyticsService reads live snapshots through the sync layer.
type DefaultAnalyticsService struct {
	Sync     *realtime.SyncManager
	Renderer report.Renderer
}

// Overview returns the KPI map. Reads degrade to empty snapshots, so a
// transport failure shows zeros rather than an error page.
func (s *DefaultAnalyticsService) Overview(ctx context.Context) map[string]int {
	kpis := make(map[string]int)

	profiles := s.Sync.GetAllOrEmpty(ctx, models.ProfilesCollection)
	for _, rec := range profiles {
		p := models.ProfileFromRecord(rec)
		if p.Role != models.RoleResident {
			continue
		}
		kpis["residents.total"]++
		kpis["residents."+string(p.Status)]++
	}

	kpis["announcements.total"] = len(s.Sync.GetAllOrEmpty(ctx, models.AnnouncementsCollection))
	kpis["officials.total"] = len(s.Sync.GetAllOrEmpty(ctx, models.OfficialsCollection))
	kpis["events.total"] = len(s.Sync.GetAllOrEmpty(ctx, models.EventsCollection))
	kpis["votes.total"] = len(s.Sync.GetAllOrEmpty(ctx, models.VotesCollection))

	for _, rec := range s.Sync.GetAllOrEmpty(ctx, models.AlertsCollection) {
		a := models.AlertFromRecord(rec)
		kpis["alerts.total"]++
		if a.Active {
			kpis["alerts.active"]++
		}
	}

	for _, rec := range s.Sync.GetAllOrEmpty(ctx, models.FeedbackCollection) {
		f := models.FeedbackFromRecord(rec)
		kpis["feedback.total"]++
		kpis["feedback."+f.Status]++
	}

	return kpis
}

// Report renders the resident roster with the KPI header.
func (s *DefaultAnalyticsService) Report(ctx context.Context) ([]byte, string, error) {
	kpis := s.Overview(ctx)

	rows := make([]report.Row, 0)
	for _, rec := range s.Sync.GetAllOrEmpty(ctx, models.ProfilesCollection) {
		p := models.ProfileFromRecord(rec)
		if p.Role != models.RoleResident {
			continue
		}
		rows = append(rows, report.Row{
			"fullName": p.FullName,
			"email":    p.Email,
			"status":   string(p.Status),
			"address":  p.Address,
		})
	}

	artifact, contentType, err := s.Renderer.Render("BarangayLink Resident Report", rows, kpis)
	if err != nil {
		return nil, "", fmt.Errorf("analytics report: %w", err)
	}
	return artifact, contentType, nil
}
