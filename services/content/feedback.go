package content

import (
	"context"
	"fmt"

	"barangaylink/database/store"
	"barangaylink/models"
)

// SubmitFeedback records a resident-submitted concern with status "new".
func (s *DefaultContentService) SubmitFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, map[string]string, error) {
	f.Status = models.FeedbackNew
	f.AdminReply = ""
	if fields := models.Validate(f); fields != nil {
		return nil, fields, nil
	}

	rec, err := s.Sync.Add(ctx, models.FeedbackCollection, f.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("submit feedback: %w", err)
	}
	f.ID = rec.ID
	f.CreatedAt = rec.CreatedAt
	f.UpdatedAt = rec.UpdatedAt
	return &f, nil, nil
}

// FeedbackForOwner returns only the requesting resident's feedback, filtered
// store-side so another resident's records never appear in any snapshot.
func (s *DefaultContentService) FeedbackForOwner(ctx context.Context, ownerID string) []models.Feedback {
	snap, err := s.Sync.GetFiltered(ctx, models.FeedbackCollection,
		store.Filter{Field: "ownerId", Value: ownerID})
	if err != nil {
		return []models.Feedback{}
	}
	out := make([]models.Feedback, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.FeedbackFromRecord(rec))
	}
	return out
}

func (s *DefaultContentService) AllFeedback(ctx context.Context) []models.Feedback {
	snap := s.Sync.GetAllOrEmpty(ctx, models.FeedbackCollection)
	out := make([]models.Feedback, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.FeedbackFromRecord(rec))
	}
	return out
}

// ReviewFeedback sets workflow status and an optional admin reply.
func (s *DefaultContentService) ReviewFeedback(ctx context.Context, id, status, reply string) (map[string]string, error) {
	switch status {
	case models.FeedbackNew, models.FeedbackReviewed, models.FeedbackResolved:
	default:
		return map[string]string{"status": "must be one of: new reviewed resolved"}, nil
	}

	update := store.Fields{"status": status}
	if reply != "" {
		update["adminReply"] = reply
	}
	if err := s.Sync.Update(ctx, models.FeedbackCollection, id, update); err != nil {
		return nil, fmt.Errorf("review feedback %s: %w", id, err)
	}
	return nil, nil
}
