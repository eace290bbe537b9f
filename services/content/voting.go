package content

import (
	"context"
	"fmt"
	"time"

	"barangaylink/database/store"
	"barangaylink/models"
)

func (s *DefaultContentService) VotingEvents(ctx context.Context) []models.VotingEvent {
	snap := s.Sync.GetAllOrEmpty(ctx, models.VotingEventsCollection)
	out := make([]models.VotingEvent, 0, len(snap))
	for _, rec := range snap {
		out = append(out, models.VotingEventFromRecord(rec))
	}
	return out
}

func (s *DefaultContentService) CreateVotingEvent(ctx context.Context, v models.VotingEvent) (*models.VotingEvent, map[string]string, error) {
	if v.Status == "" {
		v.Status = models.VotingDraft
	}
	if fields := models.Validate(v); fields != nil {
		return nil, fields, nil
	}
	rec, err := s.Sync.Add(ctx, models.VotingEventsCollection, v.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("create voting event: %w", err)
	}
	v.ID = rec.ID
	v.CreatedAt = rec.CreatedAt
	v.UpdatedAt = rec.UpdatedAt
	return &v, nil, nil
}

func (s *DefaultContentService) UpdateVotingEvent(ctx context.Context, id string, v models.VotingEvent) (map[string]string, error) {
	if fields := models.Validate(v); fields != nil {
		return fields, nil
	}
	return nil, s.Sync.Update(ctx, models.VotingEventsCollection, id, v.ToFields())
}

// CastVote records one resident's choice. The voting event must be open and
// the option one of its declared choices; one vote per resident per event.
func (s *DefaultContentService) CastVote(ctx context.Context, v models.Vote) (*models.Vote, map[string]string, error) {
	if fields := models.Validate(v); fields != nil {
		return nil, fields, nil
	}

	rec, err := s.Sync.Get(ctx, models.VotingEventsCollection, v.VotingEventID)
	if err != nil {
		return nil, nil, fmt.Errorf("cast vote: voting event %s: %w", v.VotingEventID, err)
	}
	event := models.VotingEventFromRecord(*rec)

	if !votingOpen(event, time.Now()) {
		return nil, nil, ErrVotingClosed
	}
	if !validOption(event, v.Option) {
		return nil, map[string]string{"option": "not an option of this voting event"}, nil
	}

	existing, err := s.Sync.GetFiltered(ctx, models.VotesCollection, store.Filter{Field: "ownerId", Value: v.OwnerID})
	if err != nil {
		return nil, nil, fmt.Errorf("cast vote: duplicate check: %w", err)
	}
	for _, r := range existing {
		if models.VoteFromRecord(r).VotingEventID == v.VotingEventID {
			return nil, nil, ErrDuplicateVote
		}
	}

	created, err := s.Sync.Add(ctx, models.VotesCollection, v.ToFields())
	if err != nil {
		return nil, nil, fmt.Errorf("cast vote: %w", err)
	}
	v.ID = created.ID
	v.CreatedAt = created.CreatedAt
	v.UpdatedAt = created.UpdatedAt
	return &v, nil, nil
}

// VoteTally counts votes per option for one voting event.
func (s *DefaultContentService) VoteTally(ctx context.Context, votingEventID string) (map[string]int, error) {
	snap, err := s.Sync.GetFiltered(ctx, models.VotesCollection,
		store.Filter{Field: "votingEventId", Value: votingEventID})
	if err != nil {
		return nil, fmt.Errorf("vote tally %s: %w", votingEventID, err)
	}
	tally := make(map[string]int)
	for _, rec := range snap {
		tally[models.VoteFromRecord(rec).Option]++
	}
	return tally, nil
}

func votingOpen(event models.VotingEvent, now time.Time) bool {
	if event.Status != models.VotingOpen {
		return false
	}
	if !event.OpensAt.IsZero() && now.Before(event.OpensAt) {
		return false
	}
	if !event.ClosesAt.IsZero() && now.After(event.ClosesAt) {
		return false
	}
	return true
}

func validOption(event models.VotingEvent, option string) bool {
	for _, o := range event.Options {
		if o == option {
			return true
		}
	}
	return false
}
