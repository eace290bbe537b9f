// Package assistant answers resident questions about barangay services,
// grounded on the portal's current announcements and events.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"barangaylink/models"
	"barangaylink/realtime"
)

// Generator produces a completion for a prompt. Satisfied by GeminiClient.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// AssistantService answers resident chat questions.
type AssistantService interface {
	Chat(ctx context.Context, question string) (string, error)
}

// DefaultAssistantService grounds each answer on a fresh snapshot of the
// portal's public content.
type DefaultAssistantService struct {
	Sync      *realtime.SyncManager
	Generator Generator
}

const maxContextItems = 20

func (s *DefaultAssistantService) Chat(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("assistant: empty question")
	}

	var sb strings.Builder
	sb.WriteString("You are the helpdesk assistant of a barangay civic portal. ")
	sb.WriteString("Answer the resident's question using only the current portal content below. ")
	sb.WriteString("If the answer is not in the content, say so and suggest contacting the barangay office.\n\n")

	sb.WriteString("Announcements:\n")
	for i, rec := range s.Sync.GetAllOrEmpty(ctx, models.AnnouncementsCollection) {
		if i >= maxContextItems {
			break
		}
		a := models.AnnouncementFromRecord(rec)
		fmt.Fprintf(&sb, "- %s: %s\n", a.Title, a.Body)
	}

	sb.WriteString("\nUpcoming events:\n")
	for i, rec := range s.Sync.GetAllOrEmpty(ctx, models.EventsCollection) {
		if i >= maxContextItems {
			break
		}
		e := models.EventFromRecord(rec)
		fmt.Fprintf(&sb, "- %s at %s on %s: %s\n", e.Title, e.Venue, e.StartsAt.Format("Jan 2 2006"), e.Description)
	}

	fmt.Fprintf(&sb, "\nResident question: %s\n", question)

	answer, err := s.Generator.GenerateContent(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("assistant chat: %w", err)
	}
	return answer, nil
}
