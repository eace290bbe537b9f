package assistant

import (
	"context"
	"errors"
	"testing"

	"barangaylink/database/store"
	"barangaylink/models"
	"barangaylink/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func newTestService(t *testing.T) (*DefaultAssistantService, *fakeGenerator, *realtime.SyncManager) {
	t.Helper()
	manager := realtime.NewSyncManager(store.NewMemoryStore(), zap.NewNop())
	gen := &fakeGenerator{answer: "The cleanup drive is on Saturday."}
	return &DefaultAssistantService{Sync: manager, Generator: gen}, gen, manager
}

func TestChat_GroundsPromptOnPortalContent(t *testing.T) {
	svc, gen, manager := newTestService(t)
	ctx := context.Background()

	_, err := manager.Add(ctx, models.AnnouncementsCollection, models.Announcement{
		Title: "Coastal cleanup",
		Body:  "Volunteers meet at the seawall, 6 AM Saturday.",
	}.ToFields())
	require.NoError(t, err)

	answer, err := svc.Chat(ctx, "When is the cleanup?")
	require.NoError(t, err)
	assert.Equal(t, "The cleanup drive is on Saturday.", answer)
	assert.Contains(t, gen.prompt, "Coastal cleanup")
	assert.Contains(t, gen.prompt, "When is the cleanup?")
}

func TestChat_EmptyQuestionRejected(t *testing.T) {
	svc, gen, _ := newTestService(t)

	_, err := svc.Chat(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, gen.prompt, "an empty question must not reach the model")
}

func TestChat_GeneratorFailureSurfaces(t *testing.T) {
	svc, gen, _ := newTestService(t)
	gen.err = errors.New("quota exceeded")

	_, err := svc.Chat(context.Background(), "Is the hall open?")
	assert.Error(t, err)
}

func TestChat_WorksWithEmptyPortal(t *testing.T) {
	svc, _, _ := newTestService(t)

	answer, err := svc.Chat(context.Background(), "What services do you offer?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}
