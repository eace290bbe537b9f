package handlers

import (
	"barangaylink/realtime"
	analyticsSvc "barangaylink/services/analytics"
	assistantSvc "barangaylink/services/assistant"
	contentSvc "barangaylink/services/content"
	profileSvc "barangaylink/services/profile"
	"barangaylink/services/storage"

	"go.uber.org/zap"
)

// HandlerBundle groups every HTTP handler for route registration.
type HandlerBundle struct {
	Auth         *AuthHandler
	Content      *ContentHandler
	AdminContent *AdminContentHandler
	Voting       *VotingHandler
	Feedback     *FeedbackHandler
	Residents    *ResidentsHandler
	Analytics    *AnalyticsHandler
	Assistant    *AssistantHandler
	Upload       *UploadHandler
	Stream       *StreamHandler
	Status       *StatusHandler
}

// NewHandlerBundle wires services into handlers.
func NewHandlerBundle(
	profiles profileSvc.ProfileService,
	content contentSvc.ContentService,
	analytics analyticsSvc.AnalyticsService,
	assistant assistantSvc.AssistantService,
	storageSvc storage.StorageService,
	sync *realtime.SyncManager,
	log *zap.Logger,
) *HandlerBundle {
	return &HandlerBundle{
		Auth:         NewAuthHandler(profiles),
		Content:      NewContentHandler(content),
		AdminContent: NewAdminContentHandler(content),
		Voting:       NewVotingHandler(content),
		Feedback:     NewFeedbackHandler(content),
		Residents:    NewResidentsHandler(profiles),
		Analytics:    NewAnalyticsHandler(analytics),
		Assistant:    NewAssistantHandler(assistant),
		Upload:       NewUploadHandler(storageSvc, log),
		Stream:       NewStreamHandler(sync, log),
		Status:       NewStatusHandler(profiles),
	}
}
