package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barangaylink/config"
	"barangaylink/database"
	"barangaylink/database/store"
	"barangaylink/gate"
	"barangaylink/handlers"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/routes"
	"barangaylink/services/analytics"
	"barangaylink/services/assistant"
	"barangaylink/services/content"
	"barangaylink/services/notification"
	"barangaylink/services/profile"
	"barangaylink/services/report"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitGateCache()
	utils.FirebaseInit()

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Sync layer over the document store.
	docStore := store.NewMongoStore(database.DB())
	syncManager := realtime.NewSyncManager(docStore, logger)

	// Notifications.
	var notifier notification.Notifier = notification.NopNotifier{}
	if config.AppConfig.SMTPHost != "" {
		notifier = notification.NewSMTPNotifier()
	}
	pushService := &notification.PushService{Client: utils.FCMClient}

	// services.
	profileService := &profile.DefaultProfileService{
		Sync:     syncManager,
		Notifier: notifier,
		Log:      logger,
	}
	contentService := &content.DefaultContentService{
		Sync: syncManager,
		Push: pushService,
		Log:  logger,
	}
	analyticsService := &analytics.DefaultAnalyticsService{
		Sync:     syncManager,
		Renderer: &report.CSVRenderer{},
	}

	geminiClient, err := assistant.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize assistant client: %v", err)
	}
	assistantService := &assistant.DefaultAssistantService{
		Sync:      syncManager,
		Generator: geminiClient,
	}

	// Access gate with its push-invalidated decision cache.
	decisionCache := gate.NewRedisDecisionCache(utils.GetGateCacheClient(), logger)
	accessGate := gate.New(profileService, decisionCache, logger)
	stopWatch, err := accessGate.WatchProfiles(syncManager)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to watch %s: %v", models.ProfilesCollection, err)
	}
	defer stopWatch()

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(
		profileService,
		contentService,
		analyticsService,
		assistantService,
		storageService,
		syncManager,
		logger,
	)
	routes.RegisterRoutes(router, handlerBundle, accessGate, utils.AuthClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
