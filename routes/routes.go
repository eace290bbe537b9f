package routes

import (
	"net/http"
	"time"

	"barangaylink/gate"
	"barangaylink/handlers"
	"barangaylink/middleware"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup and staff login. Signup needs a
// resolved identity session but no profile yet, so it sits outside the
// gate.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/staff/login", hb.Auth.StaffLoginHandler)
		api.POST("/signup", hb.Auth.SignupHandler)
	}
}

// RegisterResidentRoutes registers the resident-facing portal surface.
// Informational destinations admit any recognized account; feedback and
// voting require a verified resident.
func RegisterResidentRoutes(r *gin.Engine, hb *handlers.HandlerBundle, g *gate.Gate) {
	authed := r.Group("/api")
	authed.Use(middleware.GateMiddleware(g, gate.Requirement{Area: gate.AreaResident}))
	{
		authed.GET("/profile/status", hb.Status.StatusHandler)
		authed.PUT("/auth/fcm-token", hb.Auth.UpdateFCMTokenHandler)

		authed.GET("/announcements", hb.Content.ListAnnouncementsHandler)
		authed.GET("/alerts", hb.Content.ListAlertsHandler)
		authed.GET("/officials", hb.Content.ListOfficialsHandler)
		authed.GET("/events", hb.Content.ListEventsHandler)
		authed.GET("/voting-events", hb.Content.ListVotingEventsHandler)

		authed.POST("/assistant/chat", hb.Assistant.ChatHandler)
		authed.GET("/stream/:collection", hb.Stream.CollectionHandler)
	}

	verified := r.Group("/api")
	verified.Use(middleware.GateMiddleware(g, gate.Requirement{Area: gate.AreaResident, RequireVerified: true}))
	{
		verified.POST("/feedback", hb.Feedback.SubmitHandler)
		verified.GET("/feedback/mine", hb.Feedback.MineHandler)
		verified.GET("/feedback/stream", hb.Stream.FeedbackStreamHandler)

		verified.POST("/voting-events/:id/votes", hb.Voting.CastVoteHandler)
		verified.GET("/voting-events/:id/tally", hb.Voting.TallyHandler)
	}
}

// RegisterAdminRoutes registers the administrative surface.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, g *gate.Gate) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.GateMiddleware(g, gate.Requirement{Area: gate.AreaAdmin}))
	{
		admin.GET("/residents", hb.Residents.ListHandler)
		admin.PUT("/residents/:id/approve", hb.Residents.ApproveHandler)
		admin.PUT("/residents/:id/decline", hb.Residents.DeclineHandler)

		admin.POST("/announcements", hb.AdminContent.CreateAnnouncementHandler)
		admin.PUT("/announcements/:id", hb.AdminContent.UpdateAnnouncementHandler)
		admin.POST("/alerts", hb.AdminContent.CreateAlertHandler)
		admin.PUT("/alerts/:id", hb.AdminContent.UpdateAlertHandler)
		admin.POST("/officials", hb.AdminContent.CreateOfficialHandler)
		admin.PUT("/officials/:id", hb.AdminContent.UpdateOfficialHandler)
		admin.POST("/events", hb.AdminContent.CreateEventHandler)
		admin.PUT("/events/:id", hb.AdminContent.UpdateEventHandler)
		admin.POST("/voting-events", hb.AdminContent.CreateVotingEventHandler)
		admin.PUT("/voting-events/:id", hb.AdminContent.UpdateVotingEventHandler)

		admin.DELETE("/content/:collection/:id", hb.AdminContent.DeleteHandler)
		admin.DELETE("/content/:collection", hb.AdminContent.ClearHandler)
		admin.GET("/content/:collection/archived", hb.AdminContent.ArchivedHandler)

		admin.GET("/feedback", hb.Feedback.AllHandler)
		admin.PUT("/feedback/:id/review", hb.Feedback.ReviewHandler)

		admin.GET("/analytics/overview", hb.Analytics.OverviewHandler)
		admin.GET("/analytics/report", hb.Analytics.ReportHandler)

		admin.POST("/uploads/image", hb.Upload.UploadImageHandler)
		admin.POST("/uploads/document", hb.Upload.UploadDocumentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "BarangayLink portal is up"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, g *gate.Gate, verifier *firebaseauth.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.SessionMiddleware(verifier))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterResidentRoutes(r, hb, g)
	RegisterAdminRoutes(r, hb, g)
}
