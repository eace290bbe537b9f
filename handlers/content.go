package handlers

import (
	"net/http"

	contentSvc "barangaylink/services/content"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the resident-facing read endpoints. Reads are
// best-effort: a transport failure shows an empty list, not an error page.
type ContentHandler struct {
	Content contentSvc.ContentService
}

func NewContentHandler(content contentSvc.ContentService) *ContentHandler {
	return &ContentHandler{Content: content}
}

func (h *ContentHandler) ListAnnouncementsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.Announcements(c.Request.Context()))
}

func (h *ContentHandler) ListAlertsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.Alerts(c.Request.Context()))
}

func (h *ContentHandler) ListOfficialsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.Officials(c.Request.Context()))
}

func (h *ContentHandler) ListEventsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.Events(c.Request.Context()))
}

func (h *ContentHandler) ListVotingEventsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.VotingEvents(c.Request.Context()))
}
