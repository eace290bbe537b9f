package handlers

import (
	"errors"
	"net/http"

	"barangaylink/middleware"
	"barangaylink/models"
	"barangaylink/realtime"
	contentSvc "barangaylink/services/content"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves resident feedback submission plus the admin
// review surface.
type FeedbackHandler struct {
	Content contentSvc.ContentService
}

func NewFeedbackHandler(content contentSvc.ContentService) *FeedbackHandler {
	return &FeedbackHandler{Content: content}
}

// SubmitHandler files a feedback record owned by the signed-in resident.
func (h *FeedbackHandler) SubmitHandler(c *gin.Context) {
	var f models.Feedback
	if err := c.ShouldBindJSON(&f); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	f.OwnerID = middleware.ProfileIDFrom(c)

	created, fields, err := h.Content.SubmitFeedback(c.Request.Context(), f)
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to submit feedback", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MineHandler lists feedback owned by the signed-in resident. Reads
// degrade to an empty list.
func (h *FeedbackHandler) MineHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.FeedbackForOwner(c.Request.Context(), middleware.ProfileIDFrom(c)))
}

// AllHandler lists every feedback record for admins.
func (h *FeedbackHandler) AllHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Content.AllFeedback(c.Request.Context()))
}

// ReviewHandler updates a feedback record's status and optional reply.
func (h *FeedbackHandler) ReviewHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
		Reply  string `json:"reply"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.ReviewFeedback(c.Request.Context(), c.Param("id"), req.Status, req.Reply)
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if errors.Is(err, realtime.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Feedback not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to review feedback", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
}
