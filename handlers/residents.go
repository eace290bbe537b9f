package handlers

import (
	"errors"
	"net/http"

	"barangaylink/realtime"
	profileSvc "barangaylink/services/profile"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// ResidentsHandler serves the admin verification queue.
type ResidentsHandler struct {
	Profiles profileSvc.ProfileService
}

func NewResidentsHandler(profiles profileSvc.ProfileService) *ResidentsHandler {
	return &ResidentsHandler{Profiles: profiles}
}

// ListHandler returns every resident profile for admin review.
func (h *ResidentsHandler) ListHandler(c *gin.Context) {
	residents, err := h.Profiles.AllResidents(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to load residents", err.Error())
		return
	}
	c.JSON(http.StatusOK, residents)
}

// ApproveHandler marks a resident verified. The response carries whether
// the notification email was delivered; a failed email never rolls back
// the approval.
func (h *ResidentsHandler) ApproveHandler(c *gin.Context) {
	updated, notified, err := h.Profiles.Approve(c.Request.Context(), c.Param("id"), actorFrom(c))
	if errors.Is(err, realtime.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Resident not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to approve resident", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": updated, "notified": notified})
}

// DeclineHandler marks a resident declined with a required reason.
func (h *ResidentsHandler) DeclineHandler(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	updated, notified, err := h.Profiles.Decline(c.Request.Context(), c.Param("id"), req.Reason, actorFrom(c))
	if errors.Is(err, profileSvc.ErrReasonRequired) {
		utils.JSONFieldErrors(c, map[string]string{"reason": "a decline reason is required"})
		return
	}
	if errors.Is(err, realtime.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Resident not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to decline resident", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": updated, "notified": notified})
}
