package handlers

import (
	"errors"
	"net/http"

	"barangaylink/middleware"
	"barangaylink/realtime"
	profileSvc "barangaylink/services/profile"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports the signed-in resident's verification status.
type StatusHandler struct {
	Profiles profileSvc.ProfileService
}

func NewStatusHandler(profiles profileSvc.ProfileService) *StatusHandler {
	return &StatusHandler{Profiles: profiles}
}

// StatusHandler returns the verification status and, when declined, the
// recorded reason so the resident can resubmit.
func (h *StatusHandler) StatusHandler(c *gin.Context) {
	p, err := h.Profiles.ProfileByID(c.Request.Context(), middleware.ProfileIDFrom(c))
	if errors.Is(err, realtime.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "No profile for this account", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to load profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        p.Status,
		"declineReason": p.DeclineReason,
	})
}
