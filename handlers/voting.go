package handlers

import (
	"errors"
	"net/http"

	"barangaylink/middleware"
	"barangaylink/models"
	contentSvc "barangaylink/services/content"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// VotingHandler serves resident-facing voting operations.
type VotingHandler struct {
	Content contentSvc.ContentService
}

func NewVotingHandler(content contentSvc.ContentService) *VotingHandler {
	return &VotingHandler{Content: content}
}

// CastVoteHandler records one vote for the signed-in resident. Each
// resident votes at most once per voting event.
func (h *VotingHandler) CastVoteHandler(c *gin.Context) {
	var v models.Vote
	if err := c.ShouldBindJSON(&v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	v.VotingEventID = c.Param("id")
	v.OwnerID = middleware.ProfileIDFrom(c)

	created, fields, err := h.Content.CastVote(c.Request.Context(), v)
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if errors.Is(err, contentSvc.ErrVotingClosed) {
		utils.JSONError(c, http.StatusConflict, "Voting is not open for this event", "")
		return
	}
	if errors.Is(err, contentSvc.ErrDuplicateVote) {
		utils.JSONError(c, http.StatusConflict, "You have already voted in this event", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to record vote", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// TallyHandler returns vote counts per option for one voting event.
func (h *VotingHandler) TallyHandler(c *gin.Context) {
	tally, err := h.Content.VoteTally(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to compute tally", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"votingEventId": c.Param("id"), "tally": tally})
}
