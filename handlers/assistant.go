package handlers

import (
	"net/http"

	assistantSvc "barangaylink/services/assistant"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// AssistantHandler serves the resident helpdesk chat.
type AssistantHandler struct {
	Assistant assistantSvc.AssistantService
}

func NewAssistantHandler(assistant assistantSvc.AssistantService) *AssistantHandler {
	return &AssistantHandler{Assistant: assistant}
}

// ChatHandler answers one resident question grounded on current portal
// content.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	answer, err := h.Assistant.Chat(c.Request.Context(), req.Question)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Assistant is unavailable", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
