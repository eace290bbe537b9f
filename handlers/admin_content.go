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

// AdminContentHandler serves the admin CRUD surface for every content
// collection, including archive-backed deletes.
type AdminContentHandler struct {
	Content contentSvc.ContentService
}

func NewAdminContentHandler(content contentSvc.ContentService) *AdminContentHandler {
	return &AdminContentHandler{Content: content}
}

func actorFrom(c *gin.Context) realtime.Actor {
	return realtime.Actor{
		ID:    middleware.ProfileIDFrom(c),
		Email: middleware.ProfileEmailFrom(c),
	}
}

func (h *AdminContentHandler) CreateAnnouncementHandler(c *gin.Context) {
	var a models.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	a.AuthorID = middleware.ProfileIDFrom(c)
	created, fields, err := h.Content.CreateAnnouncement(c.Request.Context(), a)
	respondCreate(c, created, fields, err)
}

func (h *AdminContentHandler) UpdateAnnouncementHandler(c *gin.Context) {
	var a models.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.UpdateAnnouncement(c.Request.Context(), c.Param("id"), a)
	respondUpdate(c, fields, err)
}

func (h *AdminContentHandler) CreateAlertHandler(c *gin.Context) {
	var a models.Alert
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	a.AuthorID = middleware.ProfileIDFrom(c)
	created, fields, err := h.Content.CreateAlert(c.Request.Context(), a)
	respondCreate(c, created, fields, err)
}

func (h *AdminContentHandler) UpdateAlertHandler(c *gin.Context) {
	var a models.Alert
	if err := c.ShouldBindJSON(&a); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.UpdateAlert(c.Request.Context(), c.Param("id"), a)
	respondUpdate(c, fields, err)
}

func (h *AdminContentHandler) CreateOfficialHandler(c *gin.Context) {
	var o models.Official
	if err := c.ShouldBindJSON(&o); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, fields, err := h.Content.CreateOfficial(c.Request.Context(), o)
	respondCreate(c, created, fields, err)
}

func (h *AdminContentHandler) UpdateOfficialHandler(c *gin.Context) {
	var o models.Official
	if err := c.ShouldBindJSON(&o); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.UpdateOfficial(c.Request.Context(), c.Param("id"), o)
	respondUpdate(c, fields, err)
}

func (h *AdminContentHandler) CreateEventHandler(c *gin.Context) {
	var e models.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	e.AuthorID = middleware.ProfileIDFrom(c)
	created, fields, err := h.Content.CreateEvent(c.Request.Context(), e)
	respondCreate(c, created, fields, err)
}

func (h *AdminContentHandler) UpdateEventHandler(c *gin.Context) {
	var e models.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.UpdateEvent(c.Request.Context(), c.Param("id"), e)
	respondUpdate(c, fields, err)
}

func (h *AdminContentHandler) CreateVotingEventHandler(c *gin.Context) {
	var v models.VotingEvent
	if err := c.ShouldBindJSON(&v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	created, fields, err := h.Content.CreateVotingEvent(c.Request.Context(), v)
	respondCreate(c, created, fields, err)
}

func (h *AdminContentHandler) UpdateVotingEventHandler(c *gin.Context) {
	var v models.VotingEvent
	if err := c.ShouldBindJSON(&v); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	fields, err := h.Content.UpdateVotingEvent(c.Request.Context(), c.Param("id"), v)
	respondUpdate(c, fields, err)
}

// DeleteHandler archives then deletes one record. Archive failure blocks
// the delete.
func (h *AdminContentHandler) DeleteHandler(c *gin.Context) {
	collection := c.Param("collection")
	err := h.Content.Delete(c.Request.Context(), collection, c.Param("id"), actorFrom(c))
	if errors.Is(err, contentSvc.ErrUnknownCollection) {
		utils.JSONError(c, http.StatusNotFound, "Unknown collection", collection)
		return
	}
	if errors.Is(err, realtime.ErrArchiveFailed) {
		utils.JSONError(c, http.StatusBadGateway, "Archiving failed; record was not deleted", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Delete failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ClearHandler archives then deletes every record in a collection. A
// partial failure reports how many records completed.
func (h *AdminContentHandler) ClearHandler(c *gin.Context) {
	collection := c.Param("collection")
	cleared, err := h.Content.ClearCollection(c.Request.Context(), collection, actorFrom(c))
	if errors.Is(err, contentSvc.ErrUnknownCollection) {
		utils.JSONError(c, http.StatusNotFound, "Unknown collection", collection)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"message": "Clear incomplete; earlier records were archived and deleted",
			"cleared": cleared,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "cleared": cleared})
}

// ArchivedHandler lists the archive copies for one collection.
func (h *AdminContentHandler) ArchivedHandler(c *gin.Context) {
	collection := c.Param("collection")
	records, err := h.Content.Archived(c.Request.Context(), collection)
	if errors.Is(err, contentSvc.ErrUnknownCollection) {
		utils.JSONError(c, http.StatusNotFound, "Unknown collection", collection)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to list archive", err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func respondCreate[T any](c *gin.Context, created *T, fields map[string]string, err error) {
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Create failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func respondUpdate(c *gin.Context, fields map[string]string, err error) {
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if errors.Is(err, realtime.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Record not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Update failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
