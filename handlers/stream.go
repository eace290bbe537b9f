package handlers

import (
	"io"
	"net/http"

	"barangaylink/database/store"
	"barangaylink/middleware"
	"barangaylink/models"
	"barangaylink/realtime"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// streamable lists the public collections residents may subscribe to.
// Feedback has its own owner-scoped stream; votes go through the tally
// endpoint instead.
var streamable = map[string]bool{
	models.AnnouncementsCollection: true,
	models.AlertsCollection:        true,
	models.OfficialsCollection:     true,
	models.EventsCollection:        true,
	models.VotingEventsCollection:  true,
}

// StreamHandler pushes live collection snapshots over server-sent events.
// Every delivery is a complete snapshot, never a diff, so a client can
// replace its local state wholesale on each message.
type StreamHandler struct {
	Sync *realtime.SyncManager
	Log  *zap.Logger
}

func NewStreamHandler(sync *realtime.SyncManager, log *zap.Logger) *StreamHandler {
	return &StreamHandler{Sync: sync, Log: log}
}

// CollectionHandler streams one public content collection.
func (h *StreamHandler) CollectionHandler(c *gin.Context) {
	collection := c.Param("collection")
	if !streamable[collection] {
		utils.JSONError(c, http.StatusNotFound, "Unknown collection", collection)
		return
	}
	h.stream(c, collection, nil)
}

// FeedbackStreamHandler streams the signed-in resident's own feedback.
func (h *StreamHandler) FeedbackStreamHandler(c *gin.Context) {
	filter := store.Filter{Field: "ownerId", Value: middleware.ProfileIDFrom(c)}
	h.stream(c, models.FeedbackCollection, &filter)
}

func (h *StreamHandler) stream(c *gin.Context, collection string, filter *store.Filter) {
	// Coalescing buffer: a dropped send is safe because any queued
	// snapshot already supersedes the one being dropped.
	snapshots := make(chan store.Snapshot, 16)
	onChange := func(snap store.Snapshot) {
		select {
		case snapshots <- snap:
		default:
		}
	}

	var unsubscribe realtime.Unsubscribe
	var err error
	if filter != nil {
		unsubscribe, err = h.Sync.SubscribeFiltered(collection, *filter, onChange)
	} else {
		unsubscribe, err = h.Sync.Subscribe(collection, onChange)
	}
	if err != nil {
		h.Log.Error("stream subscribe failed", zap.String("collection", collection), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to open stream", "")
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
