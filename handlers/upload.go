package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"barangaylink/services/storage"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadHandler accepts multipart file uploads for content media.
type UploadHandler struct {
	Storage storage.StorageService
	Log     *zap.Logger
}

func NewUploadHandler(svc storage.StorageService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{Storage: svc, Log: log}
}

// UploadImageHandler handles announcement/official photo uploads.
func (h *UploadHandler) UploadImageHandler(c *gin.Context) {
	h.upload(c, storage.KindImage, "barangaylink/images")
}

// UploadDocumentHandler handles PDF attachment uploads.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	h.upload(c, storage.KindDocument, "barangaylink/documents")
}

func (h *UploadHandler) upload(c *gin.Context, kind storage.UploadKind, folder string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file provided", err.Error())
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if fields := storage.ValidateUpload(contentType, fileHeader.Size, kind); fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}

	tempPath := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to buffer upload", err.Error())
		return
	}
	defer os.Remove(tempPath)

	url, err := h.Storage.UploadFile(c.Request.Context(), tempPath, folder)
	if err != nil {
		h.Log.Error("upload failed", zap.String("folder", folder), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Upload failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
