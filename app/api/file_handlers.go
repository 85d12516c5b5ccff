package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/rss-scribe/app/storage"
)

func (h *Handler) APIListFiles(c *gin.Context) {
	files, err := h.files.List()
	if err != nil {
		slog.Error("File store error", "operation", "list", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to list files")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    files,
		"count":   len(files),
	})
}

func (h *Handler) APIGetFile(c *gin.Context) {
	name := c.Param("filename")

	content, err := h.files.Read(name)
	if err != nil {
		h.fileError(c, "read", name, err)
		return
	}

	respondOK(c, gin.H{"filename": name, "content": content})
}

func (h *Handler) APIUpdateFile(c *gin.Context) {
	name := c.Param("filename")

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	if err := h.files.Update(name, req.Content); err != nil {
		h.fileError(c, "update", name, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File updated",
	})
}

func (h *Handler) APIDeleteFile(c *gin.Context) {
	name := c.Param("filename")

	if err := h.files.Delete(name); err != nil {
		h.fileError(c, "delete", name, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File deleted",
	})
}

func (h *Handler) DownloadFile(c *gin.Context) {
	name := c.Param("filename")

	path, err := h.files.Path(name)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid filename")
		return
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.String(http.StatusNotFound, "File not found")
			return
		}
		slog.Error("File store error", "operation", "download", "filename", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.FileAttachment(path, name)
}

func (h *Handler) fileError(c *gin.Context, operation, name string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		respondError(c, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, storage.ErrNotFound):
		respondError(c, http.StatusNotFound, "File not found")
	default:
		slog.Error("File store error", "operation", operation, "filename", name, "error", err)
		respondError(c, http.StatusInternalServerError, "File operation failed")
	}
}
