package ocr

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ingrediguard/internal/menu"
)

type Handler struct {
	service *Service
}

// NewHandler wraps service. A nil service means OCR is disabled and every
// endpoint answers 503.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Admin uploads a menu image
// --------------------------------------------------
func (h *Handler) Upload(c *gin.Context) {
	if !h.enabled(c) {
		return
	}

	_, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	if err := menu.ValidateImageFile(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := h.service.Submit(c.Request.Context(), header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store menu image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"upload":  upload,
		"message": "Menu uploaded. OCR and parsing will start automatically.",
	})
}

// --------------------------------------------------
// Status polling
// --------------------------------------------------
func (h *Handler) Status(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	id, ok := uploadID(c)
	if !ok {
		return
	}

	upload, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// --------------------------------------------------
// Retry a failed upload
// --------------------------------------------------
func (h *Handler) Retry(c *gin.Context) {
	if !h.enabled(c) {
		return
	}
	id, ok := uploadID(c)
	if !ok {
		return
	}

	if err := h.service.Retry(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": StatusUploaded})
}

func (h *Handler) enabled(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrOCRDisabled.Error()})
		return false
	}
	return true
}

func uploadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload id"})
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUploadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotRetryable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
