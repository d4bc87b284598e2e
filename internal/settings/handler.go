package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type ocrKeyRequest struct {
	Key string `json:"key"`
}

func (h *Handler) GetOCRKey(c *gin.Context) {
	key, err := h.service.OCRKey(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": key != "",
		"key":        Mask(key),
	})
}

func (h *Handler) SetOCRKey(c *gin.Context) {
	var req ocrKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.service.SetOCRKey(c.Request.Context(), req.Key); err != nil {
		if errors.Is(err, ErrEmptyValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OCR key saved"})
}
