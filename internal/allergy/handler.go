package allergy

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const promptMessage = "please enter at least one allergen"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type checkRequest struct {
	Allergens string `json:"allergens"`
}

type filterRequest struct {
	Allergens string     `json:"allergens"`
	Items     []MenuItem `json:"items"`
}

// --------------------------------------------------
// Diner: check the stored menu
// --------------------------------------------------
func (h *Handler) CheckMenu(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.service.CheckMenu(c.Request.Context(), req.Allergens)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// --------------------------------------------------
// Filter caller-supplied items
// --------------------------------------------------
func (h *Handler) FilterItems(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.service.Check(c.Request.Context(), req.Items, req.Allergens)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNoAllergens) {
		c.JSON(http.StatusBadRequest, gin.H{"error": promptMessage})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check menu"})
}

// --------------------------------------------------
// Public: list known allergen categories
// --------------------------------------------------
func (h *Handler) Categories(c *gin.Context) {
	tax := h.service.matcher.Taxonomy()

	categories := make([]gin.H, 0, len(tax.Categories()))
	for _, name := range tax.Categories() {
		categories = append(categories, gin.H{
			"name":  name,
			"terms": tax.Terms(name),
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
