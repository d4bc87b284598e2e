package menu

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ingrediguard/internal/allergy"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addDishRequest struct {
	Item        string              `json:"item"`
	Ingredients allergy.Ingredients `json:"ingredients"`
}

// --------------------------------------------------
// Public: list the menu
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	dishes, err := h.service.ListDishes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

// --------------------------------------------------
// Admin: add one dish
// --------------------------------------------------
func (h *Handler) Add(c *gin.Context) {
	var req addDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dish, err := h.service.AddDish(c.Request.Context(), req.Item, req.Ingredients.String())
	if err != nil {
		if errors.Is(err, ErrInvalidDish) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add dish"})
		return
	}

	c.JSON(http.StatusCreated, dish)
}

// --------------------------------------------------
// Admin: delete one dish
// --------------------------------------------------
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return
	}

	if err := h.service.DeleteDish(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrDishNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete dish"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "dish deleted", "id": id})
}

// --------------------------------------------------
// Admin: clear the whole menu
// --------------------------------------------------
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.ClearMenu(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "menu cleared"})
}

// --------------------------------------------------
// Admin: import a CSV menu
// --------------------------------------------------
func (h *Handler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("menu_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_file is required"})
		return
	}
	defer file.Close()

	if err := ValidateMenuFile(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("dry_run") == "true" {
		rows, err := h.service.PreviewCSV(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"dry_run": true, "rows": rows})
		return
	}

	replace := c.Query("replace") == "true"
	n, err := h.service.ImportCSV(c.Request.Context(), file, replace)
	if err != nil {
		if errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrInvalidCSV) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import menu"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"imported": n,
		"replace":  replace,
		"message":  "Menu imported.",
	})
}

// --------------------------------------------------
// Admin: export the menu as CSV
// --------------------------------------------------
func (h *Handler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.Request.Context(), &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export menu"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="menu.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
