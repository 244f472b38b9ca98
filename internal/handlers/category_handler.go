package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
)

// CategoryHandler serves the category suggestions shown by the add form.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryGroup lists the suggested categories of one transaction type.
type CategoryGroup struct {
	Type       models.TransactionType `json:"type"`
	Categories []string               `json:"categories"`
}

// ListCategories returns the default categories
// @Summary     List categories
// @Description Suggested categories grouped by transaction type. Categories are free text; these are only suggestions.
// @Tags        categories
// @Produce     json
// @Param       type query string false "Only this transaction type"
// @Success     200 {object} map[string][]CategoryGroup "Category groups"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	types := models.TransactionTypes
	if v := c.Query("type"); v != "" {
		typ, ok := models.ParseTransactionType(v)
		if !ok {
			respondWithError(c, apperrors.ErrInvalidTransactionType)
			return
		}
		types = []models.TransactionType{typ}
	}

	groups := make([]CategoryGroup, 0, len(types))
	for _, typ := range types {
		groups = append(groups, CategoryGroup{Type: typ, Categories: models.DefaultCategories[typ]})
	}

	c.JSON(http.StatusOK, gin.H{"categories": groups})
}
