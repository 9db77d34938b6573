package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/ailit-assessment/internal/catalog"
	"github.com/stemsi/ailit-assessment/internal/response"
)

// CatalogHandler serves the question catalogue.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// GetCatalog godoc
// GET /api/v1/catalog
// Returns every dimension with its questions and option weights.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"dimensions": h.cat.Dimensions(),
	})
}
