package handlers

import (
	"net/http"

	"github.com/artisanhub/artisanhub-api/internal/artstyle"
	"github.com/gin-gonic/gin"
)

type StylesHandler struct {
	catalog *artstyle.Catalog
}

func NewStylesHandler(catalog *artstyle.Catalog) *StylesHandler {
	return &StylesHandler{catalog: catalog}
}

// List handles GET /api/styles
func (h *StylesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"styles": h.catalog.All()})
}
