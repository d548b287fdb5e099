package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/products
func (h *Handlers) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.All())
}
