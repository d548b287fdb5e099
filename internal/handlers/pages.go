package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Index(c *gin.Context) {
	c.File(filepath.Join(h.StaticDir, "media", "index.html"))
}

func (h *Handlers) Feedback(c *gin.Context) {
	c.File(filepath.Join(h.StaticDir, "media", "feedback.html"))
}

// Static sert les fichiers du client pour toute route GET inconnue.
func (h *Handlers) Static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead ||
		strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route introuvable"})
		return
	}
	http.FileServer(gin.Dir(h.StaticDir, false)).ServeHTTP(c.Writer, c.Request)
}
