package handlers

import (
	"net/http"

	"boutique_back_end/internal/audit"

	"github.com/gin-gonic/gin"
)

// POST /create_preference
func (h *Handlers) CreatePreference(c *gin.Context) {
	pref, err := h.Checkout.CreatePreference(c.Request.Context(), c.GetString("user_id"), c.GetString("email"))
	if err != nil {
		h.Audit.Record(c, audit.ActionCheckout, "", false, err.Error())
		respondError(c, err)
		return
	}

	h.Audit.Record(c, audit.ActionCheckout, "", true, "")
	c.JSON(http.StatusOK, pref)
}
