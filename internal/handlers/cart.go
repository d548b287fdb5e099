package handlers

import (
	"net/http"
	"strconv"

	"boutique_back_end/internal/cart"

	"github.com/gin-gonic/gin"
)

// GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	items, err := h.Carts.Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/cart/add : seul l'id du produit est lu, le reste vient du catalogue.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input struct {
		ID int `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit manquant."})
		return
	}

	items, err := h.Carts.Add(c.Request.Context(), c.GetString("user_id"), input.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PUT /api/cart/update/:productId
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide."})
		return
	}

	items, err := h.Carts.Update(c.Request.Context(), c.GetString("user_id"), productID, input.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// DELETE /api/cart/remove/:productId
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	items, err := h.Carts.Remove(c.Request.Context(), c.GetString("user_id"), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/cart/merge : fusionne le panier invité après connexion.
func (h *Handlers) MergeCart(c *gin.Context) {
	var lines []cart.GuestLine
	if err := c.ShouldBindJSON(&lines); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier invalide."})
		return
	}

	items, err := h.Carts.Merge(c.Request.Context(), c.GetString("user_id"), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func productIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant produit invalide."})
		return 0, false
	}
	return id, true
}
