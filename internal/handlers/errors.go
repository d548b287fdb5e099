package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"boutique_back_end/internal/auth"
	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/payment"
	"boutique_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// respondError traduit une erreur métier en réponse HTTP. Les erreurs
// inattendues sont journalisées et renvoyées sans détail.
func respondError(c *gin.Context, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": auth.ErrInvalidCredentials.Error()})
	case errors.Is(err, cart.ErrUnknownProduct):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable."})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable dans le panier."})
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Quantité invalide (maximum %d).", cart.MaxLineQuantity)})
	case errors.Is(err, cart.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action invalide (increase ou decrease)."})
	case errors.Is(err, payment.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le panier est vide."})
	case errors.Is(err, repository.ErrNotFound):
		// La session désigne un compte qui n'existe plus.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne du serveur"})
	}
}
