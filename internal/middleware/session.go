package middleware

import (
	"log"
	"net/http"

	"boutique_back_end/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// RequireSession refuse la requête si la session ne porte pas d'utilisateur.
// L'existence du compte n'est pas vérifiée ici.
func RequireSession(store sessions.Store, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, name)
		if err != nil {
			log.Printf("❌ Erreur lecture session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne du serveur"})
			return
		}

		userID, email, ok := session.User(sess)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}
}
