package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"boutique_back_end/internal/audit"
	"boutique_back_end/internal/auth"
	"boutique_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

// sessionDestroyer est implémenté par les stores côté serveur.
type sessionDestroyer interface {
	Destroy(ctx context.Context, id string) error
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/register
func (h *Handlers) Register(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requête invalide."})
		return
	}

	user, err := h.Users.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Set("user_id", user.ID.Hex())
	h.Audit.Record(c, audit.ActionRegister, user.Email, true, "")
	c.JSON(http.StatusCreated, gin.H{"message": "Inscription réussie. Vous pouvez maintenant vous connecter."})
}

// POST /api/login
func (h *Handlers) Login(c *gin.Context) {
	var input credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requête invalide."})
		return
	}

	user, err := h.Users.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Audit.Record(c, audit.ActionLoginFailed, auth.NormalizeEmail(input.Email), false, err.Error())
		}
		respondError(c, err)
		return
	}

	sess, err := h.Sessions.Get(c.Request, h.SessionName)
	if err != nil {
		respondError(c, err)
		return
	}
	// Nouvel identifiant à chaque connexion ; l'ancien enregistrement disparaît
	if d, ok := h.Sessions.(sessionDestroyer); ok && !sess.IsNew {
		if err := d.Destroy(c.Request.Context(), sess.ID); err != nil {
			respondError(c, err)
			return
		}
	}
	sess.ID = ""
	sess.Values[session.UserIDKey] = user.ID.Hex()
	sess.Values[session.UserEmailKey] = user.Email
	if err := sess.Save(c.Request, c.Writer); err != nil {
		respondError(c, err)
		return
	}

	c.Set("user_id", user.ID.Hex())
	h.Audit.Record(c, audit.ActionLoginSuccess, user.Email, true, "")
	c.JSON(http.StatusOK, gin.H{"message": "Connexion réussie.", "email": user.Email})
}

// POST /api/logout réussit même sans session.
func (h *Handlers) Logout(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Request, h.SessionName)
	if err != nil {
		log.Printf("❌ Erreur lecture session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la déconnexion."})
		return
	}

	userID, email, loggedIn := session.User(sess)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request, c.Writer); err != nil {
		log.Printf("❌ Erreur suppression session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la déconnexion."})
		return
	}

	if loggedIn {
		c.Set("user_id", userID)
		h.Audit.Record(c, audit.ActionLogout, email, true, "")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie."})
}

// GET /api/session-status
func (h *Handlers) SessionStatus(c *gin.Context) {
	sess, err := h.Sessions.Get(c.Request, h.SessionName)
	if err != nil {
		respondError(c, err)
		return
	}

	_, email, ok := session.User(sess)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isLoggedIn": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isLoggedIn": true, "email": email})
}
