package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"boutique_back_end/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

type cartMessage struct {
	Type string `json:"type"`
	cache.CartSnapshot
}

// GET /api/cart/ws : pousse le panier à chaque modification, depuis
// n'importe quel onglet ou appareil du même utilisateur.
func (h *Handlers) CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if h.Events == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Synchronisation indisponible"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// S'abonner avant l'upgrade pour ne rien manquer après "connected"
	pubsub := h.Events.Subscribe(ctx, userID)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		respondError(c, err)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	// Lecture : seule façon de voir que le client est parti
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "connected", "message": "Synchronisation panier activée"}); err != nil {
		return
	}

	ch := pubsub.Channel()
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var snap cache.CartSnapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
				log.Printf("⚠️ Événement panier illisible: %v", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(cartMessage{Type: "cart_updated", CartSnapshot: snap}); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// checkOrigin accepte le même hôte et les origines CORS configurées.
func (h *Handlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && u.Host == r.Host {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
