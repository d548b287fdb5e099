package cache

import (
	"context"
	"encoding/json"
	"log"

	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// CartSnapshot est le message publié à chaque modification du panier.
type CartSnapshot struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func NewCartSnapshot(items []models.CartItem) CartSnapshot {
	if items == nil {
		items = []models.CartItem{}
	}
	return CartSnapshot{Items: items, Total: cart.Total(items), Count: len(items)}
}

// CartEvents diffuse les paniers mis à jour via le pub/sub Redis, un canal par
// utilisateur.
type CartEvents struct {
	client *redis.Client
}

func NewCartEvents(client *redis.Client) *CartEvents {
	return &CartEvents{client: client}
}

func CartChannel(userID string) string {
	return "cart:" + userID
}

// CartUpdated implémente cart.Notifier. Une erreur de publication n'annule pas
// la modification déjà persistée.
func (e *CartEvents) CartUpdated(ctx context.Context, userID string, items []models.CartItem) {
	payload, err := json.Marshal(NewCartSnapshot(items))
	if err != nil {
		log.Printf("❌ Erreur encodage événement panier: %v", err)
		return
	}
	if err := e.client.Publish(ctx, CartChannel(userID), payload).Err(); err != nil {
		log.Printf("⚠️ Publication panier %s échouée: %v", userID, err)
	}
}

func (e *CartEvents) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return e.client.Subscribe(ctx, CartChannel(userID))
}
