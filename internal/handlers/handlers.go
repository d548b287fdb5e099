// Package handlers expose l'API HTTP de la boutique.
package handlers

import (
	"context"

	"boutique_back_end/internal/audit"
	"boutique_back_end/internal/auth"
	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/catalog"
	"boutique_back_end/internal/payment"

	"github.com/gorilla/sessions"
)

// Handlers regroupe les dépendances injectées depuis main.
type Handlers struct {
	Users    *auth.Service
	Carts    *cart.Service
	Checkout *payment.Builder
	Catalog  *catalog.Catalog

	Sessions    sessions.Store
	SessionName string

	Events *cache.CartEvents
	Audit  *audit.Logger

	// Checks est interrogé par /healthz, une entrée par dépendance.
	Checks map[string]func(ctx context.Context) error

	StaticDir      string
	AllowedOrigins []string
}
