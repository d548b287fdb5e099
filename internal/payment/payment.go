// Package payment transforme un panier en préférence de paiement et la fait
// créer par la passerelle configurée.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boutique_back_end/internal/models"
)

const gatewayTimeout = 10 * time.Second

var ErrEmptyCart = errors.New("le panier est vide")

type LineItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type Payer struct {
	Email string `json:"email"`
}

// PreferenceRequest décrit une tentative de paiement.
type PreferenceRequest struct {
	Items      []LineItem `json:"items"`
	BackURLs   BackURLs   `json:"back_urls"`
	AutoReturn string     `json:"auto_return,omitempty"`
	Payer      Payer      `json:"payer"`
}

// Preference est la réponse renvoyée au navigateur.
type Preference struct {
	ID  string `json:"preference_id"`
	URL string `json:"preference_url"`
}

type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
}

type CartReader interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
}

type Builder struct {
	carts       CartReader
	gateway     Gateway
	currency    string
	feedbackURL string
}

// NewBuilder : les trois URLs de retour pointent toutes vers feedbackURL.
func NewBuilder(carts CartReader, gateway Gateway, currency, feedbackURL string) *Builder {
	return &Builder{carts: carts, gateway: gateway, currency: currency, feedbackURL: feedbackURL}
}

// BuildLineItems convertit le panier en lignes de passerelle.
func BuildLineItems(items []models.CartItem, currency string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			Title:      it.ProductName,
			Quantity:   it.Quanty,
			CurrencyID: currency,
			UnitPrice:  it.Price,
		})
	}
	return out
}

// CreatePreference n'est pas idempotent : chaque appel crée une nouvelle
// préférence, et un échec n'est jamais rejoué.
func (b *Builder) CreatePreference(ctx context.Context, userID, payerEmail string) (*Preference, error) {
	items, err := b.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := PreferenceRequest{
		Items: BuildLineItems(items, b.currency),
		BackURLs: BackURLs{
			Success: b.feedbackURL,
			Failure: b.feedbackURL,
			Pending: b.feedbackURL,
		},
		AutoReturn: "approved",
		Payer:      Payer{Email: payerEmail},
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	pref, err := b.gateway.CreatePreference(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("création préférence: %w", err)
	}
	return pref, nil
}
