package payment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// Stripe crée une Checkout Session, équivalent Stripe de la préférence.
// La clé API est celle de stripe.Key, initialisée au démarrage.
type Stripe struct{}

func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{}
}

func (s *Stripe) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	params := checkoutSessionParams(req)
	params.Context = ctx

	cs, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("Stripe checkout session: %w", err)
	}
	return &Preference{ID: cs.ID, URL: cs.URL}, nil
}

// checkoutSessionParams : Stripe n'a pas d'URL "pending", l'échec devient
// l'URL d'annulation.
func checkoutSessionParams(req PreferenceRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.BackURLs.Success),
		CancelURL:  stripe.String(req.BackURLs.Failure),
	}
	if req.Payer.Email != "" {
		params.CustomerEmail = stripe.String(req.Payer.Email)
	}

	for _, it := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(it.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(it.CurrencyID)),
				UnitAmount: stripe.Int64(minorUnits(it.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Title),
				},
			},
		})
	}
	return params
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
