package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var errIncompletePreference = errors.New("réponse MercadoPago incomplète")

// MercadoPago crée les préférences de Checkout Pro via le SDK officiel.
type MercadoPago struct {
	client     preference.Client
	sandbox    bool
	httpClient *http.Client
}

type MercadoPagoOption func(*MercadoPago)

// WithHTTPClient remplace le client HTTP utilisé par le SDK.
func WithHTTPClient(c *http.Client) MercadoPagoOption {
	return func(m *MercadoPago) { m.httpClient = c }
}

// WithSandbox renvoie sandbox_init_point au lieu de init_point.
func WithSandbox(enabled bool) MercadoPagoOption {
	return func(m *MercadoPago) { m.sandbox = enabled }
}

func NewMercadoPago(accessToken string, opts ...MercadoPagoOption) (*MercadoPago, error) {
	m := &MercadoPago{}
	for _, opt := range opts {
		opt(m)
	}

	var cfgOpts []config.Option
	if m.httpClient != nil {
		cfgOpts = append(cfgOpts, config.WithHTTPClient(m.httpClient))
	}
	cfg, err := config.New(accessToken, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("configuration MercadoPago: %w", err)
	}
	m.client = preference.NewClient(cfg)
	return m, nil
}

// CreatePreference : le SDK pose une clé d'idempotence neuve à chaque appel,
// une nouvelle tentative crée donc une nouvelle préférence.
func (m *MercadoPago) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	res, err := m.client.Create(ctx, toPreferenceRequest(req))
	if err != nil {
		return nil, fmt.Errorf("appel MercadoPago: %w", err)
	}

	url := res.InitPoint
	if m.sandbox && res.SandboxInitPoint != "" {
		url = res.SandboxInitPoint
	}
	if res.ID == "" || url == "" {
		return nil, fmt.Errorf("préférence %q: %w", res.ID, errIncompletePreference)
	}
	return &Preference{ID: res.ID, URL: url}, nil
}

func toPreferenceRequest(req PreferenceRequest) preference.Request {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			Title:      it.Title,
			Quantity:   it.Quantity,
			CurrencyID: it.CurrencyID,
			UnitPrice:  it.UnitPrice,
		})
	}
	return preference.Request{
		Items: items,
		BackURLs: &preference.BackURLsRequest{
			Success: req.BackURLs.Success,
			Failure: req.BackURLs.Failure,
			Pending: req.BackURLs.Pending,
		},
		AutoReturn: req.AutoReturn,
		Payer:      &preference.PayerRequest{Email: req.Payer.Email},
	}
}
