package payment

import (
	"context"
	"errors"
	"testing"

	"boutique_back_end/internal/models"
)

type mockCarts struct {
	GetFunc func(ctx context.Context, userID string) ([]models.CartItem, error)
}

func (m *mockCarts) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	return m.GetFunc(ctx, userID)
}

type mockGateway struct {
	CreatePreferenceFunc func(ctx context.Context, req PreferenceRequest) (*Preference, error)
	calls                int
}

func (m *mockGateway) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	m.calls++
	return m.CreatePreferenceFunc(ctx, req)
}

func cartOf(items ...models.CartItem) *mockCarts {
	return &mockCarts{GetFunc: func(context.Context, string) ([]models.CartItem, error) {
		return items, nil
	}}
}

func TestCreatePreferenceEmptyCart(t *testing.T) {
	gw := &mockGateway{}
	b := NewBuilder(cartOf(), gw, "ARS", "http://shop.test/feedback")

	_, err := b.CreatePreference(context.Background(), "u1", "a@b.com")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if gw.calls != 0 {
		t.Errorf("gateway called %d times, want 0", gw.calls)
	}
}

func TestCreatePreferenceBuildsRequest(t *testing.T) {
	var got PreferenceRequest
	gw := &mockGateway{CreatePreferenceFunc: func(_ context.Context, req PreferenceRequest) (*Preference, error) {
		got = req
		return &Preference{ID: "pref-1", URL: "https://pay.test/pref-1"}, nil
	}}
	carts := cartOf(
		models.CartItem{ID: 1, ProductName: "Remera", Price: 100, Quanty: 2},
		models.CartItem{ID: 3, ProductName: "Gorra", Price: 50.5, Quanty: 1},
	)
	b := NewBuilder(carts, gw, "ARS", "http://shop.test/feedback")

	pref, err := b.CreatePreference(context.Background(), "u1", "a@b.com")
	if err != nil {
		t.Fatalf("CreatePreference: %v", err)
	}
	if pref.ID != "pref-1" || pref.URL != "https://pay.test/pref-1" {
		t.Errorf("pref = %+v", pref)
	}

	want := []LineItem{
		{Title: "Remera", Quantity: 2, CurrencyID: "ARS", UnitPrice: 100},
		{Title: "Gorra", Quantity: 1, CurrencyID: "ARS", UnitPrice: 50.5},
	}
	if len(got.Items) != len(want) {
		t.Fatalf("items = %+v", got.Items)
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got.Items[i], want[i])
		}
	}
	if got.BackURLs.Success != "http://shop.test/feedback" ||
		got.BackURLs.Failure != "http://shop.test/feedback" ||
		got.BackURLs.Pending != "http://shop.test/feedback" {
		t.Errorf("back urls = %+v", got.BackURLs)
	}
	if got.AutoReturn != "approved" {
		t.Errorf("auto_return = %q", got.AutoReturn)
	}
	if got.Payer.Email != "a@b.com" {
		t.Errorf("payer = %q", got.Payer.Email)
	}
}

func TestCreatePreferenceGatewayFailureIsNotRetried(t *testing.T) {
	boom := errors.New("gateway down")
	gw := &mockGateway{CreatePreferenceFunc: func(context.Context, PreferenceRequest) (*Preference, error) {
		return nil, boom
	}}
	b := NewBuilder(cartOf(models.CartItem{ID: 1, ProductName: "x", Price: 1, Quanty: 1}), gw, "ARS", "u")

	if _, err := b.CreatePreference(context.Background(), "u1", "a@b.com"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped gateway error", err)
	}
	if gw.calls != 1 {
		t.Errorf("gateway called %d times, want 1", gw.calls)
	}
}

func TestCreatePreferenceCartError(t *testing.T) {
	boom := errors.New("db down")
	carts := &mockCarts{GetFunc: func(context.Context, string) ([]models.CartItem, error) { return nil, boom }}
	b := NewBuilder(carts, &mockGateway{}, "ARS", "u")

	if _, err := b.CreatePreference(context.Background(), "u1", "a@b.com"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
