package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"boutique_back_end/internal/auth"
	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/payment"
	"boutique_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKey  string
	}{
		{"validation", &auth.ValidationError{Message: "Adresse email invalide."}, http.StatusBadRequest, `"message":"Adresse email invalide."`},
		{"credentials", auth.ErrInvalidCredentials, http.StatusBadRequest, `"message"`},
		{"unknown product", fmt.Errorf("produit 9: %w", cart.ErrUnknownProduct), http.StatusNotFound, `"error"`},
		{"missing item", cart.ErrItemNotFound, http.StatusNotFound, `"error"`},
		{"bad action", cart.ErrInvalidAction, http.StatusBadRequest, `"error"`},
		{"bad quantity", fmt.Errorf("produit 1: %w", cart.ErrInvalidQuantity), http.StatusBadRequest, `"error"`},
		{"empty cart", payment.ErrEmptyCart, http.StatusBadRequest, `"error"`},
		{"deleted user", repository.ErrNotFound, http.StatusUnauthorized, `"error"`},
		{"conflict", fmt.Errorf("panier: %w", repository.ErrConflict), http.StatusInternalServerError, `"Erreur interne du serveur"`},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, `"Erreur interne du serveur"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantKey) {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.wantKey)
			}
			if strings.Contains(w.Body.String(), "connection reset") {
				t.Errorf("internal detail leaked: %s", w.Body.String())
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	h := &Handlers{AllowedOrigins: []string{"https://front.example.com"}}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://shop.test", true},
		{"https://front.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://shop.test/api/cart/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestHealthWithoutChecks(t *testing.T) {
	h := &Handlers{}
	r := gin.New()
	r.GET("/healthz", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestStaticRejectsNonGet(t *testing.T) {
	h := &Handlers{StaticDir: t.TempDir()}
	r := gin.New()
	r.NoRoute(h.Static)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/whatever", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
