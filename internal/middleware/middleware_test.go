package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"boutique_back_end/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRequireSession(t *testing.T) {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		sess, _ := store.Get(c.Request, "sid")
		sess.Values[session.UserIDKey] = "u1"
		sess.Values[session.UserEmailKey] = "a@b.com"
		if err := sess.Save(c.Request, c.Writer); err != nil {
			t.Fatalf("save: %v", err)
		}
		c.Status(http.StatusOK)
	})
	r.GET("/private", RequireSession(store, "sid"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user_id"), "email": c.GetString("email")})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := w.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logged-in status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"user":"u1"`) || !strings.Contains(w.Body.String(), `"email":"a@b.com"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestLoginRateLimit(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client)

	var seenBody string
	r := gin.New()
	r.POST("/login", rl.Login(), func(c *gin.Context) {
		b, _ := c.GetRawData()
		seenBody = string(b)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email ou mot de passe incorrect."})
	})

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := `{"email":" User@Example.com ","password":"mauvais"}`
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
		return w
	}

	for i := 0; i < LoginMaxAttempts; i++ {
		if w := post(); w.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d status = %d, want 400", i+1, w.Code)
		}
	}
	if !strings.Contains(seenBody, `"password":"mauvais"`) {
		t.Errorf("handler saw body %q", seenBody)
	}
	if !mr.Exists("login_cooldown:user@example.com") {
		t.Fatal("cooldown key not set")
	}

	w := post()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	mr.FastForward(LoginCooldown)
	if w := post(); w.Code != http.StatusBadRequest {
		t.Errorf("after cooldown status = %d, want 400", w.Code)
	}
}

func TestLoginSuccessResetsCounter(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client)

	status := http.StatusBadRequest
	r := gin.New()
	r.POST("/login", rl.Login(), func(c *gin.Context) { c.Status(status) })

	post := func() {
		r.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.com"}`)))
	}

	post()
	post()
	if v, _ := mr.Get("login_attempts:a@b.com"); v != "2" {
		t.Fatalf("attempts = %q, want 2", v)
	}
	status = http.StatusOK
	post()
	if mr.Exists("login_attempts:a@b.com") {
		t.Error("attempts not reset after success")
	}
}

func TestLoginCountsSlowFailures(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client)
	rl.timeout = 20 * time.Millisecond

	r := gin.New()
	r.POST("/login", rl.Login(), func(c *gin.Context) {
		time.Sleep(3 * rl.timeout)
		c.Status(http.StatusUnauthorized)
	})

	post := func(ctx context.Context) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"lent@b.com"}`))
		r.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))
	}

	post(context.Background())
	if v, _ := mr.Get("login_attempts:lent@b.com"); v != "1" {
		t.Fatalf("attempts = %q, want 1", v)
	}

	// Client parti pendant le handler
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	post(ctx)
	if v, _ := mr.Get("login_attempts:lent@b.com"); v != "2" {
		t.Fatalf("attempts = %q, want 2", v)
	}
}

func TestRegisterCountsSlowSuccesses(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client)
	rl.timeout = 20 * time.Millisecond

	r := gin.New()
	r.POST("/register", rl.Register(), func(c *gin.Context) {
		time.Sleep(3 * rl.timeout)
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)
	if v, _ := mr.Get("register_attempts:198.51.100.9"); v != "1" {
		t.Fatalf("registrations = %q, want 1", v)
	}
}

func TestRegisterRateLimit(t *testing.T) {
	_, client := newRedis(t)
	rl := NewRateLimiter(client)

	r := gin.New()
	r.POST("/register", rl.Register(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < RegisterMaxAttempts; i++ {
		if code := post(); code != http.StatusCreated {
			t.Fatalf("registration %d status = %d", i+1, code)
		}
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}
}

func TestCartRateLimit(t *testing.T) {
	_, client := newRedis(t)
	rl := NewRateLimiter(client)

	r := gin.New()
	r.POST("/cart", func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-User"))
		c.Next()
	}, rl.Cart(), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < CartMaxRequests; i++ {
		if code := post("u1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, code)
		}
	}
	if code := post("u1"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}
	if code := post("u2"); code != http.StatusOK {
		t.Errorf("other user status = %d, want 200", code)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client)
	mr.Close()

	r := gin.New()
	r.POST("/cart", func(c *gin.Context) { c.Set("user_id", "u1") }, rl.Cart(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when Redis is down", w.Code)
	}
}
