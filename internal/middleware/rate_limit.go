package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"boutique_back_end/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3
	CartMaxRequests     = 20

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
	CartWindow       = 1 * time.Minute

	maxLoginBody = 1 << 16
	redisTimeout = 2 * time.Second
)

// RateLimiter applique les limites avec des compteurs Redis. Si Redis ne
// répond pas, la requête passe. Un *RateLimiter nil ne limite rien.
type RateLimiter struct {
	client  redis.Cmdable
	timeout time.Duration
}

func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	return &RateLimiter{client: client, timeout: redisTimeout}
}

// Login bloque un email après LoginMaxAttempts échecs consécutifs.
func (rl *RateLimiter) Login() gin.HandlerFunc {
	if rl == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		// Lire le body puis le remettre pour le handler
		bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLoginBody))
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		if err != nil {
			c.Next()
			return
		}

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || auth.NormalizeEmail(input.Email) == "" {
			c.Next()
			return
		}
		email := auth.NormalizeEmail(input.Email)
		key := "login_attempts:" + email
		cooldownKey := "login_cooldown:" + email

		if ttl, blocked := rl.cooldown(c.Request.Context(), cooldownKey); blocked {
			tooMany(c, fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", minutes(ttl)), ttl)
			return
		}

		c.Next()

		ctx, cancel := rl.afterHandler(c)
		defer cancel()

		switch c.Writer.Status() {
		case http.StatusBadRequest, http.StatusUnauthorized:
			attempts, err := rl.hit(ctx, key, LoginCooldown)
			if err != nil {
				log.Printf("⚠️ Rate limit login indisponible: %v", err)
				return
			}
			if attempts >= LoginMaxAttempts {
				rl.client.Set(ctx, cooldownKey, "1", LoginCooldown)
				rl.client.Del(ctx, key)
				log.Printf("⚠️ Connexion bloquée %v pour %s", LoginCooldown, email)
			}
		case http.StatusOK:
			rl.client.Del(ctx, key)
		}
	}
}

// Register limite les inscriptions réussies par IP.
func (rl *RateLimiter) Register() gin.HandlerFunc {
	if rl == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip

		if ttl, blocked := rl.cooldown(c.Request.Context(), cooldownKey); blocked {
			tooMany(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", minutes(ttl)), ttl)
			return
		}

		c.Next()

		if c.Writer.Status() != http.StatusCreated {
			return
		}
		ctx, cancel := rl.afterHandler(c)
		defer cancel()
		count, err := rl.hit(ctx, key, RegisterCooldown)
		if err != nil {
			log.Printf("⚠️ Rate limit inscription indisponible: %v", err)
			return
		}
		if count >= RegisterMaxAttempts {
			rl.client.Set(ctx, cooldownKey, "1", RegisterCooldown)
			rl.client.Del(ctx, key)
		}
	}
}

// Cart limite les modifications de panier par utilisateur (anti-spam).
// À placer après RequireSession.
func (rl *RateLimiter) Cart() gin.HandlerFunc {
	if rl == nil {
		return passThrough
	}
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), rl.timeout)
		defer cancel()

		key := "cart_requests:" + userID
		count, err := rl.hit(ctx, key, CartWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit panier indisponible: %v", err)
			c.Next()
			return
		}
		if count > CartMaxRequests {
			ttl := rl.client.TTL(ctx, key).Val()
			if ttl <= 0 {
				ttl = CartWindow
			}
			tooMany(c, "Trop de modifications du panier. Ralentissez un peu", ttl)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", CartMaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", CartMaxRequests-count))
		c.Next()
	}
}

// hit incrémente le compteur ; l'expiration est posée au premier incrément.
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// afterHandler donne un délai neuf pour les écritures faites après le
// handler, qui survivent à une déconnexion du client.
func (rl *RateLimiter) afterHandler(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), rl.timeout)
}

func (rl *RateLimiter) cooldown(ctx context.Context, key string) (time.Duration, bool) {
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	ttl, err := rl.client.TTL(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️ Lecture cooldown %s: %v", key, err)
		return 0, false
	}
	// -2 : clé absente
	if ttl == -2 {
		return 0, false
	}
	if ttl < 0 {
		ttl = 0
	}
	return ttl, true
}

func passThrough(c *gin.Context) { c.Next() }

func tooMany(c *gin.Context, msg string, retryAfter time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       msg,
		"retry_after": int(retryAfter.Seconds()),
	})
}

func minutes(d time.Duration) int {
	m := int(d.Minutes())
	if m < 1 {
		return 1
	}
	return m
}
