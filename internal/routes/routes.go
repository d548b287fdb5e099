package routes

import (
	"time"

	"boutique_back_end/internal/handlers"
	"boutique_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes branche l'API, les pages et les fichiers statiques.
// limiter peut être nil (pas de limitation).
func RegisterRoutes(r *gin.Engine, h *handlers.Handlers, limiter *middleware.RateLimiter, corsOrigins []string) {
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	requireSession := middleware.RequireSession(h.Sessions, h.SessionName)

	// Pages
	r.GET("/", h.Index)
	r.GET("/feedback", h.Feedback)
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)

		// Auth
		api.POST("/register", limiter.Register(), h.Register)
		api.POST("/login", limiter.Login(), h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/session-status", h.SessionStatus)

		// Panier
		cartGroup := api.Group("/cart", requireSession)
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.GET("/ws", h.CartWebSocket)
			cartGroup.POST("/add", limiter.Cart(), h.AddToCart)
			cartGroup.PUT("/update/:productId", limiter.Cart(), h.UpdateCartItem)
			cartGroup.DELETE("/remove/:productId", limiter.Cart(), h.RemoveFromCart)
			cartGroup.POST("/merge", limiter.Cart(), h.MergeCart)
		}
	}

	// Paiement
	r.POST("/create_preference", requireSession, h.CreatePreference)

	r.NoRoute(h.Static)
}
