package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique_back_end/internal/audit"
	"boutique_back_end/internal/auth"
	"boutique_back_end/internal/cache"
	"boutique_back_end/internal/cart"
	"boutique_back_end/internal/catalog"
	"boutique_back_end/internal/config"
	"boutique_back_end/internal/database"
	"boutique_back_end/internal/handlers"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/payment"
	"boutique_back_end/internal/repository"
	"boutique_back_end/internal/routes"
	"boutique_back_end/internal/session"

	"github.com/gin-gonic/gin"
)

// userStore regroupe ce dont les services attendent du stockage.
type userStore interface {
	auth.UserStore
	cart.Repository
	Ping(ctx context.Context) error
}

func main() {
	config.Load()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Stockage des comptes
	var users userStore
	switch cfg.StorageDriver {
	case "mongo":
		client, err := repository.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer client.Disconnect(context.Background())

		repo := repository.NewMongo(client.Database(cfg.MongoDB))
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("❌ %v", err)
		}
		users = repo
	default:
		log.Println("⚠️ STORAGE_DRIVER=memory : les comptes seront perdus au redémarrage")
		users = repository.NewMemory()
	}

	// 2. Redis : sessions, limites, événements panier
	rdb, err := cache.Connect(ctx, cfg.RedisHost, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer rdb.Close()

	store := session.NewRedisStore(rdb, cfg.SessionMaxAge, []byte(cfg.SessionSecret))
	store.Options.Secure = cfg.SessionSecure

	// 3. Journal d'audit
	var sink audit.Sink = audit.LogSink{}
	if len(cfg.ScyllaHosts) > 0 {
		scylla, err := database.ConnectScylla(database.DefaultScyllaConfig(
			cfg.ScyllaHosts, cfg.ScyllaKeyspace, cfg.ScyllaUsername, cfg.ScyllaPassword))
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer scylla.Close()

		scyllaSink := audit.NewScyllaSink(scylla)
		if err := scyllaSink.EnsureSchema(ctx); err != nil {
			log.Fatalf("❌ Création table audit_logs: %v", err)
		}
		sink = scyllaSink
	}
	auditLog := audit.NewLogger(sink)

	// 4. Catalogue, panier, paiement
	products, err := catalog.Default()
	if err != nil {
		log.Fatalf("❌ Catalogue: %v", err)
	}

	events := cache.NewCartEvents(rdb)
	carts := cart.NewService(users, products, cart.WithNotifier(events))

	var gateway payment.Gateway
	switch cfg.PaymentProvider {
	case "stripe":
		gateway = payment.NewStripe(cfg.StripeSecretKey)
		log.Println("✅ Stripe initialisé")
	default:
		mp, err := payment.NewMercadoPago(cfg.MPAccessToken,
			payment.WithSandbox(cfg.MPSandbox),
			payment.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))
		if err != nil {
			log.Fatalf("❌ MercadoPago: %v", err)
		}
		gateway = mp
		log.Println("✅ MercadoPago initialisé")
	}

	h := &handlers.Handlers{
		Users:       auth.NewService(users),
		Carts:       carts,
		Checkout:    payment.NewBuilder(carts, gateway, cfg.Currency, cfg.FeedbackURL()),
		Catalog:     products,
		Sessions:    store,
		SessionName: cfg.SessionName,
		Events:      events,
		Audit:       auditLog,
		Checks: map[string]func(context.Context) error{
			"redis":      func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			"repository": users.Ping,
		},
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSOrigins,
	}

	r := gin.Default()
	routes.RegisterRoutes(r, h, middleware.NewRateLimiter(rdb), cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Serveur boutique lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
	auditLog.Wait()
}
