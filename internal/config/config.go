package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, lue depuis l'environnement.
type Config struct {
	Port      string
	BaseURL   string
	StaticDir string

	StorageDriver string // "mongo" ou "memory"
	MongoURI      string
	MongoDB       string

	RedisHost     string
	RedisPassword string

	SessionSecret string
	SessionName   string
	SessionMaxAge time.Duration
	SessionSecure bool

	PaymentProvider string // "mercadopago" ou "stripe"
	MPAccessToken   string
	MPSandbox       bool
	StripeSecretKey string
	Currency        string

	CORSOrigins []string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string
}

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// FromEnv construit la configuration à partir des variables d'environnement,
// avec des valeurs par défaut adaptées au développement local.
func FromEnv() Config {
	return Config{
		Port:      getEnv("PORT", "8080"),
		BaseURL:   strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		StaticDir: getEnv("STATIC_DIR", "../client"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "mongo")),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "tuEcommerceDB"),

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionName:   getEnv("SESSION_NAME", "boutique.sid"),
		SessionMaxAge: getDuration("SESSION_MAX_AGE", 24*time.Hour),
		SessionSecure: getBool("SESSION_SECURE", false),

		PaymentProvider: strings.ToLower(getEnv("PAYMENT_PROVIDER", "mercadopago")),
		MPAccessToken:   os.Getenv("MP_ACCESS_TOKEN"),
		MPSandbox:       getBool("MP_SANDBOX", false),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        strings.ToUpper(getEnv("CHECKOUT_CURRENCY", "ARS")),

		CORSOrigins: getList("CORS_ORIGINS"),

		ScyllaHosts:    getList("SCYLLA_HOSTS"),
		ScyllaKeyspace: getEnv("SCYLLA_KEYSPACE", "boutique"),
		ScyllaUsername: os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),
	}
}

// Validate vérifie les combinaisons obligatoires avant le démarrage.
func (c Config) Validate() error {
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET doit contenir au moins 32 caractères")
	}

	switch c.StorageDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("STORAGE_DRIVER inconnu: %q", c.StorageDriver)
	}

	switch c.PaymentProvider {
	case "mercadopago":
		if c.MPAccessToken == "" {
			return fmt.Errorf("MP_ACCESS_TOKEN manquant")
		}
	case "stripe":
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY manquant")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER inconnu: %q", c.PaymentProvider)
	}

	return nil
}

// FeedbackURL est la page de retour utilisée pour succès, échec et attente.
func (c Config) FeedbackURL() string {
	return c.BaseURL + "/feedback"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepte "24h" comme "86400" (secondes).
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("⚠️ %s invalide (%q), valeur par défaut utilisée", key, raw)
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
