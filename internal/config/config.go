package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDBPath          = "./siteoptz.db"
	defaultPort            = "8080"
	defaultAppEnv          = "development"
	defaultGuidesDir       = "./guides"
	defaultSessionLifetime = 24 * time.Hour
	defaultDownloadTTL     = 24 * time.Hour
	defaultRateLimitRPS    = 0.2
	defaultRateLimitBurst  = 5
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv          string
	Port            string
	DBPath          string
	CatalogPath     string
	GuidesDir       string
	SiteURL         string
	AdminEmail      string
	AdminPassword   string
	SessionSecret   string
	SessionLifetime time.Duration
	DownloadTTL     time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	TrustProxy      bool
	CORSOrigins     []string
	CheckoutLinks   string
	OTELEndpoint    string
	OTELEnabled     bool
	OTELInsecure    bool
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: could not read .env: %v", err)
	}

	cfg := Config{
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		DBPath:          getEnv("DB_PATH", defaultDBPath),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		GuidesDir:       getEnv("GUIDES_DIR", defaultGuidesDir),
		SiteURL:         strings.TrimRight(os.Getenv("SITE_URL"), "/"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionLifetime: getDuration("SESSION_LIFETIME", defaultSessionLifetime),
		DownloadTTL:     getDuration("DOWNLOAD_TTL", defaultDownloadTTL),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
		TrustProxy:      getBool("TRUST_PROXY", false),
		CORSOrigins:     splitList(os.Getenv("CORS_ORIGINS")),
		CheckoutLinks:   os.Getenv("CHECKOUT_LINKS"),
		OTELEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELEnabled:     getBool("OTEL_ENABLED", false),
		OTELInsecure:    getBool("OTEL_INSECURE", false),
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
