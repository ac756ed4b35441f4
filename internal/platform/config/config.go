package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// BaseURL is the externally visible base for generated handover links,
	// without a trailing slash.
	BaseURL string

	// HandoverTTL bounds how long an unclaimed handover link stays usable.
	HandoverTTL time.Duration

	// SweepInterval controls how often expired records are removed from
	// stores without native expiry.
	SweepInterval time.Duration

	// DefaultClientID is assumed on redemption when the caller does not
	// name a client explicitly.
	DefaultClientID string

	JWTSigningKey string
	Issuer        string

	SessionCookieName string
	SessionTTL        time.Duration
	SessionSecure     bool

	// Clients are the registrations seeded at startup. Parsed from
	// HANDOVER_CLIENTS as comma separated clientID=redirectURI pairs.
	Clients []ClientSeed

	Redis    RedisConfig
	Database DatabaseConfig
}

// ClientSeed is a client registration provided through the environment.
type ClientSeed struct {
	ClientID    string
	RedirectURI string
}

// RedisConfig holds connection settings for the Redis-backed handover store.
// An empty URL means Redis is not configured.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds connection settings for the Postgres-backed stores.
// An empty URL means Postgres is not configured.
type DatabaseConfig struct {
	URL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("HANDOVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("HANDOVER_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	defaultClientID := os.Getenv("HANDOVER_DEFAULT_CLIENT_ID")
	if defaultClientID == "" {
		defaultClientID = "consumer-web"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("HANDOVER_ISSUER")
	if issuer == "" {
		issuer = "handover"
	}

	cookieName := os.Getenv("HANDOVER_SESSION_COOKIE")
	if cookieName == "" {
		cookieName = "handover-session"
	}

	return Server{
		Addr:              addr,
		BaseURL:           baseURL,
		HandoverTTL:       durationFromEnv("HANDOVER_TTL", 5*time.Minute),
		SweepInterval:     durationFromEnv("HANDOVER_SWEEP_INTERVAL", time.Minute),
		DefaultClientID:   defaultClientID,
		JWTSigningKey:     jwtSigningKey,
		Issuer:            issuer,
		SessionCookieName: cookieName,
		SessionTTL:        durationFromEnv("HANDOVER_SESSION_TTL", 30*time.Minute),
		SessionSecure:     os.Getenv("HANDOVER_SESSION_INSECURE") != "true",
		Clients:           clientsFromEnv(os.Getenv("HANDOVER_CLIENTS")),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intFromEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intFromEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationFromEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationFromEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationFromEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}
}

func clientsFromEnv(raw string) []ClientSeed {
	if raw == "" {
		return nil
	}
	var seeds []ClientSeed
	for _, pair := range strings.Split(raw, ",") {
		clientID, redirectURI, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || clientID == "" || redirectURI == "" {
			continue
		}
		seeds = append(seeds, ClientSeed{ClientID: clientID, RedirectURI: redirectURI})
	}
	return seeds
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
