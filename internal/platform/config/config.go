package config

import (
	"os"
	"strings"
	"time"
)

// App captures process-level configuration. One process hosts one user
// session (the browser-tab equivalent), so there is no per-request tenancy
// here, just where the backend lives and which optional backends are on.
type App struct {
	Addr       string
	BackendURL string

	// RedisURL switches the session store from in-memory to redis when set.
	RedisURL string
	// SessionScope keys the redis session entry; defaults to a fresh scope
	// per process, which is what gives the store its tab-scoped lifetime.
	SessionScope string
	SessionTTL   time.Duration

	// KafkaBrokers/AuditTopic enable the admin audit publisher when set.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() App {
	cfg := App{
		Addr:         getenv("AURACARE_ADDR", ":8080"),
		BackendURL:   getenv("AURACARE_BACKEND_URL", "http://localhost:5000"),
		RedisURL:     os.Getenv("AURACARE_REDIS_URL"),
		SessionScope: os.Getenv("AURACARE_SESSION_SCOPE"),
		SessionTTL:   12 * time.Hour,
		AuditTopic:   getenv("AURACARE_AUDIT_TOPIC", "auracare.admin.audit"),
	}
	if brokers := os.Getenv("AURACARE_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if ttl := os.Getenv("AURACARE_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.SessionTTL = d
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
