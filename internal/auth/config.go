package auth

import (
	"os"
	"time"
)

// Config holds auth configuration
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// DefaultTokenTTL is the fixed identity-token lifetime.
const DefaultTokenTTL = 2 * time.Hour

// LoadConfig reads config from env with sensible defaults.
// You can override with AUTH_SECRET and AUTH_TOKEN_TTL.
func LoadConfig() Config {
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		secret = "dev-only-health-hub-secret"
	}
	ttl := DefaultTokenTTL
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	return Config{
		Secret:   secret,
		TokenTTL: ttl,
	}
}
