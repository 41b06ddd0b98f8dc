package config

import (
	"os"
)

type Config struct {
	AppPort string

	// OAuth app credentials for the default Mastodon server.
	DefaultDomain string
	ClientID      string
	ClientSecret  string

	// Redirect targets for the OAuth flow.
	LocalOrigin       string
	LocalCallbackURL  string
	PublicCallbackURL string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		DefaultDomain: getenv("MASTODON_DOMAIN", "hachyderm.io"),
		ClientID:      os.Getenv("MASTODON_CLIENT_ID"),
		ClientSecret:  os.Getenv("MASTODON_CLIENT_SECRET"),

		LocalOrigin:       getenv("LOCAL_ORIGIN", "http://localhost:3000"),
		LocalCallbackURL:  getenv("LOCAL_CALLBACK_URL", "http://localhost:3000/callback"),
		PublicCallbackURL: getenv("PUBLIC_CALLBACK_URL", "https://acbeers.github.io/mastodonlm/callback"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
