package apps

import (
	"context"
	"database/sql"

	"github.com/durka/mastodonlm/internal/db"
	"github.com/durka/mastodonlm/internal/logger"
)

// Config holds the OAuth app credentials this service uses against one
// Mastodon server.
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
}

// RegisterFunc registers a new OAuth application with the given server
// and returns its credentials.
type RegisterFunc func(ctx context.Context, domain, redirectURIs string) (clientID, clientSecret string, err error)

// Registry hands out per-domain app credentials, registering an app
// with the remote server the first time a domain is seen.
type Registry struct {
	db       *db.DB
	register RegisterFunc
}

func NewRegistry(database *db.DB, register RegisterFunc) *Registry {
	return &Registry{
		db:       database,
		register: register,
	}
}

// Ensure returns the stored credentials for domain, creating and
// persisting them via remote registration when none exist yet.
func (r *Registry) Ensure(ctx context.Context, domain, redirectURIs string) (*Config, error) {

	// 1. Try stored credentials
	var cfg Config
	err := r.db.QueryRowContext(ctx, `
		SELECT domain, client_id, client_secret
		FROM apps
		WHERE domain = $1
	`, domain).Scan(&cfg.Domain, &cfg.ClientID, &cfg.ClientSecret)

	if err == nil {
		return &cfg, nil
	}

	if err != sql.ErrNoRows {
		return nil, err
	}

	// 2. First sight of this server: register an app with it
	clientID, clientSecret, err := r.register(ctx, domain, redirectURIs)
	if err != nil {
		return nil, err
	}

	logger.Info("registered oauth app", map[string]any{
		"domain": domain,
	})

	// 3. Persist for next time
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO apps (domain, client_id, client_secret)
		VALUES ($1, $2, $3)
		ON CONFLICT (domain) DO NOTHING
	`, domain, clientID, clientSecret)

	if err != nil {
		return nil, err
	}

	// A concurrent Ensure may have stored its own registration first.
	// The stored row is what callback will read later, so it wins over
	// the credentials this call just registered.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var stored Config
		err := r.db.QueryRowContext(ctx, `
			SELECT domain, client_id, client_secret
			FROM apps
			WHERE domain = $1
		`, domain).Scan(&stored.Domain, &stored.ClientID, &stored.ClientSecret)
		if err != nil {
			return nil, err
		}
		return &stored, nil
	}

	return &Config{
		Domain:       domain,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, nil
}
