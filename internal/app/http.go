package app

import (
	"context"

	"github.com/durka/mastodonlm/internal/apps"
	"github.com/durka/mastodonlm/internal/config"
	"github.com/durka/mastodonlm/internal/listmgr"
	"github.com/durka/mastodonlm/internal/mastodon"
	"github.com/durka/mastodonlm/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)

	newClient := func(domain, token string) (listmgr.API, error) {
		return mastodon.ForDomain(domain, token)
	}

	registry := apps.NewRegistry(infra.DB, registerApp)

	handler := listmgr.NewHandler(
		sessionStore,
		newClient,
		registry,
		listmgr.Options{
			DefaultDomain:     cfg.DefaultDomain,
			ClientID:          cfg.ClientID,
			ClientSecret:      cfg.ClientSecret,
			LocalOrigin:       cfg.LocalOrigin,
			LocalCallbackURL:  cfg.LocalCallbackURL,
			PublicCallbackURL: cfg.PublicCallbackURL,
		},
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

// registerApp creates an OAuth app on a Mastodon server we have not
// talked to before.
func registerApp(ctx context.Context, domain, redirectURIs string) (string, string, error) {
	client, err := mastodon.ForDomain(domain, "")
	if err != nil {
		return "", "", err
	}

	app, err := client.RegisterApp(ctx, "mastodonlm", redirectURIs, mastodon.Scopes)
	if err != nil {
		return "", "", err
	}

	return app.ClientID, app.ClientSecret, nil
}
