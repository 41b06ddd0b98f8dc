package listmgr

import (
	"context"
	"net/http"
	"time"

	"github.com/durka/mastodonlm/internal/apps"
	"github.com/durka/mastodonlm/internal/logger"
	"github.com/durka/mastodonlm/internal/mastodon"
	"github.com/durka/mastodonlm/internal/session"

	"github.com/gin-gonic/gin"
)

// Auth starts an OAuth flow. If the caller already holds a session
// whose token the remote still accepts, it short-circuits without
// building an authorization URL.
func (h *Handler) Auth(c *gin.Context) {
	ctx := c.Request.Context()

	if id, ok := h.sessionID(c); ok {
		if sess, err := h.store.Get(ctx, id); err == nil && sess != nil {
			if client, err := h.newClient(sess.Domain, sess.Token); err == nil {
				if _, err := client.Me(ctx); err == nil {
					c.JSON(http.StatusOK, gin.H{"status": "OK"})
					return
				}
				// Token rejected: fall through and start a fresh flow.
			}
		}
	}

	domain := h.domainParam(c)
	redirectURL := h.redirectURL(c.GetHeader("Origin"))

	appCfg, err := h.appConfig(ctx, domain, redirectURL)
	if err != nil {
		logger.Error("app config resolution failed", map[string]any{
			"domain": domain,
			"error":  err.Error(),
		})
		serverError(c)
		return
	}

	authURL := mastodon.OAuthConfig(
		domain,
		appCfg.ClientID,
		appCfg.ClientSecret,
		redirectURL,
	).AuthCodeURL("")

	c.JSON(http.StatusOK, gin.H{"url": authURL})
}

// Callback finishes the OAuth flow: exchanges the code for a token,
// mints a session, and hands the session id back as a cookie.
func (h *Handler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	if code == "" {
		serverError(c)
		return
	}

	domain := h.domainParam(c)
	redirectURL := h.redirectURL(c.GetHeader("Origin"))

	appCfg, err := h.appConfig(ctx, domain, redirectURL)
	if err != nil {
		serverError(c)
		return
	}

	token, err := h.exchange(ctx, domain, appCfg.ClientID, appCfg.ClientSecret, redirectURL, code)
	if err != nil {
		logger.Error("token exchange failed", map[string]any{
			"domain": domain,
			"error":  err.Error(),
		})
		serverError(c)
		return
	}

	sessionID := session.GenerateID()
	now := time.Now()

	sess := session.Session{
		SessionID: sessionID,
		Token:     token,
		Domain:    domain,
		CreatedAt: now,
		ExpiresAt: now.Add(session.TTL),
	}

	if err := h.store.Create(ctx, sess); err != nil {
		logger.Error("failed to persist session", map[string]any{
			"error": err.Error(),
		})
		serverError(c)
		return
	}

	session.SetCookie(c.Writer, sessionID, session.OptionsForHost(c.Request.Host))
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Logout drops the session, if any, and clears the cookie. Always
// succeeds.
func (h *Handler) Logout(c *gin.Context) {
	if id, ok := h.sessionID(c); ok {
		_ = h.store.Delete(c.Request.Context(), id)
	}
	session.ClearCookie(c.Writer, session.OptionsForHost(c.Request.Host))
	c.Status(http.StatusNoContent)
}

func (h *Handler) domainParam(c *gin.Context) string {
	if d := c.Query("domain"); d != "" {
		return d
	}
	return h.opts.DefaultDomain
}

// redirectURL picks the OAuth redirect target: local development gets
// the local callback, everyone else the fixed public one.
func (h *Handler) redirectURL(origin string) string {
	if origin == h.opts.LocalOrigin {
		return h.opts.LocalCallbackURL
	}
	return h.opts.PublicCallbackURL
}

// appConfig resolves OAuth app credentials for a domain. The default
// server uses the statically configured app; any other server goes
// through the registry.
func (h *Handler) appConfig(ctx context.Context, domain, redirectURL string) (*apps.Config, error) {
	if domain == h.opts.DefaultDomain && h.opts.ClientID != "" {
		return &apps.Config{
			Domain:       domain,
			ClientID:     h.opts.ClientID,
			ClientSecret: h.opts.ClientSecret,
		}, nil
	}
	return h.apps.Ensure(ctx, domain, redirectURL)
}

func exchangeToken(ctx context.Context, domain, clientID, clientSecret, redirectURL, code string) (string, error) {
	cfg := mastodon.OAuthConfig(domain, clientID, clientSecret, redirectURL)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}
