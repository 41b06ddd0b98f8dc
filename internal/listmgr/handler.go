package listmgr

import (
	"context"
	"net/http"

	"github.com/durka/mastodonlm/internal/apps"
	"github.com/durka/mastodonlm/internal/logger"
	"github.com/durka/mastodonlm/internal/mastodon"
	"github.com/durka/mastodonlm/internal/session"

	"github.com/gin-gonic/gin"
)

// API is the slice of the Mastodon client the handlers use. Tests
// substitute a fake; production wiring passes *mastodon.Client.
type API interface {
	Me(ctx context.Context) (*mastodon.Account, error)
	Following(ctx context.Context, accountID mastodon.ID, maxID string) ([]mastodon.Account, string, error)
	Lists(ctx context.Context) ([]mastodon.List, error)
	ListAccounts(ctx context.Context, listID mastodon.ID, maxID string) ([]mastodon.Account, string, error)
	CreateList(ctx context.Context, title string) (*mastodon.List, error)
	DeleteList(ctx context.Context, listID string) error
	AddListAccounts(ctx context.Context, listID string, accountIDs ...string) error
	RemoveListAccounts(ctx context.Context, listID string, accountIDs ...string) error
}

// ClientFactory builds an authenticated API client for a session's
// home server and token.
type ClientFactory func(domain, token string) (API, error)

// AppResolver hands out OAuth app credentials for a Mastodon server.
type AppResolver interface {
	Ensure(ctx context.Context, domain, redirectURIs string) (*apps.Config, error)
}

// Options carries the static configuration the handlers need.
type Options struct {
	// Credentials for the default server; other domains go through the
	// app registry.
	DefaultDomain string
	ClientID      string
	ClientSecret  string

	LocalOrigin       string
	LocalCallbackURL  string
	PublicCallbackURL string
}

type exchangeFunc func(ctx context.Context, domain, clientID, clientSecret, redirectURL, code string) (string, error)

type Handler struct {
	store     session.Store
	newClient ClientFactory
	apps      AppResolver
	opts      Options
	exchange  exchangeFunc
}

func NewHandler(
	store session.Store,
	newClient ClientFactory,
	registry AppResolver,
	opts Options,
) *Handler {
	return &Handler{
		store:     store,
		newClient: newClient,
		apps:      registry,
		opts:      opts,
		exchange:  exchangeToken,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth", h.Auth)
	r.GET("/callback", h.Callback)
	r.POST("/logout", h.Logout)

	r.GET("/info", h.Info)
	r.GET("/following", h.Following)
	r.GET("/lists", h.Lists)

	r.POST("/create_list", h.CreateList)
	r.POST("/delete_list", h.DeleteList)
	r.POST("/add_to_list", h.AddToList)
	r.POST("/remove_from_list", h.RemoveFromList)
}

// sessionID extracts the session cookie value from the raw Cookie
// header, if any.
func (h *Handler) sessionID(c *gin.Context) (string, bool) {
	cookies := session.ParseCookieHeader(c.GetHeader("Cookie"))
	id, ok := cookies[session.CookieName]
	return id, ok && id != ""
}

// requireSession resolves the request's session or writes the
// no_cookie response and returns nil. A cookie that maps to nothing in
// the store is indistinguishable from no cookie at all.
func (h *Handler) requireSession(c *gin.Context) *session.Session {
	id, ok := h.sessionID(c)
	if !ok {
		noCookie(c)
		return nil
	}

	sess, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		logger.Error("session lookup failed", map[string]any{
			"error": err.Error(),
		})
		serverError(c)
		return nil
	}
	if sess == nil {
		noCookie(c)
		return nil
	}
	return sess
}

func noCookie(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"status": "no_cookie"})
}

func serverError(c *gin.Context) {
	c.String(http.StatusInternalServerError, "ERROR")
}

// writeMeError maps a failed "who am I" call: a credential rejection
// means the stored token is dead, which the client treats the same as
// having no cookie. Everything else is the remote's problem.
func writeMeError(c *gin.Context, err error) {
	if mastodon.IsUnauthorized(err) {
		noCookie(c)
		return
	}
	logger.Error("remote api call failed", map[string]any{
		"error": err.Error(),
	})
	serverError(c)
}
