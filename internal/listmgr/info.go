package listmgr

import (
	"context"
	"net/http"

	"github.com/durka/mastodonlm/internal/mastodon"

	"github.com/gin-gonic/gin"
)

// follower is a followed account annotated with the ids of the lists
// it appears on. Embedding keeps the account fields flat in the JSON,
// with ids in their decimal string form.
type follower struct {
	mastodon.Account
	Lists []mastodon.ID `json:"lists"`
}

// meInfo is the account summary the front-end shows in its header.
type meInfo struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Acct        string `json:"acct"` // user@domain
}

// Info returns everything the front-end needs in one shot: the lists,
// the followed accounts with their list memberships, and a summary of
// the logged-in account.
func (h *Handler) Info(c *gin.Context) {
	sess := h.requireSession(c)
	if sess == nil {
		return
	}

	client, err := h.newClient(sess.Domain, sess.Token)
	if err != nil {
		serverError(c)
		return
	}

	ctx := c.Request.Context()

	me, err := client.Me(ctx)
	if err != nil {
		writeMeError(c, err)
		return
	}

	lists, err := client.Lists(ctx)
	if err != nil {
		serverError(c)
		return
	}

	followers, err := loadFollowers(ctx, client, me.ID, lists)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lists":     lists,
		"followers": followers,
		"me":        h.meSummary(c, me),
	})
}

// Following returns just the followed accounts with list memberships.
func (h *Handler) Following(c *gin.Context) {
	sess := h.requireSession(c)
	if sess == nil {
		return
	}

	client, err := h.newClient(sess.Domain, sess.Token)
	if err != nil {
		serverError(c)
		return
	}

	ctx := c.Request.Context()

	me, err := client.Me(ctx)
	if err != nil {
		writeMeError(c, err)
		return
	}

	lists, err := client.Lists(ctx)
	if err != nil {
		serverError(c)
		return
	}

	followers, err := loadFollowers(ctx, client, me.ID, lists)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

// Lists returns just the lists and the logged-in account summary.
func (h *Handler) Lists(c *gin.Context) {
	sess := h.requireSession(c)
	if sess == nil {
		return
	}

	client, err := h.newClient(sess.Domain, sess.Token)
	if err != nil {
		serverError(c)
		return
	}

	ctx := c.Request.Context()

	me, err := client.Me(ctx)
	if err != nil {
		writeMeError(c, err)
		return
	}

	lists, err := client.Lists(ctx)
	if err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lists": lists,
		"me":    h.meSummary(c, me),
	})
}

// loadFollowers drains the full followed set, then for each list
// drains its membership and annotates followed accounts with the lists
// they are on. Members the caller does not follow are skipped without
// comment; lists routinely contain accounts that were unfollowed
// later.
func loadFollowers(
	ctx context.Context,
	client API,
	meID mastodon.ID,
	lists []mastodon.List,
) ([]*follower, error) {

	accounts, err := mastodon.Drain(func(maxID string) ([]mastodon.Account, string, error) {
		return client.Following(ctx, meID, maxID)
	})
	if err != nil {
		return nil, err
	}

	followers := make([]*follower, 0, len(accounts))
	byID := make(map[mastodon.ID]*follower, len(accounts))
	for _, a := range accounts {
		f := &follower{Account: a, Lists: []mastodon.ID{}}
		followers = append(followers, f)
		byID[a.ID] = f
	}

	for _, l := range lists {
		listID := l.ID
		members, err := mastodon.Drain(func(maxID string) ([]mastodon.Account, string, error) {
			return client.ListAccounts(ctx, listID, maxID)
		})
		if err != nil {
			return nil, err
		}

		for _, m := range members {
			if f, ok := byID[m.ID]; ok {
				f.Lists = append(f.Lists, listID)
			}
		}
	}

	return followers, nil
}

// meSummary builds the logged-in account summary. The domain is re-read
// from the store so that a session that vanished mid-request degrades
// to a bare handle instead of failing the whole response.
func (h *Handler) meSummary(c *gin.Context, me *mastodon.Account) meInfo {
	domain := ""
	if id, ok := h.sessionID(c); ok {
		if sess, err := h.store.Get(c.Request.Context(), id); err == nil && sess != nil {
			domain = sess.Domain
		}
	}

	return meInfo{
		Username:    me.Username,
		DisplayName: me.DisplayName,
		Acct:        me.Acct + "@" + domain,
	}
}
