package listmgr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The mutation handlers all share one shape: resolve the session, make
// exactly one remote call with the caller's identifiers passed through
// verbatim, and answer with a bare acknowledgement. The remote server
// is the sole judge of whether the identifiers mean anything.

func (h *Handler) CreateList(c *gin.Context) {
	h.mutate(c, func(client API) error {
		_, err := client.CreateList(c.Request.Context(), c.Query("list_name"))
		return err
	})
}

func (h *Handler) DeleteList(c *gin.Context) {
	h.mutate(c, func(client API) error {
		return client.DeleteList(c.Request.Context(), c.Query("list_id"))
	})
}

func (h *Handler) AddToList(c *gin.Context) {
	h.mutate(c, func(client API) error {
		return client.AddListAccounts(c.Request.Context(), c.Query("list_id"), c.Query("account_id"))
	})
}

func (h *Handler) RemoveFromList(c *gin.Context) {
	h.mutate(c, func(client API) error {
		return client.RemoveListAccounts(c.Request.Context(), c.Query("list_id"), c.Query("account_id"))
	})
}

func (h *Handler) mutate(c *gin.Context, op func(client API) error) {
	sess := h.requireSession(c)
	if sess == nil {
		return
	}

	client, err := h.newClient(sess.Domain, sess.Token)
	if err != nil {
		serverError(c)
		return
	}

	if err := op(client); err != nil {
		serverError(c)
		return
	}

	c.String(http.StatusOK, "OK")
}
