package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const followingPageLimit = "80"

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one Mastodon server on behalf of one access token.
// All remote failures come back as *Error so callers can classify them
// without knowing HTTP.
type Client struct {
	client httpClient
	server *url.URL
	token  string
}

// New creates a client for the given server base URL ("https://host").
// client may be nil, in which case a default with a request timeout is
// used. token may be empty for unauthenticated calls (app registration).
func New(client httpClient, server string, token string) (*Client, error) {
	base, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("mastodon: bad server url %q: %w", server, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		client: client,
		server: base,
		token:  token,
	}, nil
}

// ForDomain creates a client for "https://<domain>".
func ForDomain(domain, token string) (*Client, error) {
	return New(nil, "https://"+domain, token)
}

type apiError struct {
	Error string `json:"error"`
}

// doAPI performs one API call. For GET and DELETE params go into the
// query string, otherwise they are form-encoded into the body. The
// response headers are returned so callers can read pagination links.
func (c *Client) doAPI(
	ctx context.Context,
	method string,
	path string,
	params url.Values,
	out any,
) (http.Header, error) {

	u := c.server.JoinPath(path)

	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
		u.RawQuery = params.Encode()
	default:
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("mastodon: bad response body: %w", err)
		}
	}

	return resp.Header, nil
}

func classify(status int, raw []byte) *Error {
	var ae apiError
	_ = json.Unmarshal(raw, &ae)

	e := &Error{StatusCode: status, Msg: ae.Error}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = KindBadRequest
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindAPI
	}
	return e
}

// Me returns the account the access token belongs to.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var acct Account
	if _, err := c.doAPI(ctx, http.MethodGet, "/api/v1/accounts/verify_credentials", nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// Following returns one page of the accounts that accountID follows,
// together with the cursor for the next page. An empty cursor means the
// last page has been reached.
func (c *Client) Following(ctx context.Context, accountID ID, maxID string) ([]Account, string, error) {
	params := url.Values{"limit": {followingPageLimit}}
	if maxID != "" {
		params.Set("max_id", maxID)
	}

	var accounts []Account
	header, err := c.doAPI(ctx, http.MethodGet, "/api/v1/accounts/"+accountID.String()+"/following", params, &accounts)
	if err != nil {
		return nil, "", err
	}
	return accounts, nextMaxID(header.Get("Link")), nil
}

// Lists returns all lists owned by the token's account. The endpoint is
// not paginated.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	var lists []List
	if _, err := c.doAPI(ctx, http.MethodGet, "/api/v1/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListAccounts returns one page of the accounts on a list, with the
// next-page cursor.
func (c *Client) ListAccounts(ctx context.Context, listID ID, maxID string) ([]Account, string, error) {
	params := url.Values{"limit": {followingPageLimit}}
	if maxID != "" {
		params.Set("max_id", maxID)
	}

	var accounts []Account
	header, err := c.doAPI(ctx, http.MethodGet, "/api/v1/lists/"+listID.String()+"/accounts", params, &accounts)
	if err != nil {
		return nil, "", err
	}
	return accounts, nextMaxID(header.Get("Link")), nil
}

// CreateList creates a new list with the given title.
func (c *Client) CreateList(ctx context.Context, title string) (*List, error) {
	var list List
	params := url.Values{"title": {title}}
	if _, err := c.doAPI(ctx, http.MethodPost, "/api/v1/lists", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList removes a list. The id is passed through verbatim; the
// server decides whether it is valid.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	_, err := c.doAPI(ctx, http.MethodDelete, "/api/v1/lists/"+url.PathEscape(listID), nil, nil)
	return err
}

// AddListAccounts puts accounts on a list. Ids are passed through
// verbatim.
func (c *Client) AddListAccounts(ctx context.Context, listID string, accountIDs ...string) error {
	params := url.Values{"account_ids[]": accountIDs}
	_, err := c.doAPI(ctx, http.MethodPost, "/api/v1/lists/"+url.PathEscape(listID)+"/accounts", params, nil)
	return err
}

// RemoveListAccounts takes accounts off a list. Ids are passed through
// verbatim.
func (c *Client) RemoveListAccounts(ctx context.Context, listID string, accountIDs ...string) error {
	params := url.Values{"account_ids[]": accountIDs}
	_, err := c.doAPI(ctx, http.MethodDelete, "/api/v1/lists/"+url.PathEscape(listID)+"/accounts", params, nil)
	return err
}

// RegisterApp registers an OAuth application with the server and
// returns its credentials. Requires no token.
func (c *Client) RegisterApp(ctx context.Context, name, redirectURIs string, scopes []string) (*App, error) {
	params := url.Values{
		"client_name":   {name},
		"redirect_uris": {redirectURIs},
		"scopes":        {strings.Join(scopes, " ")},
	}

	var app App
	if _, err := c.doAPI(ctx, http.MethodPost, "/api/v1/apps", params, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
