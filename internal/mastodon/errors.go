package mastodon

import (
	"errors"
	"fmt"
)

// Kind classifies a remote API failure. Handlers map kinds onto HTTP
// responses instead of inspecting raw status codes or error strings.
type Kind int

const (
	// KindAPI is any remote rejection not covered by a more specific kind.
	KindAPI Kind = iota
	KindUnauthorized
	KindBadRequest
	KindServer
)

// Error is the only error type returned by Client for remote failures.
type Error struct {
	Kind       Kind
	StatusCode int
	Msg        string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("mastodon: remote returned %d", e.StatusCode)
	}
	return fmt.Sprintf("mastodon: remote returned %d: %s", e.StatusCode, e.Msg)
}

func kindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a remote credential rejection.
func IsUnauthorized(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindUnauthorized
}

// IsBadRequest reports whether the remote refused the request as malformed.
func IsBadRequest(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindBadRequest
}

// IsServerError reports whether the remote failed internally.
func IsServerError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindServer
}
