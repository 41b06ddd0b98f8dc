package session

import (
	"net/http"
	"strings"
)

const (
	CookieName = "list-manager-cookie"
)

// ParseCookieHeader does a simple parse of a raw Cookie header,
// splitting on ";" and then on the first "=" of each pair. Values may
// themselves contain "=" or ":" (session ids are uuid URNs), which is
// why this does not round-trip through http.Cookie.
func ParseCookieHeader(raw string) map[string]string {
	res := map[string]string{}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		res[name] = val
	}
	return res
}

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// OptionsForHost picks cookie attributes based on the serving host.
// Behind an API gateway the cookie must cross sites, so it needs
// SameSite=None and Secure; during local development it must not.
func OptionsForHost(host string) CookieOptions {
	if strings.HasSuffix(host, "amazonaws.com") {
		return CookieOptions{
			Domain:   "amazonaws.com",
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		}
	}
	return CookieOptions{
		Domain:   "localhost",
		SameSite: http.SameSiteDefaultMode,
	}
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(TTL.Seconds()),
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
