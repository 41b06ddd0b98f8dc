package mastodon

import (
	"golang.org/x/oauth2"
)

// Scopes is the fixed permission set this service asks for: everything
// needed to read follows and manage lists, nothing more.
var Scopes = []string{
	"read:lists",
	"read:follows",
	"read:accounts",
	"write:lists",
}

// OAuthConfig builds the oauth2 configuration for one Mastodon server.
// Mastodon exposes plain OAuth 2.0 endpoints at fixed paths under the
// server root.
func OAuthConfig(domain, clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://" + domain + "/oauth/authorize",
			TokenURL: "https://" + domain + "/oauth/token",
		},
	}
}
