package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SpreadsheetsScope is the only scope requested: append and read on sheets.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

var Scopes = []string{SpreadsheetsScope}

// NewOAuthConfig builds the Google client configuration.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}

// AuthCodeURL asks for offline access and forces the consent screen so a
// refresh token is always issued.
func AuthCodeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// NewState returns a random OAuth state nonce.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CallbackURL rebuilds the URL the provider redirected to from the redirect
// base and the query the page received.
func CallbackURL(redirectBase string, query url.Values) string {
	sep := "?"
	if strings.Contains(redirectBase, "?") {
		sep = "&"
	}
	return redirectBase + sep + query.Encode()
}

// withHTTPClient routes token endpoint calls through client.
func withHTTPClient(ctx context.Context, client *http.Client) context.Context {
	if client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, client)
}
