// Package auth obtains the delegated Google credential the record store is
// called with. Two flows are supported: the browser redirect flow, which keeps
// the credential on the user's session, and the local loopback flow, which
// keeps it on disk across restarts.
package auth

import (
	"context"
	"errors"
	"net/url"

	"golang.org/x/oauth2"

	"promptgen-backend/internal/session"
)

// State is a step of the authentication handshake.
type State string

const (
	StateNoCredential    State = "NO_CREDENTIAL"
	StateAwaitingConsent State = "AWAITING_USER_CONSENT"
	StateCodeReceived    State = "CODE_RECEIVED"
	StateExchanging      State = "EXCHANGING"
	StateAuthenticated   State = "AUTHENTICATED"
)

var (
	ErrNoCredential  = errors.New("no credential available")
	ErrExchange      = errors.New("token exchange failed")
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrConsentDenied = errors.New("authorization was denied")
)

// Result is where Authenticate left the handshake.
type Result struct {
	State State
	// AuthURL is the consent page to send the user to while awaiting consent.
	AuthURL string
	// TokenSource is set once authenticated.
	TokenSource oauth2.TokenSource
	// Rerun asks the caller to reload the page without the callback query.
	Rerun bool
}

// Halted reports whether the interaction must stop until the user acts.
func (r *Result) Halted() bool {
	return r == nil || r.State != StateAuthenticated
}

type Authenticator interface {
	// Authenticate advances the handshake for sess. callback is the query of
	// the current request; a "code" in it completes a pending redirect.
	Authenticate(ctx context.Context, sess *session.Session, callback url.Values) (*Result, error)
	// Forget drops the credential held for sess.
	Forget(ctx context.Context, sess *session.Session) error
}

func setState(sess *session.Session, s State) {
	if sess != nil {
		sess.AuthState = string(s)
	}
}
