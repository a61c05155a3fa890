package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"promptgen-backend/internal/session"
	"promptgen-backend/pkg/logger"
)

// RedirectAuthenticator runs the browser redirect flow: the consent page
// sends the user back to the app's own URL with a code, and the credential is
// cached on the session.
type RedirectAuthenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewRedirectAuthenticator uses httpClient, when set, for token endpoint calls.
func NewRedirectAuthenticator(config *oauth2.Config, httpClient *http.Client) *RedirectAuthenticator {
	return &RedirectAuthenticator{
		config:     config,
		httpClient: httpClient,
		log:        logger.Named("auth.redirect"),
	}
}

func (a *RedirectAuthenticator) Authenticate(ctx context.Context, sess *session.Session, callback url.Values) (*Result, error) {
	ctx = withHTTPClient(ctx, a.httpClient)

	if sess.Authenticated() {
		tok, err := DecodeToken(sess.Token)
		if err == nil {
			setState(sess, StateAuthenticated)
			return &Result{State: StateAuthenticated, TokenSource: a.tokenSource(ctx, sess, tok)}, nil
		}
		a.log.Warn("Dropping unreadable session credential", zap.String("session_id", sess.ID), zap.Error(err))
		sess.Token = nil
	}

	if callback.Get("code") == "" && callback.Get("error") == "" {
		return a.requestConsent(sess)
	}
	return a.exchange(ctx, sess, callback)
}

func (a *RedirectAuthenticator) Forget(_ context.Context, sess *session.Session) error {
	sess.Token = nil
	sess.OAuthState = ""
	setState(sess, StateNoCredential)
	return nil
}

func (a *RedirectAuthenticator) requestConsent(sess *session.Session) (*Result, error) {
	state, err := NewState()
	if err != nil {
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}
	sess.OAuthState = state
	setState(sess, StateAwaitingConsent)

	return &Result{
		State:   StateAwaitingConsent,
		AuthURL: AuthCodeURL(a.config, state),
	}, nil
}

func (a *RedirectAuthenticator) exchange(ctx context.Context, sess *session.Session, callback url.Values) (*Result, error) {
	setState(sess, StateCodeReceived)

	response, err := url.Parse(CallbackURL(a.config.RedirectURL, callback))
	if err != nil {
		return a.fail(sess, fmt.Errorf("%w: malformed callback: %v", ErrExchange, err))
	}
	query := response.Query()

	if reason := query.Get("error"); reason != "" {
		return a.fail(sess, fmt.Errorf("%w: %s", ErrConsentDenied, reason))
	}
	if sess.OAuthState == "" || query.Get("state") != sess.OAuthState {
		return a.fail(sess, ErrStateMismatch)
	}

	setState(sess, StateExchanging)
	tok, err := a.config.Exchange(ctx, query.Get("code"))
	if err != nil {
		return a.fail(sess, fmt.Errorf("%w: %v", ErrExchange, err))
	}

	sess.Token = EncodeToken(tok)
	sess.OAuthState = ""
	setState(sess, StateAuthenticated)
	a.log.Info("Session authenticated", zap.String("session_id", sess.ID))

	return &Result{
		State:       StateAuthenticated,
		TokenSource: a.tokenSource(ctx, sess, tok),
		Rerun:       true,
	}, nil
}

func (a *RedirectAuthenticator) fail(sess *session.Session, err error) (*Result, error) {
	sess.OAuthState = ""
	setState(sess, StateNoCredential)
	a.log.Warn("Authentication failed", zap.String("session_id", sess.ID), zap.Error(err))
	return &Result{State: StateNoCredential}, err
}

// tokenSource refreshes through the provider and writes refreshed tokens
// back onto the session.
func (a *RedirectAuthenticator) tokenSource(ctx context.Context, sess *session.Session, tok *oauth2.Token) oauth2.TokenSource {
	return newPersistingTokenSource(a.config.TokenSource(ctx, tok), tok, func(fresh *oauth2.Token) error {
		sess.Token = EncodeToken(fresh)
		return nil
	})
}
