package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"promptgen-backend/internal/session"
)

// approvingOpener plays the user: it follows the consent URL straight back to
// the loopback callback with a code.
func approvingOpener(t *testing.T, code string) Opener {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		go func() {
			resp, err := http.Get(q.Get("redirect_uri") + "?code=" + code + "&state=" + url.QueryEscape(q.Get("state")))
			if err != nil {
				t.Errorf("callback request: %v", err)
				return
			}
			resp.Body.Close()
		}()
		return nil
	}
}

func failIfOpened(t *testing.T) Opener {
	return func(string) error {
		t.Error("browser should not be opened")
		return errors.New("unexpected")
	}
}

func TestLoopbackUsesValidStoredCredential(t *testing.T) {
	provider, cfg := newFakeProvider(t)
	creds := NewMemoryCredentialStore(&oauth2.Token{
		AccessToken: "stored",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	})
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", failIfOpened(t), nil)
	sess := session.New()

	res, err := a.Authenticate(context.Background(), sess, nil)
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, res.State)
	assert.Equal(t, string(StateAuthenticated), sess.AuthState)

	tok, err := res.TokenSource.Token()
	assert.NoError(t, err)
	assert.Equal(t, "stored", tok.AccessToken)
	assert.Empty(t, provider.Grants())
}

func TestLoopbackRefreshesExpiredCredential(t *testing.T) {
	provider, cfg := newFakeProvider(t)
	creds := NewMemoryCredentialStore(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(-time.Minute),
	})
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", failIfOpened(t), nil)

	res, err := a.Authenticate(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, res.State)

	saved, err := creds.Load()
	assert.NoError(t, err)
	assert.Equal(t, "access-1", saved.AccessToken)
	assert.Equal(t, "refresh_token", provider.Grants()[0].Get("grant_type"))
}

func TestLoopbackRefreshFailureHalts(t *testing.T) {
	provider, cfg := newFakeProvider(t)
	provider.fail = true
	creds := NewMemoryCredentialStore(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked",
		Expiry:       time.Now().Add(-time.Minute),
	})
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", failIfOpened(t), nil)
	sess := session.New()

	res, err := a.Authenticate(context.Background(), sess, nil)
	assert.ErrorIs(t, err, ErrExchange)
	assert.True(t, res.Halted())
	assert.Equal(t, string(StateNoCredential), sess.AuthState)
	assert.Len(t, provider.Grants(), 1)
}

func TestLoopbackLoginCapturesCode(t *testing.T) {
	provider, cfg := newFakeProvider(t)
	creds := NewFileCredentialStore(filepath.Join(t.TempDir(), "token.json"))
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", approvingOpener(t, "loop-code"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := a.Authenticate(ctx, session.New(), nil)
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, res.State)

	grants := provider.Grants()
	assert.Len(t, grants, 1)
	assert.Equal(t, "loop-code", grants[0].Get("code"))
	assert.Contains(t, grants[0].Get("redirect_uri"), CallbackPath)

	saved, err := creds.Load()
	assert.NoError(t, err)
	assert.Equal(t, "access-1", saved.AccessToken)
	assert.Equal(t, "refresh-token", saved.RefreshToken)
}

func TestLoopbackExpiredWithoutRefreshStartsLogin(t *testing.T) {
	_, cfg := newFakeProvider(t)
	creds := NewMemoryCredentialStore(&oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Minute),
	})
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", approvingOpener(t, "again"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := a.Authenticate(ctx, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, res.State)
}

// filledAfterFirstLoad reports no credential once, then behaves as if another
// login saved one while the caller waited.
type filledAfterFirstLoad struct {
	*MemoryCredentialStore
	pending *oauth2.Token
	loads   int
}

func (f *filledAfterFirstLoad) Load() (*oauth2.Token, error) {
	f.loads++
	if f.loads == 1 {
		return nil, ErrNoCredential
	}
	if f.pending != nil {
		_ = f.MemoryCredentialStore.Save(f.pending)
		f.pending = nil
	}
	return f.MemoryCredentialStore.Load()
}

func TestLoopbackSkipsConsentWhenLoginFinishedWhileWaiting(t *testing.T) {
	provider, cfg := newFakeProvider(t)
	creds := &filledAfterFirstLoad{
		MemoryCredentialStore: NewMemoryCredentialStore(nil),
		pending:               &oauth2.Token{AccessToken: "from-other-login", Expiry: time.Now().Add(time.Hour)},
	}
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", failIfOpened(t), nil)
	sess := session.New()

	res, err := a.Authenticate(context.Background(), sess, nil)
	assert.NoError(t, err)
	assert.Equal(t, StateAuthenticated, res.State)
	assert.Equal(t, 2, creds.loads)
	assert.Empty(t, provider.Grants())

	tok, err := res.TokenSource.Token()
	assert.NoError(t, err)
	assert.Equal(t, "from-other-login", tok.AccessToken)
}

func TestLoopbackLoginCancelled(t *testing.T) {
	_, cfg := newFakeProvider(t)
	a := NewLoopbackAuthenticator(cfg, NewMemoryCredentialStore(nil), "127.0.0.1:0", func(string) error { return nil }, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Login(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoopbackForgetClearsStore(t *testing.T) {
	_, cfg := newFakeProvider(t)
	creds := NewMemoryCredentialStore(&oauth2.Token{AccessToken: "x"})
	a := NewLoopbackAuthenticator(cfg, creds, "127.0.0.1:0", nil, nil)

	assert.NoError(t, a.Forget(context.Background(), nil))
	_, err := creds.Load()
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestReadCallback(t *testing.T) {
	code, err := readCallback(url.Values{"code": {"c"}, "state": {"s"}}, "s")
	assert.NoError(t, err)
	assert.Equal(t, "c", code)

	_, err = readCallback(url.Values{"code": {"c"}, "state": {"x"}}, "s")
	assert.ErrorIs(t, err, ErrStateMismatch)

	_, err = readCallback(url.Values{"error": {"access_denied"}}, "s")
	assert.ErrorIs(t, err, ErrConsentDenied)

	_, err = readCallback(url.Values{"state": {"s"}}, "s")
	assert.ErrorIs(t, err, ErrExchange)
}
