package auth

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"promptgen-backend/pkg/logger"
)

// EncodeToken flattens tok into string pairs for session storage.
func EncodeToken(tok *oauth2.Token) map[string]string {
	m := map[string]string{
		"access_token": tok.AccessToken,
		"token_type":   tok.TokenType,
	}
	if tok.RefreshToken != "" {
		m["refresh_token"] = tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		m["expiry"] = tok.Expiry.UTC().Format(time.RFC3339Nano)
	}
	return m
}

// DecodeToken reverses EncodeToken.
func DecodeToken(m map[string]string) (*oauth2.Token, error) {
	if m["access_token"] == "" && m["refresh_token"] == "" {
		return nil, ErrNoCredential
	}
	tok := &oauth2.Token{
		AccessToken:  m["access_token"],
		TokenType:    m["token_type"],
		RefreshToken: m["refresh_token"],
	}
	if raw := m["expiry"]; raw != "" {
		expiry, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		tok.Expiry = expiry
	}
	return tok, nil
}

// persistingSource hands out tokens from base and calls save whenever base
// returns a different access token, i.e. after a refresh.
type persistingSource struct {
	base oauth2.TokenSource
	save func(*oauth2.Token) error

	mu   sync.Mutex
	last string
}

func newPersistingTokenSource(base oauth2.TokenSource, current *oauth2.Token, save func(*oauth2.Token) error) oauth2.TokenSource {
	return &persistingSource{base: base, save: save, last: current.AccessToken}
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.save(tok); err != nil {
			logger.Log.Warn("Failed to persist refreshed token", zap.Error(err))
		}
	}
	return tok, nil
}
