// Package session holds per-browser state: the cached OAuth credential, the
// pending OAuth state nonce and the form values between renders.
package session

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"

	"promptgen-backend/internal/models"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID string `json:"id"`
	// Token is the serialized OAuth credential; empty until authenticated.
	Token      map[string]string `json:"token,omitempty"`
	OAuthState string            `json:"oauth_state,omitempty"`
	AuthState  string            `json:"auth_state"`
	Form       models.FormValues `json:"form"`
	CreatedAt  time.Time         `json:"created_at"`
}

// New starts an unauthenticated session with an empty form.
func New() *Session {
	return &Session{
		ID:        uuid.New().String(),
		Form:      models.EmptyForm(),
		CreatedAt: time.Now(),
	}
}

// ClearForm resets every field to blank and the tone to its default.
func (s *Session) ClearForm() {
	s.Form = models.EmptyForm()
}

// Authenticated reports whether a credential is cached.
func (s *Session) Authenticated() bool {
	return len(s.Token) > 0
}

func (s *Session) clone() *Session {
	c := *s
	c.Token = maps.Clone(s.Token)
	return &c
}

type Store interface {
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
