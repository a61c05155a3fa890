// Package store persists prompt records. The log is append-only: a Store can
// add one row and read every row back, nothing else.
package store

import (
	"context"

	"golang.org/x/oauth2"

	"promptgen-backend/internal/models"
)

type Store interface {
	// Append adds one record as the last row of the log.
	Append(ctx context.Context, rec models.PromptRecord) error
	// ReadAll returns every row of the log, header row first. An empty log
	// returns no rows at all.
	ReadAll(ctx context.Context) ([][]string, error)
}

// Factory opens a Store on behalf of an authenticated user.
type Factory func(ctx context.Context, ts oauth2.TokenSource) (Store, error)

// StaticFactory returns s for every caller; used by stores that need no
// delegated credential.
func StaticFactory(s Store) Factory {
	return func(context.Context, oauth2.TokenSource) (Store, error) {
		return s, nil
	}
}
