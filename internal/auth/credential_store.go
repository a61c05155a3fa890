package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// CredentialStore persists the loopback flow's credential.
type CredentialStore interface {
	// Load returns ErrNoCredential when nothing has been saved.
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
	Clear() error
}

// FileCredentialStore keeps the credential as JSON in a user-only file.
type FileCredentialStore struct {
	path string
	mu   sync.Mutex
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (f *FileCredentialStore) Load() (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoCredential
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode credential %s: %w", f.path, err)
	}
	return &tok, nil
}

func (f *FileCredentialStore) Save(tok *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileCredentialStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryCredentialStore is a CredentialStore without disk I/O.
type MemoryCredentialStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

func NewMemoryCredentialStore(tok *oauth2.Token) *MemoryCredentialStore {
	return &MemoryCredentialStore{tok: tok}
}

func (m *MemoryCredentialStore) Load() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == nil {
		return nil, ErrNoCredential
	}
	tok := *m.tok
	return &tok, nil
}

func (m *MemoryCredentialStore) Save(tok *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *tok
	m.tok = &saved
	return nil
}

func (m *MemoryCredentialStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = nil
	return nil
}
