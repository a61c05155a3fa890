package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"golang.org/x/oauth2"
)

// fakeProvider is a token endpoint that records the grants it receives.
type fakeProvider struct {
	mu     sync.Mutex
	grants []url.Values
	fail   bool
	next   int
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	p.grants = append(p.grants, r.PostForm)
	p.next++
	n := p.next
	fail := p.fail
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":  "access-" + strconv.Itoa(n),
		"refresh_token": "refresh-token",
		"token_type":    "Bearer",
		"expires_in":    3600,
	})
}

func (p *fakeProvider) Grants() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.grants...)
}

func newFakeProvider(t *testing.T) (*fakeProvider, *oauth2.Config) {
	p := &fakeProvider{}
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)

	cfg := NewOAuthConfig("client-id", "client-secret", "http://localhost:8080/")
	cfg.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return p, cfg
}
