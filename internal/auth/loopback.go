package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"promptgen-backend/internal/session"
	"promptgen-backend/pkg/logger"
)

// CallbackPath is where the loopback listener receives the provider redirect.
const CallbackPath = "/oauth2/callback"

// Opener sends the user to the consent page.
type Opener func(authURL string) error

// LoopbackAuthenticator runs the local loopback flow. One credential is shared
// by every session and kept in a CredentialStore.
type LoopbackAuthenticator struct {
	config     *oauth2.Config
	creds      CredentialStore
	listenAddr string
	open       Opener
	httpClient *http.Client
	log        *zap.Logger

	// consent serialises interactive logins.
	consent sync.Mutex
}

func NewLoopbackAuthenticator(config *oauth2.Config, creds CredentialStore, listenAddr string, open Opener, httpClient *http.Client) *LoopbackAuthenticator {
	if open == nil {
		open = OpenBrowser
	}
	return &LoopbackAuthenticator{
		config:     config,
		creds:      creds,
		listenAddr: listenAddr,
		open:       open,
		httpClient: httpClient,
		log:        logger.Named("auth.loopback"),
	}
}

// Authenticate uses the stored credential, refreshing it when expired, and
// falls back to an interactive login when there is none. sess may be nil.
func (a *LoopbackAuthenticator) Authenticate(ctx context.Context, sess *session.Session, _ url.Values) (*Result, error) {
	ctx = withHTTPClient(ctx, a.httpClient)

	tok, err := a.storedToken(ctx)
	if errors.Is(err, ErrNoCredential) {
		setState(sess, StateAwaitingConsent)
		tok, err = a.loginIfMissing(ctx)
	}
	if err != nil {
		setState(sess, StateNoCredential)
		return &Result{State: StateNoCredential}, err
	}

	setState(sess, StateAuthenticated)
	return &Result{State: StateAuthenticated, TokenSource: a.tokenSource(ctx, tok)}, nil
}

func (a *LoopbackAuthenticator) Forget(_ context.Context, sess *session.Session) error {
	setState(sess, StateNoCredential)
	return a.creds.Clear()
}

// storedToken returns a usable stored credential. Expired credentials are
// refreshed and saved; expired ones without a refresh token count as absent.
func (a *LoopbackAuthenticator) storedToken(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.creds.Load()
	if err != nil {
		return nil, err
	}
	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		a.log.Info("Stored credential expired without refresh token")
		return nil, ErrNoCredential
	}

	fresh, err := a.config.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh: %v", ErrExchange, err)
	}
	if err := a.creds.Save(fresh); err != nil {
		return nil, fmt.Errorf("save refreshed credential: %w", err)
	}
	a.log.Info("Stored credential refreshed")
	return fresh, nil
}

// Login opens the consent page, waits for the redirect on the loopback
// listener, exchanges the code and stores the credential.
func (a *LoopbackAuthenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	a.consent.Lock()
	defer a.consent.Unlock()
	return a.login(withHTTPClient(ctx, a.httpClient))
}

// loginIfMissing waits for any login in progress and only asks for consent if
// the store is still empty afterwards.
func (a *LoopbackAuthenticator) loginIfMissing(ctx context.Context) (*oauth2.Token, error) {
	a.consent.Lock()
	defer a.consent.Unlock()

	tok, err := a.storedToken(ctx)
	if !errors.Is(err, ErrNoCredential) {
		return tok, err
	}
	return a.login(ctx)
}

func (a *LoopbackAuthenticator) login(ctx context.Context) (*oauth2.Token, error) {

	ln, err := net.Listen("tcp", a.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("start loopback listener: %w", err)
	}

	// The redirect must name the port actually bound.
	cfg := *a.config
	cfg.RedirectURL = "http://" + ln.Addr().String() + CallbackPath

	state, err := NewState()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		code, err := readCallback(r.URL.Query(), state)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			select {
			case errCh <- err:
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(loopbackSuccessPage))
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := AuthCodeURL(&cfg, state)
	a.log.Info("Waiting for consent", zap.String("auth_url", authURL), zap.String("callback", cfg.RedirectURL))
	if err := a.open(authURL); err != nil {
		a.log.Warn("Could not open browser, visit the URL manually", zap.String("auth_url", authURL), zap.Error(err))
	}

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	if err := a.creds.Save(tok); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}
	a.log.Info("Credential stored")
	return tok, nil
}

func (a *LoopbackAuthenticator) tokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return newPersistingTokenSource(a.config.TokenSource(ctx, tok), tok, a.creds.Save)
}

func readCallback(q url.Values, expectedState string) (string, error) {
	if reason := q.Get("error"); reason != "" {
		return "", fmt.Errorf("%w: %s", ErrConsentDenied, reason)
	}
	if q.Get("state") != expectedState {
		return "", ErrStateMismatch
	}
	code := q.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: no code received", ErrExchange)
	}
	return code, nil
}

const loopbackSuccessPage = `<html>
<head><title>Authorized</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1>Authorization complete</h1>
<p>You can close this tab and return to the prompt generator.</p>
<script>window.close();</script>
</body>
</html>`
