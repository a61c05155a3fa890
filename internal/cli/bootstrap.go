package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"promptgen-backend/config"
	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/database"
	"promptgen-backend/internal/session"
	"promptgen-backend/internal/store"
	"promptgen-backend/internal/utils"
	"promptgen-backend/pkg/logger"
)

const outboundTimeout = 30 * time.Second

// loadConfig reads and checks the environment, then starts the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func newHTTPClient() *http.Client {
	return utils.NewHTTPClient(outboundTimeout)
}

func newAuthenticator(cfg *config.Config, httpClient *http.Client) (auth.Authenticator, error) {
	switch cfg.AuthMode {
	case config.AuthModeRedirect:
		oauthCfg := auth.NewOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		return auth.NewRedirectAuthenticator(oauthCfg, httpClient), nil
	case config.AuthModeLoopback:
		return newLoopbackAuthenticator(cfg, httpClient, nil), nil
	}
	return nil, fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
}

func newLoopbackAuthenticator(cfg *config.Config, httpClient *http.Client, open auth.Opener) *auth.LoopbackAuthenticator {
	// The redirect URL is filled in from the bound listener.
	oauthCfg := auth.NewOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, "")
	return auth.NewLoopbackAuthenticator(oauthCfg, auth.NewFileCredentialStore(cfg.TokenFile), cfg.LoopbackAddr, open, httpClient)
}

// newRecordStores opens the prompt log backend. The returned func releases it.
func newRecordStores(cfg *config.Config, httpClient *http.Client) (store.Factory, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSheets:
		return store.SheetsFactory(httpClient, cfg.SpreadsheetID, cfg.SheetName), noopClose, nil
	case config.StoreDriverSQLite:
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		st, err := store.NewSQLStore(db)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return store.StaticFactory(st), sqlDB.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.SessionDriver {
	case config.SessionDriverRedis:
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), client.Close, nil
	case config.SessionDriverMemory:
		return session.NewMemoryStore(), noopClose, nil
	}
	return nil, nil, fmt.Errorf("unsupported SESSION_DRIVER %q", cfg.SessionDriver)
}

func noopClose() error { return nil }
