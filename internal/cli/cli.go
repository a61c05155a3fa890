// Package cli wires the configuration, stores and authenticators into the
// promptgen commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"promptgen-backend/config"
	"promptgen-backend/internal/api"
	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/models"
	"promptgen-backend/internal/services"
	"promptgen-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func SetupCLI(rootCmd *cobra.Command) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prompt generator web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := cmd.Flags().GetString("addr")
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), addr)
		},
	}
	serveCmd.Flags().String("addr", "", "listen address, overrides SERVER_ADDR")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize with Google through a local browser and store the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), cmd.OutOrStdout())
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the prompt log, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, err := cmd.Flags().GetString("search")
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return runHistory(cmd.Context(), cmd.OutOrStdout(), search, limit)
		},
	}
	historyCmd.Flags().String("search", "", "only show rows with a field containing this text")
	historyCmd.Flags().Int("limit", 20, "maximum rows to print, 0 for all")

	rootCmd.AddCommand(serveCmd, loginCmd, historyCmd)
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if addr != "" {
		cfg.ServerAddr = addr
	}
	log := logger.Named("server")

	httpClient := newHTTPClient()
	authn, err := newAuthenticator(cfg, httpClient)
	if err != nil {
		return err
	}

	stores, closeStores, err := newRecordStores(cfg, httpClient)
	if err != nil {
		return err
	}
	defer closeStores()

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	router, err := api.NewRouter(api.Dependencies{
		Config:        cfg,
		Sessions:      sessions,
		Authenticator: authn,
		Stores:        stores,
		Prompts:       services.NewPromptService(),
	})
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", cfg.ServerAddr),
			zap.String("auth_mode", cfg.AuthMode),
			zap.String("store", cfg.StoreDriver),
			zap.String("sessions", cfg.SessionDriver),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runLogin(ctx context.Context, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	open := func(url string) error {
		fmt.Fprintf(out, "Open this URL to authorize:\n\n  %s\n\n", url)
		return auth.OpenBrowser(url)
	}
	authn := newLoopbackAuthenticator(cfg, newHTTPClient(), open)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := authn.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintf(out, "Credential saved to %s\n", cfg.TokenFile)
	return nil
}

func runHistory(ctx context.Context, out io.Writer, search string, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	httpClient := newHTTPClient()
	stores, closeStores, err := newRecordStores(cfg, httpClient)
	if err != nil {
		return err
	}
	defer closeStores()

	ts, err := historyTokenSource(ctx, cfg, httpClient, nil)
	if err != nil {
		return err
	}
	st, err := stores(ctx, ts)
	if err != nil {
		return err
	}

	history, err := services.NewPromptService().History(ctx, st, search)
	if err != nil {
		return err
	}
	printHistory(out, history, limit)
	return nil
}

// historyTokenSource returns the stored loopback credential when the log lives
// in a spreadsheet. Local stores need no credential.
func historyTokenSource(ctx context.Context, cfg *config.Config, httpClient *http.Client, open auth.Opener) (oauth2.TokenSource, error) {
	if cfg.StoreDriver != config.StoreDriverSheets {
		return nil, nil
	}
	res, err := newLoopbackAuthenticator(cfg, httpClient, open).Authenticate(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return res.TokenSource, nil
}

func printHistory(out io.Writer, h *models.History, limit int) {
	if h.Total == 0 {
		fmt.Fprintln(out, "No prompts have been saved yet.")
		return
	}
	if len(h.Rows) == 0 {
		fmt.Fprintf(out, "No prompts match %q.\n", h.Search)
		return
	}

	rows := h.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(out)
		}
		for _, col := range h.Columns {
			fmt.Fprintf(out, "%-9s %s\n", col+":", strings.ReplaceAll(row.Fields[col], "\n", "\n          "))
		}
	}
	fmt.Fprintf(out, "\nShowing %d of %d prompts.\n", len(rows), h.Total)
}
