package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/justsurfingit/job-jotter/internal/config"
	"github.com/justsurfingit/job-jotter/internal/database"
	"github.com/justsurfingit/job-jotter/internal/dtos"
	"github.com/justsurfingit/job-jotter/internal/handlers"
	"github.com/justsurfingit/job-jotter/internal/repository"
	"github.com/justsurfingit/job-jotter/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run schema migrations before serving")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("closing database", "err", err)
		}
	}()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	if err := dtos.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	deps, err := buildDeps(ctx, cfg, logger, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handlers.NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "calendar_mode", cfg.CalendarAuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *gorm.DB) (handlers.Deps, error) {
	tokens := auth.NewTokens(cfg.SecretKey, cfg.JWTTTL)
	hasher := auth.Hasher{Cost: cfg.BcryptCost}

	users := repository.NewUserRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	ivRepo := repository.NewInterviewRepository(db)
	remRepo := repository.NewReminderRepository(db)

	apps := services.NewApplicationService(appRepo, ivRepo, remRepo)
	deps := handlers.Deps{
		Logger:       logger,
		Tokens:       tokens,
		Users:        services.NewUserService(users, hasher, tokens),
		Applications: apps,
		Interviews:   services.NewInterviewService(ivRepo, apps),
		Reminders:    services.NewReminderService(remRepo, apps),
		Health:       handlers.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }),
	}

	calAuth, err := newCalendarAuth(cfg, tokens, db)
	switch {
	case err != nil:
		logger.Warn("google calendar disabled", "err", err)
	default:
		deps.Calendar = services.NewCalendarService(calAuth)
		if cfg.CalendarAuthMode == config.CalendarModeStored {
			deps.Connector = calAuth
		}
	}

	if cfg.GeminiAPIKey != "" {
		extractor, err := services.NewExtractService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return handlers.Deps{}, err
		}
		deps.Extractor = extractor
	} else {
		logger.Info("GEMINI_API_KEY not set, job posting extraction disabled")
	}

	return deps, nil
}

// newCalendarAuth builds the token manager for the configured mode. In
// interactive mode a single credential lives in the token file and consent
// runs on a loopback listener. In stored mode every user has a credential
// on their row, linked through the /auth/google redirect flow.
func newCalendarAuth(cfg *config.Config, tokens *auth.Tokens, db *gorm.DB) (*auth.CalendarAuth, error) {
	opts := []auth.CalendarAuthOption{auth.WithProviderTimeout(cfg.OAuthTimeout)}

	if cfg.CalendarAuthMode == config.CalendarModeInteractive {
		oauthCfg, err := auth.LoadClientConfig(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		creds := &auth.FileCredentials{
			Path:         cfg.GoogleTokenFile,
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
		}
		opts = append(opts, auth.WithAuthorizer(auth.NewLocalAuthorizer(cfg.InteractiveTimeout)))
		return auth.NewCalendarAuth(oauthCfg, creds, tokens, opts...), nil
	}

	oauthCfg := auth.NewOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	return auth.NewCalendarAuth(oauthCfg, repository.NewUserCredentials(db), tokens, opts...), nil
}
