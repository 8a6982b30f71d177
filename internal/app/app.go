// Package app wires configuration, storage, services, and transport into a
// running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	achievementrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/achievement"
	attemptrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/attempt"
	catalogrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/catalog"
	challengerepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/challenge"
	progressrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/courseprogress"
	srscardrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/srscard"
	userrepo "github.com/lexivon/lexivon-backend/internal/adapter/postgres/user"
	"github.com/lexivon/lexivon-backend/internal/auth"
	"github.com/lexivon/lexivon-backend/internal/config"
	"github.com/lexivon/lexivon-backend/internal/domain"
	authservice "github.com/lexivon/lexivon-backend/internal/service/auth"
	"github.com/lexivon/lexivon-backend/internal/service/gamification"
	"github.com/lexivon/lexivon-backend/internal/service/leaderboard"
	"github.com/lexivon/lexivon-backend/internal/service/progress"
	"github.com/lexivon/lexivon-backend/internal/service/srs"
	"github.com/lexivon/lexivon-backend/internal/service/submission"
	"github.com/lexivon/lexivon-backend/internal/service/unlock"
	"github.com/lexivon/lexivon-backend/internal/transport/middleware"
	"github.com/lexivon/lexivon-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL, wires repositories, services, and handlers, and serves HTTP
// until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	catalog := catalogrepo.New(pool)
	attempts := attemptrepo.New(pool)
	cards := srscardrepo.New(pool)
	courseProgress := progressrepo.New(pool)
	challenges := challengerepo.New(pool)
	achievements := achievementrepo.New(pool)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	srsConfig := domain.SRSConfig{
		DefaultEaseFactor: cfg.SRS.DefaultEaseFactor,
		MinEaseFactor:     cfg.SRS.MinEaseFactor,
		MaxIntervalDays:   cfg.SRS.MaxIntervalDays,
		FirstReviewDelay:  cfg.SRS.FirstReviewDelay,
		DueLimitDefault:   cfg.SRS.DueLimitDefault,
		DueLimitMax:       cfg.SRS.DueLimitMax,
	}

	authSvc := authservice.NewService(logger, users, jwtManager, hasher, cfg.Auth)
	srsSvc := srs.NewService(logger, cards, srsConfig)
	progressSvc := progress.NewService(logger, attempts, catalog, courseProgress, cfg.Progress.DefaultRequiredScore)
	unlockSvc := unlock.NewService(logger, catalog, courseProgress)
	gamificationSvc := gamification.NewService(logger, users, challenges, achievements)
	leaderboardSvc := leaderboard.NewService(logger, attempts)
	submissionSvc := submission.NewService(logger, attempts, catalog,
		progressSvc, unlockSvc, srsSvc, gamificationSvc, txManager)

	scheduler := NewScheduler(logger, gamificationSvc)
	if err := scheduler.Start(cfg.Gamification); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop()

	mux := rest.NewRouter(rest.Handlers{
		Auth:         rest.NewAuthHandler(authSvc, logger),
		Submit:       rest.NewSubmitHandler(submissionSvc, logger),
		Catalog:      rest.NewCatalogHandler(unlockSvc, progressSvc, catalog, logger),
		SRS:          rest.NewSRSHandler(srsSvc, logger),
		Gamification: rest.NewGamificationHandler(gamificationSvc, logger),
		Leaderboard:  rest.NewLeaderboardHandler(leaderboardSvc, logger),
		Health:       rest.NewHealthHandler(pool, BuildVersion()),
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.RateLimit.RequestsPerMinute),
		middleware.Auth(jwtManager),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
