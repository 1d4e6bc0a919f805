package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thesamecrone/samecrone-api/internal/config"
	"github.com/thesamecrone/samecrone-api/internal/handler"
	"github.com/thesamecrone/samecrone-api/internal/oauth"
	"github.com/thesamecrone/samecrone-api/internal/repository"
	"github.com/thesamecrone/samecrone-api/internal/service"
	"github.com/thesamecrone/samecrone-api/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func run(cfg config.Config) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.Open(startCtx, repository.Dialect(cfg.DB.Driver), cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DB.InitSchema {
		if err := db.EnsureSchema(startCtx); err != nil {
			return err
		}
		slog.Info("database schema ensured", "driver", cfg.DB.Driver)
	}

	store, err := newSessionStore(startCtx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Google.ClientID == "" {
		slog.Warn("GOOGLE_CLIENT_ID is not set, Google sign-in will fail")
	}

	authService := service.NewAuthService(repository.NewUserRepository(db))
	subService := service.NewSubscriptionService(repository.NewSubscriptionRepository(db))

	router := handler.NewRouter(handler.Deps{
		Auth:          authService,
		Subscriptions: subService,
		Provider: oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURI,
		}),
		Sessions:      session.NewManager(store, cfg.Session.Secret, cfg.Session.TTL, cfg.IsProduction()),
		DB:            db,
		AllowedOrigin: cfg.Frontend.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.Redis.Addr == "" {
		if cfg.IsProduction() {
			slog.Warn("REDIS_ADDR is not set, sessions are kept in memory")
		}
		return session.NewMemoryStore(), nil
	}

	return session.NewRedisStore(ctx, session.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
