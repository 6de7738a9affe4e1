package app

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

	"go-wishlist/internal/config"
	"go-wishlist/internal/database"
	"go-wishlist/internal/handler"
	"go-wishlist/internal/middleware"
	"go-wishlist/internal/repository"
	"go-wishlist/internal/repository/postgres"
	"go-wishlist/internal/repository/sqlite"
	"go-wishlist/internal/router"
	"go-wishlist/internal/service"
	"go-wishlist/internal/token"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

type stores struct {
	users    repository.UserRepository
	presents repository.PresentRepository
	close    func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewService(token.Config{
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.JWTAccessTTL,
		RefreshTTL: cfg.JWTRefreshTTL,
	})
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	userService := service.NewUserService(st.users, cfg.PasswordHashCost)
	authService := service.NewAuthService(st.users, tokens, cfg.PasswordHashCost)
	presentService := service.NewPresentService(st.presents, st.users, userService)

	appRouter := router.New(
		cfg,
		middleware.NewAuthMiddleware(tokens),
		handler.NewHealthHandler(st.users),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewFriendHandler(userService),
		handler.NewPresentHandler(presentService),
		handler.NewDocsHandler(),
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(){st.close},
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		slog.Info("opening SQLite", "path", cfg.SQLitePath)
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return stores{
			users:    sqlite.NewUserRepository(db),
			presents: sqlite.NewPresentRepository(db),
			close:    func() { _ = db.Close() },
		}, nil

	default:
		slog.Info("connecting to PostgreSQL")
		db, err := database.OpenPostgres(ctx, database.PostgresOptions{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return stores{}, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		return stores{
			users:    postgres.NewUserRepository(db.Pool),
			presents: postgres.NewPresentRepository(db.Pool),
			close:    db.Close,
		}, nil
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	// Stores close after in-flight requests have drained.
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
