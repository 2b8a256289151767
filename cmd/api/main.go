package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensely/internal/auth"
	"github.com/MrJamesThe3rd/expensely/internal/config"
	"github.com/MrJamesThe3rd/expensely/internal/database"
	"github.com/MrJamesThe3rd/expensely/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/expensely/internal/expense/store"
	expensesHttp "github.com/MrJamesThe3rd/expensely/internal/http"
	authHandler "github.com/MrJamesThe3rd/expensely/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/expensely/internal/http/expense"
	"github.com/MrJamesThe3rd/expensely/internal/http/respond"
	"github.com/MrJamesThe3rd/expensely/internal/user"
	userStore "github.com/MrJamesThe3rd/expensely/internal/user/store"
)

const (
	sampleUsername = "employee1"
	samplePassword = "password123"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	var (
		userService    = user.NewService(userStore.New(db))
		tokenService   = auth.NewTokenService(cfg.Auth.Secret, auth.WithTTL(cfg.Auth.TokenTTL))
		sessionService = auth.NewService(tokenService, userService)
		approvals      = expenseStore.NewApprovalStore(db)
		expenseService = expense.NewService(expenseStore.NewExpenseStore(db), approvals)
	)

	if cfg.Seed.SampleUser {
		_, created, err := userService.EnsureUser(ctx, sampleUsername, samplePassword)
		if err != nil {
			return fmt.Errorf("seeding sample user: %w", err)
		}

		if created {
			slog.Info("created sample user", "username", sampleUsername)
		}
	}

	rs := respond.New(!cfg.IsProduction())

	var (
		authH    = authHandler.NewHandler(userService, sessionService, rs, cfg.Auth.CookieSecure)
		expenseH = expenseHandler.NewHandler(expenseService, rs)
	)

	router := expensesHttp.New(authH, expenseH, expensesHttp.Options{CORSOrigins: cfg.Server.CORSOrigins})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", cfg.App.Port, "env", cfg.App.Env, "driver", cfg.DB.Driver)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.App.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
