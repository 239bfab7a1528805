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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/config"
	lensflowHttp "github.com/MrJamesThe3rd/lensflow/internal/http"
	assetHandler "github.com/MrJamesThe3rd/lensflow/internal/http/asset"
	notificationHandler "github.com/MrJamesThe3rd/lensflow/internal/http/notification"
	projectHandler "github.com/MrJamesThe3rd/lensflow/internal/http/project"
	studioHandler "github.com/MrJamesThe3rd/lensflow/internal/http/studio"
	tokenHandler "github.com/MrJamesThe3rd/lensflow/internal/http/token"
	txHandler "github.com/MrJamesThe3rd/lensflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
	"github.com/MrJamesThe3rd/lensflow/internal/session"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sessions, err := session.NewManager(cfg, session.WithMetrics(m))
	if err != nil {
		slog.Error("failed to prepare storage", "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	var (
		guard        = auth.NewGuard(cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash)
		tokens       = auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		settingsPath = settings.DefaultPath()
	)

	router := lensflowHttp.New(
		lensflowHttp.Options{
			Tokens:         tokens,
			Sessions:       sessions,
			Metrics:        m,
			Gatherer:       reg,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		tokenHandler.NewHandler(guard, tokens, cfg.App.Account, cfg.Auth.TokenTTL),
		projectHandler.NewHandler(guard),
		txHandler.NewHandler(guard),
		notificationHandler.NewHandler(settingsPath),
		assetHandler.NewHandler(guard),
		studioHandler.NewHandler(guard, settingsPath),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Mode)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
