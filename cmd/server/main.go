package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userapi/internal/platform/config"
	"userapi/internal/platform/httpserver"
	"userapi/internal/platform/logger"
	"userapi/internal/platform/postgres"
	"userapi/internal/user/boolcodec"
	"userapi/internal/user/handler"
	usermetrics "userapi/internal/user/metrics"
	"userapi/internal/user/service"
	"userapi/internal/user/store"
	"userapi/pkg/secrets"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	codec, err := boolcodec.Lookup(cfg.FlagTokens)
	if err != nil {
		log.Error("invalid flag token vocabulary", "error", err.Error(), "vocabulary", cfg.FlagTokens)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	users := service.New(
		store.NewPostgres(db, codec),
		log,
		service.WithMetrics(usermetrics.New()),
	)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(users, codec, secrets.NewBcryptHasher(), log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting userapi", "addr", cfg.Addr, "flag_tokens", codec.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
