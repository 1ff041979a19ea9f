package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	apppublic "poker-replay/internal/app/public"
	"poker-replay/internal/cache"
	"poker-replay/internal/config"
	"poker-replay/internal/handlog"
	"poker-replay/internal/logging"
	"poker-replay/internal/store"
	httptransport "poker-replay/internal/transport/http"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	appCfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	cfg := appCfg.Server

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		resultCache cache.Cache = cache.NewMemory()
		db          httptransport.Pinger
	)
	if strings.EqualFold(strings.TrimSpace(cfg.CacheBackend), "postgres") {
		st, err := store.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("db ping failed; statistics will be recomputed until it recovers")
		}
		resultCache = cache.NewPostgres(st)
		db = st
	}

	loader := handlog.NewFSLoader(cfg.LogsDir)
	svc := apppublic.NewService(loader, resultCache, apppublic.Options{
		HandLoadBatch:      cfg.HandLoadBatch,
		OverallConcurrency: cfg.OverallConcurrency,
	})
	r := httptransport.NewRouter(svc, httptransport.RouterOptions{
		AdminAPIKey: cfg.AdminAPIKey,
		RequestLogs: logCfg.Requests,
		DB:          db,
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("logs_dir", cfg.LogsDir).
		Str("cache_backend", cfg.CacheBackend).
		Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
