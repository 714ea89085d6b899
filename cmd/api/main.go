package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "eiendom_showcase/internal/adapters/http_server"
	"eiendom_showcase/internal/adapters/observability"
	"eiendom_showcase/internal/adapters/propertyapi"
	redisad "eiendom_showcase/internal/adapters/redis"
	"eiendom_showcase/internal/app"
	"eiendom_showcase/internal/domain"
	"eiendom_showcase/internal/shared"
	filestore "eiendom_showcase/internal/storage/file"
	mysqlrepo "eiendom_showcase/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// cache is optional; a nil interface disables it
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, running without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
		}
	}

	var q *app.QueryService
	switch cfg.StoreBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		q = app.NewQueryService(mysqlrepo.New(db), cache, cfg.CacheTTL)

	default:
		store, err := filestore.Open(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("open property data failed")
		}
		for _, p := range store.Problems() {
			log.Warn().Str("file", p.Path).Err(p.Err).Msg("property file skipped")
		}
		q = app.NewQueryService(store, cache, cfg.CacheTTL)
		if cfg.WatchData {
			err := store.Watch(ctx, func(ids []string) { q.Invalidate(context.Background(), ids...) })
			if err != nil {
				log.Warn().Err(err).Msg("data watch disabled")
			}
		}
	}

	// pages read either in-process or through a remote API
	var pagesQ server.PropertyQueries = q
	if cfg.APIBaseURL != "" {
		client, err := propertyapi.New(cfg.APIBaseURL, 10)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize property API client")
		}
		pagesQ = client
		log.Info().Str("base", cfg.APIBaseURL).Msg("pages read through property API")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q}, server.APIOptions{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.APIRateLimit,
	})
	srv.MountPages(&server.Pages{Q: pagesQ, Loc: cfg.DisplayTZ})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreBackend).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
