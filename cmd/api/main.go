package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"admas_hotel/internal/adapters/auth"
	"admas_hotel/internal/adapters/bookingapi"
	server "admas_hotel/internal/adapters/http_server"
	"admas_hotel/internal/adapters/kafka"
	"admas_hotel/internal/adapters/observability"
	redisad "admas_hotel/internal/adapters/redis"
	"admas_hotel/internal/app"
	"admas_hotel/internal/shared"
	mysqlrepo "admas_hotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cache := redisad.New(rdb)

	hotels, err := bookingapi.New(cfg.HotelAPIBase, cfg.HotelAPIKey, cfg.HotelAPIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}

	opts := []app.SubmitterOption{app.WithReferenceRegistry(redisad.NewReferenceRegistry(rdb))}
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		opts = append(opts, app.WithEventPublisher(pub))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("booking events enabled")
	}

	q := app.NewQueryService(hotels, repo, cache, cfg.CacheTTL)
	sub := app.NewBookingSubmitter(repo, app.NewReferenceGenerator(cfg.ReferencePrefix), opts...)
	sessions := app.NewSessionRegistry(cfg.SessionTTL)
	go sessions.RunJanitor(ctx, time.Minute)
	flow := app.NewBookingFlow(q, sub, sessions, repo)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:    q,
		Flow: flow,
		Auth: auth.NewValidator(cfg.JWTSecret, cfg.JWTPublicKey),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
