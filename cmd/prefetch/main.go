package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"admas_hotel/internal/adapters/bookingapi"
	"admas_hotel/internal/adapters/observability"
	redisad "admas_hotel/internal/adapters/redis"
	"admas_hotel/internal/app"
	"admas_hotel/internal/domain"
	"admas_hotel/internal/shared"
	mysqlrepo "admas_hotel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(cfg.PrefetchHotelIDs) == 0 {
		log.Fatal().Msg("PREFETCH_HOTEL_IDS is empty")
	}
	q := stayQuery(cfg, time.Now())

	log.Info().
		Str("base", cfg.HotelAPIBase).
		Int("workers", cfg.Workers).
		Int("hotels", len(cfg.PrefetchHotelIDs)).
		Str("checkin", q.CheckIn).
		Str("checkout", q.CheckOut).
		Msg("prefetch starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := bookingapi.New(cfg.HotelAPIBase, cfg.HotelAPIKey, cfg.HotelAPIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}
	cache := redisad.New(redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB))
	warm := app.NewPrefetchService(client, repo, cache, cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range cfg.PrefetchHotelIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := warm.WarmHotel(ctx, hotelID, q); err != nil {
				failed.Add(1)
				log.Warn().Str("id", hotelID).Err(err).Msg("prefetch failed")
				return
			}
			log.Info().Str("id", hotelID).Msg("prefetch ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int64("failed", failed.Load()).Msg("prefetch completed")
}

// stayQuery builds the stay the cache is warmed for; without PREFETCH_CHECKIN it
// starts tomorrow.
func stayQuery(cfg shared.Config, now time.Time) domain.StayQuery {
	in, err := app.ParseStayDate(cfg.PrefetchCheckIn)
	if err != nil {
		in = now.UTC().AddDate(0, 0, 1)
	}
	out := in.AddDate(0, 0, max(cfg.PrefetchNights, 1))
	return domain.StayQuery{
		CheckIn:  in.Format("2006-01-02"),
		CheckOut: out.Format("2006-01-02"),
		Adults:   1,
		Currency: cfg.Currency,
		Locale:   cfg.Locale,
	}
}
