package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	HotelAPIBase string
	HotelAPIKey  string
	HotelAPIRPS  int

	JWTSecret    string
	JWTPublicKey string

	KafkaBrokers []string
	KafkaTopic   string

	ReferencePrefix string
	CacheTTL        time.Duration
	SessionTTL      time.Duration

	// prefetch
	Workers          int
	PrefetchHotelIDs []string
	PrefetchCheckIn  string
	PrefetchNights   int
	Currency         string
	Locale           string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/admas?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		HotelAPIBase: env("HOTEL_API_BASE_URL", "https://booking-com15.p.rapidapi.com/api/v1"),
		HotelAPIKey:  env("HOTEL_API_KEY", ""),
		HotelAPIRPS:  atoi("HOTEL_API_RPS", 5),

		JWTSecret:    env("JWT_SECRET", ""),
		JWTPublicKey: env("JWT_PUBLIC_KEY", ""),

		KafkaBrokers: list(env("KAFKA_BROKERS", "")),
		KafkaTopic:   env("KAFKA_TOPIC", "booking.created"),

		ReferencePrefix: env("BOOKING_REFERENCE_PREFIX", "ADMAS"),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:      time.Duration(atoi("SESSION_TTL_MINUTES", 30)) * time.Minute,

		Workers:          atoi("PREFETCH_WORKERS", 8),
		PrefetchHotelIDs: list(env("PREFETCH_HOTEL_IDS", "")),
		PrefetchCheckIn:  env("PREFETCH_CHECKIN", ""),
		PrefetchNights:   atoi("PREFETCH_NIGHTS", 1),
		Currency:         env("DEFAULT_CURRENCY", "USD"),
		Locale:           env("DEFAULT_LOCALE", "en-us"),
	}
	if c.HotelAPIKey == "" {
		log.Warn().Msg("HOTEL_API_KEY is empty")
	}
	if c.JWTSecret == "" && c.JWTPublicKey == "" {
		log.Warn().Msg("no JWT key configured; authenticated routes will reject every request")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// list splits a comma separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
