package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	MetricsAddr string
	OpsAddr     string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	PMSBase     string
	PMSKey      string
	Workers     int
	Queue       string // inline | redis
	QueueKey    string
	RateLimit   int // proactive budget, requests per second per endpoint
	RetryMax    int
	BackoffCap  int
	ChunkSize   int
	Lookback    time.Duration
}

func Load() Config {
	_ = godotenv.Load()

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
		MetricsAddr: env("METRICS_ADDR", ""),
		OpsAddr:     env("OPS_ADDR", ":8080"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/pms?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		PMSBase:     env("PMS_BASE_URL", "https://api.pms.example.com/v1"),
		PMSKey:      env("PMS_API_KEY", ""),
		Workers:     atoi("SYNC_WORKERS", 8),
		Queue:       env("SYNC_QUEUE", "inline"),
		QueueKey:    env("SYNC_QUEUE_KEY", "pms:sync:bookings"),
		RateLimit:   atoi("PMS_RATE_LIMIT", 2),
		RetryMax:    atoi("PMS_RETRY_MAX", 10),
		BackoffCap:  atoi("PMS_BACKOFF_CAP", 30),
		ChunkSize:   atoi("SYNC_CHUNK_SIZE", 100),
		Lookback:    time.Duration(atoi("SYNC_LOOKBACK_HOURS", 24*30)) * time.Hour,
	}
	if c.PMSKey == "" {
		log.Warn().Msg("PMS_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
