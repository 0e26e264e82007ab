package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "pms_sync/internal/adapters/http_server"
	"pms_sync/internal/adapters/observability"
	"pms_sync/internal/adapters/pms"
	"pms_sync/internal/adapters/queue"
	"pms_sync/internal/adapters/ratelimit"
	redisad "pms_sync/internal/adapters/redis"
	"pms_sync/internal/app"
	"pms_sync/internal/shared"
	mysqlrepo "pms_sync/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	rdb := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// workers in different processes must share one budget, hence the Redis
	// window rather than the local limiter
	limiter := ratelimit.NewWindow(rdb, cfg.RateLimit)
	client, err := pms.New(cfg.PMSBase, cfg.PMSKey, limiter, cfg.RetryMax, cfg.BackoffCap)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PMS client")
	}

	syncer := app.NewBookingSyncer(app.NewAssembler(client), mysqlrepo.New(db))
	tasks := redisad.NewQueue(rdb, cfg.QueueKey)
	pool := queue.NewPool(syncer, cfg.Workers)

	// ops surface: health, metrics, sync status
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Cursor: redisad.NewCursorStore(rdb)})
	go func() {
		httpSrv := &http.Server{Addr: cfg.OpsAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
		log.Info().Str("addr", cfg.OpsAddr).Msg("ops server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server failed")
		}
	}()

	log.Info().Int("workers", cfg.Workers).Str("queue", cfg.QueueKey).Msg("worker starting")

	for {
		id, err := tasks.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("queue read failed")
			time.Sleep(time.Second)
			continue
		}
		if err := pool.Submit(ctx, id); err != nil {
			break // only fails when ctx is done
		}
	}

	pool.Wait()
	log.Info().Msg("worker stopped")
}
