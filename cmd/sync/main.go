package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pms_sync/internal/adapters/observability"
	"pms_sync/internal/adapters/pms"
	"pms_sync/internal/adapters/queue"
	"pms_sync/internal/adapters/ratelimit"
	redisad "pms_sync/internal/adapters/redis"
	"pms_sync/internal/app"
	"pms_sync/internal/domain"
	"pms_sync/internal/shared"
	mysqlrepo "pms_sync/internal/storage/mysql"
)

func main() {
	root := &cobra.Command{
		Use:           "sync-bookings",
		Short:         "Synchronize bookings from the Property Management System (PMS) API",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().String("updated-after", "", "override the sync window start (RFC3339 or YYYY-MM-DD)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("sync failed")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "sync")
	observability.Serve()

	var updatedAfter *time.Time
	if v, _ := cmd.Flags().GetString("updated-after"); v != "" {
		t, err := parseWhen(v)
		if err != nil {
			return fmt.Errorf("invalid --updated-after value %q: %w", v, err)
		}
		updatedAfter = &t
	}

	rdb := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cursor := redisad.NewCursorStore(rdb)

	// Distributed workers share the Redis window; a single-process run only
	// needs the local limiter.
	var limiter domain.Limiter
	if cfg.Queue == "redis" {
		limiter = ratelimit.NewWindow(rdb, cfg.RateLimit)
	} else {
		limiter = ratelimit.NewLocal(cfg.RateLimit)
	}

	client, err := pms.New(cfg.PMSBase, cfg.PMSKey, limiter, cfg.RetryMax, cfg.BackoffCap)
	if err != nil {
		return err
	}

	var tasks domain.TaskQueue
	var pool *queue.Pool
	switch cfg.Queue {
	case "redis":
		tasks = redisad.NewQueue(rdb, cfg.QueueKey)
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return fmt.Errorf("sql.Open failed: %w", err)
		}
		if err := db.Ping(); err != nil {
			return fmt.Errorf("db.Ping failed: %w", err)
		}
		syncer := app.NewBookingSyncer(app.NewAssembler(client), mysqlrepo.New(db))
		pool = queue.NewPool(syncer, cfg.Workers)
		tasks = pool
	}

	disp := app.NewDispatcher(client, cursor, tasks, cfg.ChunkSize, cfg.Lookback)
	if err := disp.Run(cmd.Context(), updatedAfter); err != nil {
		if errors.Is(err, domain.ErrNoData) {
			return fmt.Errorf("no bookings data found to sync")
		}
		return err
	}

	// inline mode owns the workers, so the process drains them before exit;
	// the cursor was already advanced at submission time
	if pool != nil {
		pool.Wait()
	}
	return nil
}

func parseWhen(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime format")
}
