package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utafrali/fashly/internal/config"
	"github.com/utafrali/fashly/internal/repository"
	"github.com/utafrali/fashly/internal/repository/memory"
	"github.com/utafrali/fashly/internal/repository/postgres"
	redisrepo "github.com/utafrali/fashly/internal/repository/redis"
	"github.com/utafrali/fashly/pkg/database"
	"github.com/utafrali/fashly/pkg/health"
)

const purgeInterval = time.Hour

// storage is an opened record repository plus its lifecycle hooks.
type storage struct {
	repo repository.RecordRepository
	// purge deletes expired records; nil when the backend expires them itself.
	purge func(ctx context.Context) (int64, error)
	close func()
}

// openStorage connects the configured driver and registers its health check.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, hh *health.Handler) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		redisCfg := database.DefaultRedisConfig()
		if cfg.RedisAddr != "" {
			redisCfg.Addr = cfg.RedisAddr
		}
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", redisCfg.Addr),
			slog.Int("db", cfg.RedisDB),
		)
		hh.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		return &storage{
			repo:  redisrepo.NewRecordRepository(rdb, cfg.SessionTTL()),
			close: func() { _ = rdb.Close() },
		}, nil

	case config.StoragePostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPass
		pgCfg.DBName = cfg.PostgresDB
		pgCfg.SSLMode = cfg.PostgresSSL
		pgCfg.MaxConns = cfg.DBMaxConns
		pgCfg.MinConns = cfg.DBMinConns

		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if err := database.RunMigrations(ctx, pool, postgres.Migrations(), logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
			logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}
		hh.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		repo := postgres.NewRecordRepository(pool)
		s := &storage{repo: repo, close: pool.Close}
		if ttl := cfg.SessionTTL(); ttl > 0 {
			s.purge = func(ctx context.Context) (int64, error) {
				return repo.PurgeOlderThan(ctx, time.Now().Add(-ttl))
			}
		}
		return s, nil

	default:
		logger.Info("using in-memory storage; carts and wishlists are lost on restart")
		return &storage{repo: memory.NewRecordRepository(), close: func() {}}, nil
	}
}

// runPurge deletes expired records every interval until ctx is cancelled.
func runPurge(ctx context.Context, purge func(context.Context) (int64, error), interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purge(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("failed to purge expired records", slog.String("error", err.Error()))
				}
				continue
			}
			if n > 0 {
				logger.Info("expired records purged", slog.Int64("count", n))
			}
		}
	}
}
