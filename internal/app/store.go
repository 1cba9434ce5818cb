package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/config"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/redis"
	"github.com/MrSnakeDoc/marks/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/marks/internal/store/redis"
	"github.com/MrSnakeDoc/marks/internal/store/sqldb"
)

// OpenStore connects the backend selected by cfg.Store. SQL backends get
// their table created when missing. Fails fast if the backend is unreachable.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.Repository, error) {
	switch cfg.Store {
	case config.StoreSQLite, config.StorePostgres:
		driver := sqldb.DriverSQLite
		if cfg.Store == config.StorePostgres {
			driver = sqldb.DriverPostgres
		}
		log.Info("opening sql store", logger.String("driver", driver))

		store, err := sqldb.Open(ctx, sqldb.Options{
			Driver:       driver,
			DSN:          cfg.DatabaseURL,
			MaxOpenConns: cfg.DBMaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.StoreRedis:
		log.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), nil

	case config.StoreMemory:
		log.Warn("using the in-memory store, bookmarks are lost on exit")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
