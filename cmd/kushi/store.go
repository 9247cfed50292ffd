package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/pg"
	"github.com/kushi-labs/kushi/pkg/redis"
)

func noopClose(context.Context) error { return nil }

// openStore connects the shared durable store selected by cfg.KV.Driver.
// The returned func releases the backend's connections.
func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (kv.Store, func(context.Context) error, error) {
	log = log.With(logger.Component("kv"), slog.String("driver", cfg.KV.Driver))

	switch cfg.KV.Driver {
	case kv.DriverMemory, "":
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		return kv.NewMemoryStore(), noopClose, nil

	case kv.DriverFile:
		s, err := kv.NewFileStore(cfg.KV.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.InfoContext(ctx, "storage opened", slog.String("path", cfg.KV.FilePath))
		return s, noopClose, nil

	case kv.DriverRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.InfoContext(ctx, "storage connected")
		return kv.NewRedisStore(client), func(context.Context) error { return client.Close() }, nil

	case kv.DriverPostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.InfoContext(ctx, "storage connected")
		return kv.NewPostgresStore(pool), func(context.Context) error { pool.Close(); return nil }, nil

	case kv.DriverS3:
		s, err := kv.NewS3StoreFromConfig(ctx, cfg.KV.S3)
		if err != nil {
			return nil, nil, err
		}
		log.InfoContext(ctx, "storage opened", slog.String("bucket", cfg.KV.S3.Bucket))
		return s, noopClose, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", kv.ErrUnknownDriver, cfg.KV.Driver)
	}
}
