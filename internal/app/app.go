// Package app wires configuration into the fetch pipeline for the commands.
package app

import (
	"context"

	"github.com/Sternrassler/ksa-population/internal/config"
	"github.com/Sternrassler/ksa-population/pkg/cache"
	"github.com/Sternrassler/ksa-population/pkg/client"
	"github.com/Sternrassler/ksa-population/pkg/dataset"
	"github.com/Sternrassler/ksa-population/pkg/fetcher"
	"github.com/Sternrassler/ksa-population/pkg/metrics"
	"github.com/Sternrassler/ksa-population/pkg/pipeline"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient builds the tesseract client. When a Redis address is configured
// and reachable, responses are cached there; an unreachable Redis only
// disables the cache. The returned func releases the client and Redis.
func NewClient(ctx context.Context, cfg config.Config) (*client.Client, func(), error) {
	cc := cfg.Client()
	closers := []func(){}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, continuing without cache")
			rdb.Close()
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Connected to Redis")
			cc.Cache = cache.NewManager(rdb, cfg.CacheTTL)
			closers = append(closers, func() { rdb.Close() })
		}
	}

	c, err := client.New(cc)
	if err != nil {
		for _, f := range closers {
			f()
		}
		return nil, nil, err
	}
	closers = append(closers, func() { c.Close() })

	return c, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// Fetch runs the full pipeline and, when configured, pushes the run metrics.
// A failed push is logged and does not fail the run.
func Fetch(ctx context.Context, cfg config.Config) (*dataset.Dataset, error) {
	c, release, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	d, runErr := pipeline.Run(ctx, fetcher.New(c, cfg.Fetcher()), pipeline.Config{
		OutputPath: cfg.OutputPath,
		Metadata:   cfg.Metadata(),
	})

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(ctx, cfg.PushgatewayURL, metrics.DefaultJob); err != nil {
			log.Warn().Err(err).Msg("Failed to push metrics")
		}
	}

	return d, runErr
}
