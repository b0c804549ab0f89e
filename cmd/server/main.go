// Command server runs the LMS admin portal API.
//
// Startup order: configuration, logger, database pool (checked with
// SELECT 1), migrations, optional Redis, then the HTTP server. Any failure
// before the server starts exits with status 1.
package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/config"
	"github.com/sakif/lms-admin/internal/database"
	"github.com/sakif/lms-admin/internal/logger"
	"github.com/sakif/lms-admin/internal/server"
)

const redisPingTimeout = 3 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// no configured logger yet
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stdout,
	})

	pool, err := database.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("connecting to database")
	}
	log.Info().Str("driver", pool.Driver()).Int("max_conns", cfg.Database.MaxConns).Msg("database pool ready")

	if cfg.Database.AutoMigrate {
		results, err := pool.Migrate(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("running migrations")
		}
		log.Info().Int("applied", len(results)).Msg("migrations up to date")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connecting to redis")
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set; logout cannot revoke tokens")
	}

	srv, err := server.New(cfg, pool, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("creating server")
	}

	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
