// Package clienv loads the shared runtime environment for CLI commands.
package clienv

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/membergate/membergate/internal/infrastructure/config"
	"github.com/membergate/membergate/internal/infrastructure/database"
	"github.com/membergate/membergate/internal/shared/biztime"
	"github.com/membergate/membergate/internal/shared/constants"
	"github.com/membergate/membergate/internal/shared/logger"
)

// Mode maps a deployment environment name to a gin mode, which is also the
// suffix of the overlay config file (config.release.yaml and so on).
func Mode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", gin.ReleaseMode:
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Setup loads configuration, initializes the process logger and opens the
// database pool. Callers close the pool with database.Close.
func Setup(env, configPath string) (*config.Config, logger.Interface, error) {
	var searchPaths []string
	if configPath != "" {
		searchPaths = append(searchPaths, configPath)
	}
	cfg, err := config.Load(Mode(env), searchPaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Display.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

// OpenRedis connects to redis, returning nil when no host is configured.
func OpenRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	if cfg.Redis.Host == "" {
		log.Infow("redis not configured, rate limiting and earnings cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	return client, nil
}
