package main

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Keshavsspppp/municipality/internal/adapter/http/router"
	"github.com/Keshavsspppp/municipality/internal/adapter/llm"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/cache"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/logger"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Run the comment grouping service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComments()
	},
}

func runComments() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(&cfg.Log, "comments")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Comments.Server.Mode)

	// The service still accepts comments without a key, but grouping fails
	var grouper service.Grouper
	g, err := llm.NewGrouper(&cfg.Comments.LLM)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Warn("LLM API key not set, grouping disabled")
	case err != nil:
		return fmt.Errorf("failed to create llm client: %w", err)
	default:
		grouper = g
		log.Info("LLM client ready",
			zap.String("model", g.Model()),
			zap.String("base_url", cfg.Comments.LLM.BaseURL),
		)
	}

	// Initialize Redis (optional, continue without it)
	var redisClient *redis.Client
	if cfg.Comments.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Comments.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			log.Info("Connected to Redis", zap.String("addr", cfg.Comments.Redis.Addr()))
			defer func() { _ = redisClient.Close() }()
		}
	}

	r := router.SetupComments(grouper, redisClient, cfg.Comments.Redis.TTL, log)
	return serve(log, &cfg.Comments.Server, r)
}
