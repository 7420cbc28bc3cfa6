package main

import (
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/config"
	"github.com/yourusername/product-feedback/internal/jobs"
)

func setupJobs(cfg *config.Config, counter jobs.CommentCounter, logger *zap.Logger) (*jobs.Manager, error) {
	opt, err := redis.ParseURL(cfg.QueueRedisURL)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(opt)
	store := jobs.NewStore(redisClient, jobs.DefaultRecordTTL)
	return jobs.NewManager(cfg.QueueRedisURL, counter, store, logger)
}
