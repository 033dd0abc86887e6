package app

import (
	"context"
	"errors"

	"github.com/server-craftsman/manage-post/internal/config"
	"github.com/server-craftsman/manage-post/internal/logger"
	"github.com/server-craftsman/manage-post/internal/redis"
	"github.com/server-craftsman/manage-post/internal/remote"
	"github.com/server-craftsman/manage-post/internal/session"
)

type Infra struct {
	Remote   *remote.Client
	Sessions session.Store
	Redis    *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {

	if cfg.RemoteAPIURL == "" {
		return nil, errors.New("REMOTE_API_URL is required")
	}

	remoteClient := remote.New(cfg.RemoteAPIURL, cfg.RemoteAPIToken, cfg.RemoteTimeout)

	logger.Info("remote store configured", map[string]any{
		"url": cfg.RemoteAPIURL,
	})

	infra := &Infra{Remote: remoteClient}

	// Without Redis, sessions live in process memory and die with it.
	if cfg.RedisAddr == "" {
		logger.Warn("no REDIS_ADDR set, sessions will not survive restarts", nil)
		infra.Sessions = session.NewMemoryStore()
		return infra, nil
	}

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", nil)

	infra.Redis = redisClient
	infra.Sessions = session.NewRedisStore(redisClient.Client)

	return infra, nil
}
