package storage

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"trailblog/internal/core/ports"
)

const redisKeyPrefix = "trailblog:token:"

// RedisStorage persists session tokens in Redis.
type RedisStorage struct {
	Client *redis.Client
}

func NewRedisStorage(ctx context.Context, redisURL string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL failed")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "connecting to redis failed")
	}
	return &RedisStorage{Client: client}, nil
}

var _ ports.Storage = (*RedisStorage)(nil)

func (s *RedisStorage) SaveToken(name, token string) error {
	err := s.Client.Set(context.Background(), redisKeyPrefix+name, token, 0).Err()
	return errors.Wrap(err, "saving token failed")
}

func (s *RedisStorage) LoadToken(name string) (string, error) {
	token, err := s.Client.Get(context.Background(), redisKeyPrefix+name).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "loading token failed")
	}
	return token, nil
}

func (s *RedisStorage) ClearToken(name string) error {
	err := s.Client.Del(context.Background(), redisKeyPrefix+name).Err()
	return errors.Wrap(err, "clearing token failed")
}

func (s *RedisStorage) Close() error {
	return s.Client.Close()
}
