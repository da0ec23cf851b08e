// Package rediscache is a cache storage backed by redis, for deployments
// where several instances should share the explore/trending cache.
package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("layer", "middleware").WithField("package", "rediscache") // nolint:gochecknoglobals

const keyPrefix = "ambrosia:cache:"

// Storage ...
type Storage struct {
	c *redis.Client
}

// NewStorage creates a redis-backed cache storage.
func NewStorage(c *redis.Client) *Storage {
	return &Storage{c: c}
}

// Get returns cached content or nil. Redis failures degrade to a cache miss.
func (s *Storage) Get(key string) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	content, err := s.c.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("failed to get cached response")
		}

		return nil
	}

	return content
}

// Set stores content for ttl. Failures are logged and ignored.
func (s *Storage) Set(key string, content []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.c.Set(ctx, keyPrefix+key, content, ttl).Err(); err != nil {
		log.WithError(err).Warn("failed to cache response")
	}
}
