package helpers

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client. Used both for the
// rate-limit middleware and, when configured, as the realtime pub/sub
// transport.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
