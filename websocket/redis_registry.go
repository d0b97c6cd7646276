package websocket

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const registryKeyPrefix = "ws:conn:"

type redisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry creates a registry backed by Redis so that bindings survive
// a process restart and can be shared between instances. Redis errors degrade
// to "no binding" rather than failing the caller; the registry never errors.
func NewRedisRegistry(client *redis.Client, ttl time.Duration) Registry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisRegistry{client: client, ttl: ttl}
}

func (r *redisRegistry) Bind(userID, handle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Set(ctx, registryKeyPrefix+userID, handle, r.ttl).Err(); err != nil {
		log.Printf("Failed to bind connection for user %s in redis: %v", userID, err)
	}
}

func (r *redisRegistry) Unbind(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Del(ctx, registryKeyPrefix+userID).Err(); err != nil {
		log.Printf("Failed to unbind connection for user %s in redis: %v", userID, err)
	}
}

func (r *redisRegistry) Resolve(userID string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	handle, err := r.client.Get(ctx, registryKeyPrefix+userID).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("Failed to resolve connection for user %s in redis: %v", userID, err)
		return "", false
	}
	return handle, true
}
