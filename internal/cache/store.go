package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Store guarda respuestas serializadas en JSON con TTL
type Store interface {
	// Get deserializa el valor en target; devuelve false si no existe o expiró
	Get(ctx context.Context, key string, target interface{}) (bool, error)
	// Set guarda el valor; ttl <= 0 usa el TTL por defecto del store
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// New elige el backend según la URL: vacía usa memoria, redis:// usa Redis
func New(url string, defaultTTL time.Duration) (Store, error) {
	url = strings.TrimSpace(url)
	switch {
	case url == "":
		return NewMemory(defaultTTL), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedis(RedisConfig{URL: url, DefaultTTL: defaultTTL})
	default:
		return nil, fmt.Errorf("unsupported cache url %q", url)
	}
}
