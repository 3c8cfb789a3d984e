package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
)

var _ repository.KeyValueStore = (*RedisStore)(nil)

// RedisStore guarda la sesión en Redis bajo prefix+clave. Útil cuando el shell corre en varias
// máquinas del mismo operador o en contenedores sin disco persistente.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore construye el store. prefix suele ser "gestion-horarios:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get implementa repository.KeyValueStore.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Write implementa repository.KeyValueStore dentro de MULTI/EXEC.
func (r *RedisStore) Write(ctx context.Context, set map[string]string, remove ...string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range set {
			pipe.Set(ctx, r.prefix+k, v, 0)
		}
		if len(remove) > 0 {
			keys := make([]string, 0, len(remove))
			for _, k := range remove {
				keys = append(keys, r.prefix+k)
			}
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis tx: %w", err)
	}
	return nil
}
