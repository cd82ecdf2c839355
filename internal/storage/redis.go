package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

type cmdable interface {
	Get(c context.Context, key string) *redis.StringCmd
	Set(c context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(c context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps entries under "<namespace>:<key>".
type RedisStore struct {
	client    cmdable
	namespace string
}

func NewRedisStore(client cmdable, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "storefront"
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(key string) string {
	return s.namespace + ":" + key
}

func (s *RedisStore) Get(c context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(c, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed getting key=%s with error=%w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(c context.Context, key string, value string) error {
	if err := s.client.Set(c, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed setting key=%s with error=%w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(c context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.key(key))
	}
	if err := s.client.Del(c, namespaced...).Err(); err != nil {
		return fmt.Errorf("failed deleting keys=%v with error=%w", keys, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if closer, ok := s.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
