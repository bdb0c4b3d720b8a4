package blob

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps the collection under a single Redis key with no expiry.
type RedisKV struct {
	client redis.Cmdable
	key    string
}

func NewRedisKV(client redis.Cmdable, key string) *RedisKV {
	return &RedisKV{client: client, key: key}
}

func (r *RedisKV) Get(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *RedisKV) Put(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, string(data), 0).Err()
}
