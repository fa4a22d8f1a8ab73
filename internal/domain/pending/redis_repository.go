package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix        = "pending:"
	redisConsumedPrefix   = "pending:consumed:"
	defaultRedisRetention = 24 * time.Hour
)

// RedisRepository keeps operations as JSON with a TTL. Expiry is left to Redis.
type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func (s *RedisRepository) ttl(op *Operation) time.Duration {
	if op.ExpiresAt.IsZero() {
		return defaultRedisRetention
	}
	ttl := op.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return time.Millisecond
	}
	return ttl
}

func (s *RedisRepository) Put(ctx context.Context, op *Operation) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal pending operation: %w", err)
	}

	ok, err := s.client.SetNX(ctx, redisKeyPrefix+op.Token, data, s.ttl(op)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateToken
	}
	return nil
}

func (s *RedisRepository) decode(ctx context.Context, token string, data []byte, err error) (*Operation, error) {
	if errors.Is(err, redis.Nil) {
		used, existsErr := s.client.Exists(ctx, redisConsumedPrefix+token).Result()
		if existsErr == nil && used > 0 {
			return nil, ErrAlreadyConsumed
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var op Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("unmarshal pending operation: %w", err)
	}
	if op.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return &op, nil
}

func (s *RedisRepository) Get(ctx context.Context, token string) (*Operation, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	return s.decode(ctx, token, data, err)
}

// takeScript removes the operation and leaves the consumed marker in one step.
var takeScript = redis.NewScript(`
local v = redis.call('GETDEL', KEYS[1])
if v then
	redis.call('SET', KEYS[2], 1, 'PX', ARGV[1])
end
return v
`)

func (s *RedisRepository) Take(ctx context.Context, token string) (*Operation, error) {
	keys := []string{redisKeyPrefix + token, redisConsumedPrefix + token}
	data, err := takeScript.Run(ctx, s.client, keys, tombstoneRetention.Milliseconds()).Text()
	return s.decode(ctx, token, []byte(data), err)
}

func (s *RedisRepository) Remove(ctx context.Context, token string) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Sweep is a no-op: keys carry their own TTL.
func (s *RedisRepository) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
