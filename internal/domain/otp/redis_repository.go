package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// Issuing overwrites the key, so only the newest record is reachable.
// The script flips used only for the expected record id.
var markUsedScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then return -1 end
local rec = cjson.decode(v)
if rec.id ~= ARGV[1] or rec.used then return 0 end
rec.used = true
local ttl = redis.call('PTTL', KEYS[1])
if ttl > 0 then
  redis.call('SET', KEYS[1], cjson.encode(rec), 'PX', ttl)
else
  redis.call('SET', KEYS[1], cjson.encode(rec))
end
return 1
`)

type RedisRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func redisKey(key string, purpose Purpose) string {
	return redisKeyPrefix + string(purpose) + ":" + key
}

func (s *RedisRepository) Insert(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}

	var ttl time.Duration
	if !rec.ExpiresAt.IsZero() {
		ttl = rec.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			ttl = time.Millisecond
		}
	}

	return s.client.Set(ctx, redisKey(rec.Key, rec.Purpose), data, ttl).Err()
}

func (s *RedisRepository) Latest(ctx context.Context, key string, purpose Purpose) (*Record, error) {
	data, err := s.client.Get(ctx, redisKey(key, purpose)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	if rec.Used {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *RedisRepository) MarkUsed(ctx context.Context, rec *Record) error {
	res, err := markUsedScript.Run(ctx, s.client, []string{redisKey(rec.Key, rec.Purpose)}, rec.ID).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return nil
	case -1:
		return ErrNotFound
	default:
		return ErrAlreadyUsed
	}
}
