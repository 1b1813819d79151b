package codestore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"jend_services/internal/adapters/observability"
	"jend_services/internal/domain"
)

const redisKeyPrefix = "resetcode:"

// Redis backs the reset-code ledger with a Redis instance so codes survive
// an API restart. Entries carry the ledger TTL as their key TTL, so Redis
// itself does the expiry sweep.
type Redis struct {
	c   *redis.Client
	ttl time.Duration
}

func NewRedis(addr, pass string, db int, ttl time.Duration) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl: ttl}
}

func (s *Redis) Put(ctx context.Context, rc domain.ResetCode) error {
	b, err := json.Marshal(rc)
	if err != nil {
		return err
	}
	observability.ObserveLedger("redis", "set")
	return s.c.Set(ctx, redisKeyPrefix+rc.Code, b, s.ttl).Err()
}

func (s *Redis) Get(ctx context.Context, code string) (domain.ResetCode, bool, error) {
	v, err := s.c.Get(ctx, redisKeyPrefix+code).Bytes()
	if err == redis.Nil {
		observability.ObserveLedger("redis", "miss")
		return domain.ResetCode{}, false, nil
	}
	if err != nil {
		return domain.ResetCode{}, false, err
	}
	var rc domain.ResetCode
	if err := json.Unmarshal(v, &rc); err != nil {
		return domain.ResetCode{}, false, err
	}
	observability.ObserveLedger("redis", "hit")
	return rc, true, nil
}

func (s *Redis) Del(ctx context.Context, code string) error {
	observability.ObserveLedger("redis", "del")
	return s.c.Del(ctx, redisKeyPrefix+code).Err()
}

// SweepExpired is a no-op: keys are written with a TTL and Redis evicts
// them on its own.
func (s *Redis) SweepExpired(ctx context.Context, ttl time.Duration) error {
	return nil
}
