package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialnet/backend/pkg/logger"
)

const personKeyPrefix = "person:"

// PersonCache is a read-through Redis cache for person lookups by ID. A nil
// *PersonCache is valid and disables caching. Cache faults degrade to
// database reads and are only logged.
type PersonCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPersonCache creates a person cache backed by the given Redis client
func NewPersonCache(rdb *redis.Client, ttl time.Duration) *PersonCache {
	return &PersonCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.Get(),
	}
}

func (c *PersonCache) get(ctx context.Context, id string) (*Person, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, personKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("Person cache read failed", zap.String("person_id", id), zap.Error(err))
		}
		return nil, false
	}

	var person Person
	if err := json.Unmarshal(raw, &person); err != nil {
		c.logger.Debug("Person cache entry corrupt", zap.String("person_id", id), zap.Error(err))
		return nil, false
	}
	return &person, true
}

func (c *PersonCache) set(ctx context.Context, person *Person) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(person)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, personKeyPrefix+person.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("Person cache write failed", zap.String("person_id", person.ID), zap.Error(err))
	}
}

func (c *PersonCache) invalidate(ctx context.Context, ids ...string) {
	if c == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, personKeyPrefix+id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("Person cache invalidation failed", zap.Strings("person_ids", ids), zap.Error(err))
	}
}

// NewRedis creates a Redis client for the person cache
func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
