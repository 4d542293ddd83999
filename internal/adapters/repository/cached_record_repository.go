package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

const cacheTTL = 30 * time.Minute

var _ domain.WaterRepository = (*CachedRecordRepository[*domain.WaterRecord])(nil)

// CachedRecordRepository keeps each user's full record list in Redis. Range
// queries and single lookups go straight to the next repository.
type CachedRecordRepository[R domain.Record] struct {
	next   domain.RecordRepository[R]
	cache  *redis.Client
	prefix string
}

func NewCachedRecordRepository[R domain.Record](next domain.RecordRepository[R], cache *redis.Client, prefix string) *CachedRecordRepository[R] {
	return &CachedRecordRepository[R]{
		next:   next,
		cache:  cache,
		prefix: prefix,
	}
}

func (r *CachedRecordRepository[R]) cacheKey(userID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, userID)
}

func (r *CachedRecordRepository[R]) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", r.cacheKey(userID)).Msg("cache invalidation failed")
	}
}

func (r *CachedRecordRepository[R]) ListByUserID(ctx context.Context, userID string) ([]R, error) {
	key := r.cacheKey(userID)
	logger := zerolog.Ctx(ctx)

	val, err := r.cache.Get(ctx, key).Bytes()
	if err == nil {
		var records []R
		if err := json.Unmarshal(val, &records); err == nil {
			return records, nil
		}

		logger.Warn().Str("key", key).Msg("corrupted cache entry, cleaning up")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn().Err(err).Msg("redis read failed")
	}

	records, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if setErr := r.cache.Set(ctx, key, data, cacheTTL).Err(); setErr != nil {
			logger.Warn().Err(setErr).Msg("redis set failed")
		}
	}

	return records, nil
}

func (r *CachedRecordRepository[R]) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]R, error) {
	return r.next.ListByUserIDInRange(ctx, userID, from, to)
}

func (r *CachedRecordRepository[R]) GetByID(ctx context.Context, id string) (R, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedRecordRepository[R]) Create(ctx context.Context, record R) error {
	if err := r.next.Create(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.OwnerID())
	return nil
}

func (r *CachedRecordRepository[R]) Update(ctx context.Context, record R) error {
	if err := r.next.Update(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.OwnerID())
	return nil
}

func (r *CachedRecordRepository[R]) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}
