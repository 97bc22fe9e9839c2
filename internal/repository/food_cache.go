package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// FoodListCacheKey holds the JSON encoded result of GetAll.
	FoodListCacheKey = "foodreggie:foods"

	// FoodListGenerationKey is bumped by every successful write. A list read
	// from the database is only cached if the generation is unchanged since
	// before the read.
	FoodListGenerationKey = "foodreggie:foods:gen"
)

// setIfGeneration stores ARGV[2] under KEYS[1] when KEYS[2] still equals
// ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// FoodCacheRepository serves GetAll from Redis and invalidates the cached
// list on every successful write. Redis failures are logged and the inner
// repository answers instead.
type FoodCacheRepository struct {
	inner  FoodRepository
	client *redis.Client
	ttl    time.Duration
}

func NewFoodCacheRepository(inner FoodRepository, client *redis.Client, ttl time.Duration) *FoodCacheRepository {
	return &FoodCacheRepository{inner: inner, client: client, ttl: ttl}
}

func (r *FoodCacheRepository) GetAll(ctx context.Context) ([]model.Food, error) {
	logger := zerolog.Ctx(ctx)

	cached, err := r.client.Get(ctx, FoodListCacheKey).Bytes()
	switch {
	case err == nil:
		var foods []model.Food
		jsonErr := json.Unmarshal(cached, &foods)
		if jsonErr == nil {
			return foods, nil
		}
		logger.Warn().Err(jsonErr).Msg("discarding undecodable food list cache entry")
	case !errors.Is(err, redis.Nil):
		logger.Warn().Err(err).Msg("food list cache unavailable, reading from database")
		return r.inner.GetAll(ctx)
	}

	gen, err := r.client.Get(ctx, FoodListGenerationKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		logger.Warn().Err(err).Msg("food list cache generation unavailable, not caching")
		return r.inner.GetAll(ctx)
	}

	foods, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(foods)
	if err != nil {
		return foods, nil
	}

	stored, err := setIfGeneration.Run(ctx, r.client,
		[]string{FoodListCacheKey, FoodListGenerationKey},
		gen, payload, r.ttl.Milliseconds(),
	).Int()
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("failed to cache food list")
	case stored == 0:
		logger.Debug().Str("generation", gen).Msg("food list changed during read, not caching")
	}

	return foods, nil
}

func (r *FoodCacheRepository) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	return r.inner.GetFoodByID(ctx, id)
}

func (r *FoodCacheRepository) Create(ctx context.Context, food *model.Food) bool {
	return r.invalidateOn(ctx, r.inner.Create(ctx, food))
}

func (r *FoodCacheRepository) Update(ctx context.Context, food *model.Food) bool {
	return r.invalidateOn(ctx, r.inner.Update(ctx, food))
}

func (r *FoodCacheRepository) Delete(ctx context.Context, id int) bool {
	return r.invalidateOn(ctx, r.inner.Delete(ctx, id))
}

// invalidateOn bumps the generation and drops the cached list after a
// successful write, in one transaction.
func (r *FoodCacheRepository) invalidateOn(ctx context.Context, ok bool) bool {
	if !ok {
		return false
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, FoodListGenerationKey)
		pipe.Del(ctx, FoodListCacheKey)
		return nil
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate food list cache")
	}
	return true
}
