package cache

import (
	"context"
	"errors"
	"fmt"
	"route-safety-service/internal/platform/obs"
	"route-safety-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "distance:"

// Redis backed cache for origin->destination distance results.
// Each origin is one hash; fields are destinations and values are
// "meters:seconds". A non-zero TTL expires the whole origin hash.
type RedisDistanceCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client, TTL: ttl}
}

// Fetch cached distances for one origin and multiple destinations.
func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := r.Client.HMGet(ctx, redisKeyPrefix+origin, uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		res, err := decodeRedisResult(s)
		if err != nil {
			return nil, fmt.Errorf("get distance cache dest=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = res
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}
		fields[dest] = encodeRedisResult(res)
	}

	key := redisKeyPrefix + origin

	pipe := r.Client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if r.TTL > 0 {
		pipe.Expire(ctx, key, r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: exec pipeline: %w", err)
	}

	return nil
}

func encodeRedisResult(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + ":" + strconv.Itoa(r.DurationSeconds)
}

func decodeRedisResult(s string) (ports.DistanceResult, error) {
	metersStr, secondsStr, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed cache value %q", s)
	}

	meters, err := strconv.Atoi(metersStr)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed meters in %q: %w", s, err)
	}
	seconds, err := strconv.Atoi(secondsStr)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed seconds in %q: %w", s, err)
	}

	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}
