package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// SampleCache keeps the latest location sample per user so the proximity
// fan-out does not hit postgres for every friend on every report. Misses
// fall through to the repository.
type SampleCache struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewSampleCache(r *Redis) *SampleCache {
	return &SampleCache{
		client: r.Client,
		prefix: "presence:sample:",
		ttl:    10 * time.Minute,
	}
}

func (c *SampleCache) Set(ctx context.Context, sample *domain.LocationSample) error {
	b, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+sample.UserID.String(), b, c.ttl).Err()
}

// GetMany returns the cached samples it finds; absent users are simply
// missing from the result map.
func (c *SampleCache) GetMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.LocationSample, error) {
	out := make(map[uuid.UUID]*domain.LocationSample, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.prefix + id.String()
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return out, nil
		}
		return nil, err
	}

	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var sample domain.LocationSample
		if err := json.Unmarshal([]byte(s), &sample); err != nil {
			continue
		}
		out[sample.UserID] = &sample
	}

	return out, nil
}
