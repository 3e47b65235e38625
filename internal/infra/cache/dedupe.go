package cache

import (
	"context"
	"errors"
	"time"

	"grooming-waitlist/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "waitlist:inbound:"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// InboundDeduper stores the first resolution per provider message id.
type InboundDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewInboundDeduper(client *redis.Client, ttl time.Duration) *InboundDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InboundDeduper{client: client, ttl: ttl}
}

func (d *InboundDeduper) Lookup(ctx context.Context, messageID string) ([]byte, bool, error) {
	raw, err := d.client.Get(ctx, keyPrefix+messageID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Remember keeps an existing value; a redelivery racing the first delivery must not
// overwrite its answer.
func (d *InboundDeduper) Remember(ctx context.Context, messageID string, resolution []byte) error {
	return d.client.SetNX(ctx, keyPrefix+messageID, resolution, d.ttl).Err()
}

// NoopDeduper is used when Redis is not configured.
type NoopDeduper struct{}

func (NoopDeduper) Lookup(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NoopDeduper) Remember(context.Context, string, []byte) error       { return nil }
