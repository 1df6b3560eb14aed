package redisad

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"admas_hotel/internal/domain"
)

// ReferenceRegistry reserves booking references with SETNX.
type ReferenceRegistry struct{ c *redis.Client }

func NewReferenceRegistry(c *redis.Client) *ReferenceRegistry { return &ReferenceRegistry{c: c} }

func (r *ReferenceRegistry) Reserve(ctx context.Context, ref string, ttl time.Duration) error {
	ok, err := r.c.SetNX(ctx, "bookingref:"+ref, strconv.FormatInt(time.Now().UnixNano(), 10), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrReferenceTaken
	}
	return nil
}
