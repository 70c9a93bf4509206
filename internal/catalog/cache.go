package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/dmtzv/ecommerce-api/internal/redisx"
)

// Store is what handlers consume; Repo and CachedRepo both satisfy it.
type Store interface {
	Create(ctx context.Context, in ProductInput) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAvailable(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

// CachedRepo is a read-through cache in front of Repo. Redis failures are
// logged and the database answers instead; the cache is never the source of
// truth.
type CachedRepo struct {
	Repo  *Repo
	Redis *redis.Client
}

func (c *CachedRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	key := fmt.Sprintf(redisx.KeyProduct, id)

	data, err := c.Redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p Product
		if jerr := json.Unmarshal(data, &p); jerr == nil {
			return &p, nil
		}
		log.Printf("cache: bad product payload for %s, falling through", key)
	case errors.Is(err, redis.Nil):
	default:
		log.Printf("cache: redis get %s: %v", key, err)
	}

	p, err := c.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, jerr := json.Marshal(p); jerr == nil {
		if serr := c.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err(); serr != nil {
			log.Printf("cache: redis set %s: %v", key, serr)
		}
	}
	return p, nil
}

func (c *CachedRepo) ListAvailable(ctx context.Context) ([]Product, error) {
	data, err := c.Redis.Get(ctx, redisx.KeyProductsAll).Bytes()
	if err == nil {
		var ps []Product
		if jerr := json.Unmarshal(data, &ps); jerr == nil {
			return ps, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("cache: redis get %s: %v", redisx.KeyProductsAll, err)
	}

	ps, err := c.Repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if b, jerr := json.Marshal(ps); jerr == nil {
		_ = c.Redis.Set(ctx, redisx.KeyProductsAll, b, redisx.TTLProductCache).Err()
	}
	return ps, nil
}

func (c *CachedRepo) Create(ctx context.Context, in ProductInput) (*Product, error) {
	p, err := c.Repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, p.ID)
	return p, nil
}

func (c *CachedRepo) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	p, err := c.Repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return p, nil
}

func (c *CachedRepo) Delete(ctx context.Context, id int64) error {
	if err := c.Repo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Invalidate drops cached entries for the given products plus the listing.
// The orders handler calls it after stock decrements.
func (c *CachedRepo) Invalidate(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		c.invalidate(ctx, id)
	}
}

func (c *CachedRepo) invalidate(ctx context.Context, id int64) {
	key := fmt.Sprintf(redisx.KeyProduct, id)
	if err := c.Redis.Del(ctx, key, redisx.KeyProductsAll).Err(); err != nil {
		log.Printf("cache: redis del %s: %v", key, err)
	}
}
