package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/catalog-service/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var errStaleRead = errors.New("product changed while it was being read")

const (
	productCachePrefix   = "catalog:product:"
	productVersionPrefix = "catalog:product-version:"

	versionTTL = 24 * time.Hour
)

// CachedProductStore is a read-through Redis cache in front of a ProductStore.
// Only lookups by id are cached; listings always hit the wrapped store.
// Redis failures are logged and never fail the request.
//
// Writers bump a per-product version after writing. A reader fills the cache
// only if that version is unchanged since before it queried the store, so a
// row loaded before a concurrent update or delete is never cached.
type CachedProductStore struct {
	next  ProductStore
	rdb   *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
	group singleflight.Group
}

func NewCachedProductStore(next ProductStore, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *CachedProductStore {
	return &CachedProductStore{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log,
	}
}

func productCacheKey(id string) string {
	return productCachePrefix + id
}

func productVersionKey(id string) string {
	return productVersionPrefix + id
}

func (c *CachedProductStore) FindByField(ctx context.Context, field ProductField, value string) (models.Product, error) {
	if field != FieldID {
		return c.next.FindByField(ctx, field, value)
	}

	key := productCacheKey(value)
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		c.log.WithField("key", key).Warn("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).WithField("key", key).Warn("product cache read failed")
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		version, verErr := c.rdb.Get(ctx, productVersionKey(value)).Result()
		if verErr != nil && !errors.Is(verErr, redis.Nil) {
			c.log.WithError(verErr).WithField("product_id", value).Warn("product cache version read failed")
		}

		p, err := c.next.FindByField(ctx, FieldID, value)
		if err != nil {
			return models.Product{}, err
		}
		if verErr == nil || errors.Is(verErr, redis.Nil) {
			c.storeIfUnchanged(ctx, p, version)
		}
		return p, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return v.(models.Product), nil
}

func (c *CachedProductStore) FindAndCount(ctx context.Context, q ProductQuery) ([]models.Product, int, error) {
	return c.next.FindAndCount(ctx, q)
}

func (c *CachedProductStore) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	return c.next.Insert(ctx, p)
}

func (c *CachedProductStore) Persist(ctx context.Context, p models.Product) (models.Product, error) {
	updated, err := c.next.Persist(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	c.invalidate(ctx, p.ID)
	return updated, nil
}

func (c *CachedProductStore) SoftDelete(ctx context.Context, p models.Product) error {
	if err := c.next.SoftDelete(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID)
	return nil
}

// storeIfUnchanged caches p unless the product's version moved away from
// seen, which is "" when no version existed.
func (c *CachedProductStore) storeIfUnchanged(ctx context.Context, p models.Product, seen string) {
	data, err := json.Marshal(p)
	if err != nil {
		c.log.WithError(err).WithField("product_id", p.ID).Warn("product cache encode failed")
		return
	}

	versionKey := productVersionKey(p.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != seen {
			return errStaleRead
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productCacheKey(p.ID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		c.log.WithField("product_id", p.ID).Debug("skipping cache fill after concurrent write")
	default:
		c.log.WithError(err).WithField("product_id", p.ID).Warn("product cache write failed")
	}
}

// invalidate bumps the product's version before dropping its entry, so
// readers still holding an older row cannot put it back.
func (c *CachedProductStore) invalidate(ctx context.Context, id string) {
	versionKey := productVersionKey(id)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.Expire(ctx, versionKey, versionTTL)
		pipe.Del(ctx, productCacheKey(id))
		return nil
	})
	if err != nil {
		c.log.WithError(err).WithField("product_id", id).Warn("product cache invalidation failed")
	}
}
