package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blogsphere/internal/config"
	"blogsphere/internal/models"
)

const (
	listPrefix      = "posts:list:"
	generationKey   = listPrefix + "gen"
	defaultCacheTTL = time.Hour
)

func KeyAll() string                     { return "all" }
func KeyCategory(category string) string { return "category:" + category }
func KeyAuthor(authorID string) string   { return "author:" + authorID }

// listKey scopes a listing to one generation. Bumping the generation orphans
// every older listing, which then expires by TTL.
func listKey(gen int64, key string) string {
	return listPrefix + "v" + strconv.FormatInt(gen, 10) + ":" + key
}

// PostCache holds post listings. Failures are logged and reported as misses,
// a request never fails because of the cache.
//
// Callers read the generation before loading from the database and store the
// result under that same generation, so a listing loaded before a mutation
// can never be served after it.
type PostCache interface {
	Generation(ctx context.Context) (int64, bool)
	GetPosts(ctx context.Context, gen int64, key string) ([]models.Post, bool)
	SetPosts(ctx context.Context, gen int64, key string, posts []models.Post)
	Invalidate(ctx context.Context)
}

type RedisCache struct {
	rc  redis.UniversalClient
	ttl time.Duration
	log *zap.Logger
}

func NewRedisClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func NewRedisCache(rc redis.UniversalClient, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{rc: rc, ttl: ttl, log: log}
}

// Generation reports false when Redis cannot be read, the caller then skips
// the cache for this request.
func (c *RedisCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.rc.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		c.log.Warn("cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *RedisCache) GetPosts(ctx context.Context, gen int64, key string) ([]models.Post, bool) {
	key = listKey(gen, key)
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		c.log.Warn("cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return posts, true
}

func (c *RedisCache) SetPosts(ctx context.Context, gen int64, key string, posts []models.Post) {
	key = listKey(gen, key)
	b, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate moves listings to a new generation.
func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.rc.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Error("cache invalidate failed, listings may be stale until they expire", zap.Error(err))
	}
}

// NopCache is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Generation(context.Context) (int64, bool)                      { return 0, false }
func (NopCache) GetPosts(context.Context, int64, string) ([]models.Post, bool) { return nil, false }
func (NopCache) SetPosts(context.Context, int64, string, []models.Post)        {}
func (NopCache) Invalidate(context.Context)                                    {}
