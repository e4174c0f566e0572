package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/cms/internal/compress"
	"github.com/emrgen/cms/internal/model"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "cms:public:"

// every write bumps the organization generation, orphaning all keys built from the old one
func generationKey(organizationID string) string {
	return keyPrefix + organizationID + ":gen"
}

func contentKey(organizationID string, gen Generation, id string) string {
	return fmt.Sprintf("%s%s:%d:content:%s", keyPrefix, organizationID, gen, id)
}

func listKey(organizationID string, gen Generation, key string) string {
	return fmt.Sprintf("%s%s:%d:list:%s", keyPrefix, organizationID, gen, key)
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

var _ PublicCache = (*Redis)(nil)

type Redis struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

// NewRedis connects to redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, opts RedisOptions, encoder compress.Compress) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		Protocol: 2, // Connection protocol
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return NewRedisFromClient(client, encoder, opts.TTL), nil
}

func NewRedisFromClient(client *redis.Client, encoder compress.Compress, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if encoder == nil {
		encoder = compress.NewNop()
	}
	return &Redis{client: client, encoder: encoder, ttl: ttl}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) GetContent(ctx context.Context, organizationID, id string) (*model.Content, Generation, bool) {
	gen, err := r.generation(ctx, organizationID)
	if err != nil {
		logrus.Warnf("cache: read generation for %s: %v", organizationID, err)
		return nil, NoGeneration, false
	}

	content := &model.Content{}
	if !r.get(ctx, contentKey(organizationID, gen, id), content) {
		return nil, gen, false
	}
	return content, gen, true
}

// SetContent writes under gen, not the current generation: an item loaded before an
// invalidation must not become visible after it.
func (r *Redis) SetContent(ctx context.Context, gen Generation, content *model.Content) {
	if gen == NoGeneration {
		return
	}
	r.set(ctx, contentKey(content.OrganizationID, gen, content.ID), content)
}

func (r *Redis) GetList(ctx context.Context, organizationID, key string) (*ContentList, Generation, bool) {
	gen, err := r.generation(ctx, organizationID)
	if err != nil {
		logrus.Warnf("cache: read generation for %s: %v", organizationID, err)
		return nil, NoGeneration, false
	}

	list := &ContentList{}
	if !r.get(ctx, listKey(organizationID, gen, key), list) {
		return nil, gen, false
	}
	return list, gen, true
}

func (r *Redis) SetList(ctx context.Context, organizationID, key string, gen Generation, list *ContentList) {
	if gen == NoGeneration {
		return
	}
	r.set(ctx, listKey(organizationID, gen, key), list)
}

func (r *Redis) Invalidate(ctx context.Context, organizationID string) {
	if err := r.client.Incr(ctx, generationKey(organizationID)).Err(); err != nil {
		logrus.Errorf("cache: invalidate %s: %v", organizationID, err)
	}
}

func (r *Redis) generation(ctx context.Context, organizationID string) (Generation, error) {
	gen, err := r.client.Get(ctx, generationKey(organizationID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return Generation(gen), err
}

func (r *Redis) get(ctx context.Context, key string, v any) bool {
	buf, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("cache: get %s: %v", key, err)
		}
		return false
	}

	data, err := r.encoder.Decode(buf)
	if err != nil {
		logrus.Warnf("cache: decode %s: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logrus.Warnf("cache: unmarshal %s: %v", key, err)
		return false
	}
	return true
}

func (r *Redis) set(ctx context.Context, key string, v any) {
	value, err := json.Marshal(v)
	if err != nil {
		logrus.Warnf("cache: marshal %s: %v", key, err)
		return
	}

	data, err := r.encoder.Encode(value)
	if err != nil {
		logrus.Warnf("cache: encode %s: %v", key, err)
		return
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logrus.Warnf("cache: set %s: %v", key, err)
	}
}
