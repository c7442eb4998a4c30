package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mttr:upload:"

// RedisStore keeps uploads in Redis with a TTL, so sessions survive restarts
// and are shared between replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type Options struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type Option func(*Options)

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithPassword(pass string) Option {
	return func(o *Options) {
		o.Password = pass
	}
}

func WithDB(db int) Option {
	return func(o *Options) {
		o.DB = db
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts ...Option) (*RedisStore, error) {
	options := &Options{
		Address: "localhost:6379",
		TTL:     24 * time.Hour,
	}
	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client, ttl: options.TTL}, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, up Upload) error {
	data, err := json.Marshal(up)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (Upload, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Upload{}, ErrNotFound
	}
	if err != nil {
		return Upload{}, err
	}
	var up Upload
	if err := json.Unmarshal(val, &up); err != nil {
		return Upload{}, err
	}
	return up, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
