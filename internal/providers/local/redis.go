package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/darmiel/ctoken/internal/core"
)

const DefaultRedisPrefix = "ctoken:"

var _ Directory = (*RedisDirectory)(nil)

// RedisDirectory keeps an email -> uid index in redis.
type RedisDirectory struct {
	client *redis.Client
	prefix string
}

func NewRedisDirectory(client *redis.Client, prefix string) *RedisDirectory {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisDirectory{
		client: client,
		prefix: prefix,
	}
}

func (d *RedisDirectory) key(email string) string {
	return d.prefix + "principal:email:" + normalizeEmail(email)
}

func (d *RedisDirectory) FindByEmail(ctx context.Context, email string) (*core.Principal, error) {
	uid, err := d.client.Get(ctx, d.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", core.ErrPrincipalNotFound, email)
		}
		return nil, fmt.Errorf("looking up principal: %w", err)
	}
	return &core.Principal{UID: uid, Email: normalizeEmail(email)}, nil
}

func (d *RedisDirectory) Insert(ctx context.Context, principal core.Principal) error {
	ok, err := d.client.SetNX(ctx, d.key(principal.Email), principal.UID, 0).Result()
	if err != nil {
		return fmt.Errorf("storing principal: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrPrincipalExists, principal.Email)
	}
	return nil
}

func (d *RedisDirectory) Close() error {
	return d.client.Close()
}
