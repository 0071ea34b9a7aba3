package local

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
)

const Type = "local"

const (
	// Audience used by Firebase custom tokens, so clients can treat both providers alike.
	Audience = "https://identitytoolkit.googleapis.com/google.identity.identitytoolkit.v1.IdentityToolkit"

	DefaultIssuer = "ctoken-local"
	MaxTTL        = time.Hour
	maxUIDLength  = 128
)

var (
	_ core.IdentityProvider = (*Provider)(nil)
)

type ProviderConfig struct {
	// Directory is the principal backend: "memory" (default) or "redis".
	Directory string `mapstructure:"directory"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`

	// SigningKey is the HMAC key for minted tokens. A random key is generated if empty.
	SigningKey string `mapstructure:"signing_key"`

	// Issuer is put into iss and sub of minted tokens.
	Issuer string `mapstructure:"issuer"`

	// TTL of minted tokens, capped at one hour.
	TTL time.Duration `mapstructure:"ttl"`

	// Principals seeds the directory (email -> uid).
	Principals map[string]string `mapstructure:"principals"`
}

type Provider struct {
	name       string
	dir        Directory
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

func New(name string, conf ProviderConfig, dir Directory) (*Provider, error) {
	signingKey := []byte(conf.SigningKey)
	if len(signingKey) == 0 {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
		log.Warn().Str("provider", name).Msg("no signing key configured, tokens will not survive a restart")
	}
	if conf.Issuer == "" {
		conf.Issuer = DefaultIssuer
	}
	if conf.TTL <= 0 || conf.TTL > MaxTTL {
		conf.TTL = MaxTTL
	}
	for email, uid := range conf.Principals {
		if err := dir.Insert(context.Background(), core.Principal{UID: uid, Email: email}); err != nil {
			return nil, fmt.Errorf("seeding principal %q: %w", email, err)
		}
	}
	return &Provider{
		name:       name,
		dir:        dir,
		signingKey: signingKey,
		issuer:     conf.Issuer,
		ttl:        conf.TTL,
		now:        time.Now,
	}, nil
}

func NewFromConfig(ctx context.Context, cfg config.ProviderConfig) (*Provider, error) {
	var conf ProviderConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Metadata:   nil,
		Result:     &conf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for local provider '%s': %w", cfg.Name, err)
	}
	if err := decoder.Decode(cfg.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for local provider '%s': %w", cfg.Name, err)
	}

	var dir Directory
	switch conf.Directory {
	case "", "memory":
		dir = NewMemoryDirectory()
	case "redis":
		if conf.RedisAddr == "" {
			return nil, fmt.Errorf("local provider '%s': redis directory requires redis_addr", cfg.Name)
		}
		client := redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", conf.RedisAddr, err)
		}
		dir = NewRedisDirectory(client, conf.RedisPrefix)
	default:
		return nil, fmt.Errorf("local provider '%s': unknown directory %q", cfg.Name, conf.Directory)
	}
	return New(cfg.Name, conf, dir)
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) ResolveByEmail(ctx context.Context, email string) (*core.Principal, error) {
	return p.dir.FindByEmail(ctx, email)
}

func (p *Provider) Create(ctx context.Context, email string) (*core.Principal, error) {
	principal := core.Principal{
		UID:   newUID(),
		Email: normalizeEmail(email),
	}
	if err := p.dir.Insert(ctx, principal); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().
		Str("provider", p.name).
		Str("uid", principal.UID).
		Msg("created principal")
	return &principal, nil
}

// MintToken signs a token shaped like a Firebase custom token.
func (p *Provider) MintToken(_ context.Context, principalID string, claims core.Claims) (core.SignedToken, error) {
	if principalID == "" || len(principalID) > maxUIDLength {
		return "", fmt.Errorf("uid must be a non-empty string with at most %d characters", maxUIDLength)
	}

	now := p.now()
	tokenClaims := jwt.MapClaims{
		"iss": p.issuer,
		"sub": p.issuer,
		"aud": Audience,
		"uid": principalID,
		"iat": now.Unix(),
		"exp": now.Add(p.ttl).Unix(),
	}
	if len(claims) > 0 {
		tokenClaims["claims"] = map[string]any(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	signed, err := token.SignedString(p.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign local token: %w", err)
	}
	return core.SignedToken(signed), nil
}

func (p *Provider) Close() error {
	return p.dir.Close()
}

func newUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
