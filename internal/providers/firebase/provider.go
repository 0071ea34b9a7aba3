package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/darmiel/ctoken/internal/buildinfo"
	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
)

const Type = "firebase"

var (
	_ core.IdentityProvider = (*Provider)(nil)
)

type ProviderConfig struct {
	// CredentialsFile is the path to a service account key JSON file.
	CredentialsFile string `mapstructure:"credentials_file"`

	// CredentialsJSON is the content of a service account key.
	// Takes precedence over CredentialsFile.
	CredentialsJSON string `mapstructure:"credentials_json"`

	// ProjectID overrides the project id found in the credentials.
	ProjectID string `mapstructure:"project_id"`
}

// authClient is the subset of *auth.Client used by the provider.
type authClient interface {
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	CustomTokenWithClaims(ctx context.Context, uid string, devClaims map[string]interface{}) (string, error)
}

type Provider struct {
	name   string
	client authClient

	isNotFound func(error) bool
	isExists   func(error) bool
}

// New initializes the Firebase Admin SDK. Credentials are loaded here, not on first use.
func New(ctx context.Context, name string, conf ProviderConfig) (*Provider, error) {
	opts := []option.ClientOption{
		option.WithUserAgent(buildinfo.UserAgent()),
	}
	switch {
	case conf.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(conf.CredentialsJSON)))
	case conf.CredentialsFile != "":
		if _, err := os.Stat(conf.CredentialsFile); err != nil {
			return nil, fmt.Errorf("reading service account key: %w", err)
		}
		opts = append(opts, option.WithCredentialsFile(conf.CredentialsFile))
	default:
		log.Info().Str("provider", name).Msg("no credentials configured, using application default credentials")
	}

	var appConf *fb.Config
	if conf.ProjectID != "" {
		appConf = &fb.Config{ProjectID: conf.ProjectID}
	}

	app, err := fb.NewApp(ctx, appConf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth client: %w", err)
	}
	return newWithClient(name, client), nil
}

func newWithClient(name string, client authClient) *Provider {
	return &Provider{
		name:       name,
		client:     client,
		isNotFound: auth.IsUserNotFound,
		isExists:   auth.IsEmailAlreadyExists,
	}
}

func NewFromConfig(ctx context.Context, cfg config.ProviderConfig) (*Provider, error) {
	var conf ProviderConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &conf,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder for firebase provider '%s': %w", cfg.Name, err)
	}
	if err := decoder.Decode(cfg.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config for firebase provider '%s': %w", cfg.Name, err)
	}
	return New(ctx, cfg.Name, conf)
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) ResolveByEmail(ctx context.Context, email string) (*core.Principal, error) {
	rec, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if p.isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrPrincipalNotFound, email)
		}
		return nil, err
	}
	return toPrincipal(rec)
}

func (p *Provider) Create(ctx context.Context, email string) (*core.Principal, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		EmailVerified(false)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if p.isExists(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrPrincipalExists, email)
		}
		return nil, err
	}
	return toPrincipal(rec)
}

func (p *Provider) MintToken(ctx context.Context, principalID string, claims core.Claims) (core.SignedToken, error) {
	tok, err := p.client.CustomTokenWithClaims(ctx, principalID, claims)
	if err != nil {
		return "", err
	}
	return core.SignedToken(tok), nil
}

var errIncompleteRecord = errors.New("firebase returned a user record without uid")

func toPrincipal(rec *auth.UserRecord) (*core.Principal, error) {
	if rec == nil || rec.UserInfo == nil || rec.UID == "" {
		return nil, errIncompleteRecord
	}
	return &core.Principal{
		UID:   rec.UID,
		Email: rec.Email,
	}, nil
}
