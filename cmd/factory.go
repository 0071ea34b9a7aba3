package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/darmiel/ctoken/internal/apikey"
	"github.com/darmiel/ctoken/internal/audit"
	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
	"github.com/darmiel/ctoken/internal/metrics"
	"github.com/darmiel/ctoken/internal/providers"
	"github.com/darmiel/ctoken/internal/service"
	"github.com/darmiel/ctoken/pkg/client"
)

// Environment / viper keys that overlay the server configuration.
const (
	APIKeysKey         = "admin_api_keys"
	AllowDefaultKeyKey = "allow_default_key"
	CreateOnMissKey    = "create_on_miss"
	PortKey            = "port"
	HostKey            = "host"
	AllowedOriginsKey  = "cors.allowed_origins"
	ProviderTypeKey    = "provider.type"
	AuditTypeKey       = "audit.type"
	AuditPathKey       = "audit.path"
)

// providerStringKeys are copied verbatim into the provider section when set.
var providerStringKeys = []string{
	"credentials_file",
	"credentials_json",
	"project_id",
	"directory",
	"redis_addr",
	"redis_password",
	"redis_prefix",
	"signing_key",
	"issuer",
	"ttl",
}

type Factory struct {
	// RemoteAddr is the address of the ctoken server to connect to.
	RemoteAddr string

	// ConfigPath is the optional server configuration file.
	ConfigPath string
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set CTOKEN_SERVER)")
	}
	return client.New(server), nil
}

// LoadConfig reads the configuration file (or the defaults) and applies the overrides from v.
func (f *Factory) LoadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if f.ConfigPath != "" {
		loaded, err := config.Load(f.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	ApplyOverrides(cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// listValue reads a comma separated list. Env values arrive as one string and
// are split on commas only, so entries may contain spaces.
func listValue(v *viper.Viper, key string) []string {
	switch val := v.Get(key).(type) {
	case string:
		return apikey.ParseList(val)
	case []string:
		return apikey.ParseList(strings.Join(val, ","))
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return apikey.ParseList(strings.Join(parts, ","))
	default:
		return apikey.ParseList(v.GetString(key))
	}
}

// ApplyOverrides overlays every key that is set in v (flag, env or user config) onto cfg.
func ApplyOverrides(cfg *config.Config, v *viper.Viper) {
	if v.IsSet(APIKeysKey) {
		cfg.APIKeys = listValue(v, APIKeysKey)
	}
	if v.IsSet(AllowDefaultKeyKey) {
		cfg.AllowDefaultKey = v.GetBool(AllowDefaultKeyKey)
	}
	if v.IsSet(CreateOnMissKey) {
		cfg.CreateOnMiss = v.GetBool(CreateOnMissKey)
	}
	if v.IsSet(PortKey) {
		cfg.Server.Port = v.GetInt(PortKey)
	}
	if v.IsSet(HostKey) {
		cfg.Server.Host = v.GetString(HostKey)
	}
	if v.IsSet(AllowedOriginsKey) {
		cfg.Server.AllowedOrigins = listValue(v, AllowedOriginsKey)
	}

	if v.IsSet(ProviderTypeKey) {
		typ := v.GetString(ProviderTypeKey)
		if typ != cfg.Provider.Type {
			// switching the type drops the settings of the previous provider
			if typ == config.DefaultProviderType {
				cfg.Provider = config.Default().Provider
			} else {
				cfg.Provider = config.ProviderConfig{Name: typ, Type: typ}
			}
		}
	}
	if cfg.Provider.Config == nil {
		cfg.Provider.Config = make(map[string]any)
	}
	for _, key := range providerStringKeys {
		if v.IsSet("provider." + key) {
			cfg.Provider.Config[key] = v.GetString("provider." + key)
		}
	}
	if v.IsSet("provider.redis_db") {
		cfg.Provider.Config["redis_db"] = v.GetInt("provider.redis_db")
	}

	if v.IsSet(AuditTypeKey) {
		cfg.Audit.Type = v.GetString(AuditTypeKey)
	}
	if v.IsSet(AuditPathKey) {
		cfg.Audit.Path = v.GetString(AuditPathKey)
	}
}

// Runtime bundles everything the issuance flow needs.
type Runtime struct {
	AllowList *apikey.AllowList
	Provider  core.IdentityProvider
	Auditor   core.Auditor
	Metrics   *metrics.Metrics
	Service   *service.IssuanceService
}

// BuildRuntime initializes the provider, auditor and service described by cfg.
// Any failure here must abort startup.
func BuildRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	allowList, err := apikey.NewAllowList(cfg.APIKeys, cfg.AllowDefaultKey)
	if err != nil {
		return nil, fmt.Errorf("building api key allow-list: %w", err)
	}
	if allowList.UsingFallback() {
		log.Warn().
			Str("key", apikey.DefaultKey).
			Msg("No ADMIN_API_KEYS configured, accepting the built-in default key. Do NOT use this in production!")
	} else {
		log.Info().Strs("keys", allowList.Hints()).Msgf("Loaded %d api key(s)", allowList.Len())
	}

	log.Info().Str("type", cfg.Provider.Type).Msg("Initializing identity provider...")
	provider, err := providers.Build(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}

	auditor, err := audit.New(cfg.Audit)
	if err != nil {
		_ = closeProvider(provider)
		return nil, fmt.Errorf("building auditor: %w", err)
	}

	m := metrics.New()
	svc := service.NewIssuanceService(
		allowList,
		metrics.InstrumentProvider(provider, m),
		auditor,
		m,
		service.Options{
			CreateOnMiss:    cfg.CreateOnMiss,
			FingerprintType: cfg.Provider.Type,
		},
	)

	return &Runtime{
		AllowList: allowList,
		Provider:  provider,
		Auditor:   auditor,
		Metrics:   m,
		Service:   svc,
	}, nil
}

func closeProvider(p core.IdentityProvider) error {
	if closer, ok := p.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Close releases the provider connections and flushes the auditor.
func (r *Runtime) Close() error {
	return errors.Join(
		closeProvider(r.Provider),
		r.Auditor.Close(),
	)
}
