package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

const (
	DefaultPort            = 3000
	DefaultProviderType    = "firebase"
	DefaultCredentialsFile = "env/serviceAccountKey.json"
	DefaultAuditPath       = "audit.log"
)

type Config struct {
	// APIKeys are the keys allowed to request tokens.
	APIKeys []string `yaml:"api_keys"`

	// AllowDefaultKey permits the built-in fallback key when APIKeys is empty.
	AllowDefaultKey bool `yaml:"allow_default_key"`

	// CreateOnMiss creates principals that do not exist yet in the email flow.
	CreateOnMiss bool `yaml:"create_on_miss"`

	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Audit    AuditConfig    `yaml:"audit"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// AllowedOrigins for CORS. Defaults to all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// ProviderConfig holds configuration for the identity provider.
type ProviderConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "firebase", "local"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// AuditConfig holds configuration for auditing.
type AuditConfig struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"` // e.g., "noop", "file", "memory"

	// MaxEntries bounds the memory auditor.
	MaxEntries int `yaml:"max_entries"`
}

// Default returns the configuration used when no file is given.
// It mirrors the behavior of a fresh local setup.
func Default() *Config {
	return &Config{
		AllowDefaultKey: true,
		CreateOnMiss:    true,
		Server: ServerConfig{
			Port:           DefaultPort,
			AllowedOrigins: []string{"*"},
		},
		Provider: ProviderConfig{
			Name: DefaultProviderType,
			Type: DefaultProviderType,
			Config: map[string]any{
				"credentials_file": DefaultCredentialsFile,
			},
		},
		Audit: AuditConfig{
			Type: "noop",
			Path: DefaultAuditPath,
		},
	}
}

// Load reads and parses the configuration file at the given path on top of Default.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	// the provider section replaces the default one entirely
	cfg.Provider = ProviderConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Provider.Type == "" {
		cfg.Provider = Default().Provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Provider.Type == "" {
		return fmt.Errorf("provider.type is required")
	}
	if c.Provider.Name == "" {
		c.Provider.Name = c.Provider.Type
	}
	if len(c.APIKeys) == 0 && !c.AllowDefaultKey {
		return fmt.Errorf("api_keys is empty and allow_default_key is false")
	}
	return nil
}
