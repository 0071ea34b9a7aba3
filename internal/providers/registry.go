package providers

import (
	"context"
	"fmt"

	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
	"github.com/darmiel/ctoken/internal/providers/firebase"
	"github.com/darmiel/ctoken/internal/providers/local"
)

// Build initializes the configured identity provider.
// Credentials and connections are established here so that a broken setup fails at startup.
func Build(ctx context.Context, cfg config.ProviderConfig) (core.IdentityProvider, error) {
	if cfg.Name == "" {
		cfg.Name = cfg.Type
	}
	switch cfg.Type {
	case firebase.Type:
		prov, err := firebase.NewFromConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("building firebase provider %q: %w", cfg.Name, err)
		}
		return prov, nil
	case local.Type:
		prov, err := local.NewFromConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("building local provider %q: %w", cfg.Name, err)
		}
		return prov, nil
	default:
		return nil, fmt.Errorf("unknown provider type %q for provider %q", cfg.Type, cfg.Name)
	}
}

