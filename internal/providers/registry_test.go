package providers

import (
	"context"
	"testing"

	"github.com/darmiel/ctoken/internal/config"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ProviderConfig
		wantName string
		wantErr  bool
	}{
		{name: "Local", cfg: config.ProviderConfig{Type: "local"}, wantName: "local"},
		{name: "Named local", cfg: config.ProviderConfig{Name: "dev", Type: "local"}, wantName: "dev"},
		{name: "Firebase without credentials file", cfg: config.ProviderConfig{
			Type:   "firebase",
			Config: map[string]any{"credentials_file": "/nope/serviceAccountKey.json"},
		}, wantErr: true},
		{name: "Unknown", cfg: config.ProviderConfig{Type: "ldap"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov, err := Build(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && prov.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", prov.Name(), tt.wantName)
			}
		})
	}
}
