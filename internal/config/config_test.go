package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want :3000", cfg.Server.Addr())
	}
	if cfg.Provider.Type != "firebase" || cfg.Provider.Config["credentials_file"] != DefaultCredentialsFile {
		t.Errorf("unexpected default provider: %+v", cfg.Provider)
	}
	if !cfg.AllowDefaultKey || !cfg.CreateOnMiss {
		t.Error("default config must keep fallback key and create-on-miss enabled")
	}
}

func TestParse(t *testing.T) {
	input := `
api_keys: [k1, k2]
allow_default_key: false
server:
  host: 127.0.0.1
  port: 8081
provider:
  type: local
  directory: redis
  redis_addr: localhost:6379
audit:
  type: file
  path: /tmp/audit.log
`
	cfg, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.APIKeys, []string{"k1", "k2"}) {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.AllowDefaultKey {
		t.Error("AllowDefaultKey should be false")
	}
	if !cfg.CreateOnMiss {
		t.Error("CreateOnMiss should keep its default")
	}
	if cfg.Server.Addr() != "127.0.0.1:8081" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Provider.Type != "local" || cfg.Provider.Name != "local" {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Config["directory"] != "redis" || cfg.Provider.Config["redis_addr"] != "localhost:6379" {
		t.Errorf("Provider.Config = %v", cfg.Provider.Config)
	}
	if cfg.Audit.Type != "file" || cfg.Audit.Path != "/tmp/audit.log" {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "No keys and no fallback", input: "allow_default_key: false\n"},
		{name: "Bad port", input: "server:\n  port: 70000\n"},
		{name: "Broken yaml", input: "api_keys: [k1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctoken.yaml")
	if err := os.WriteFile(path, []byte("api_keys: [k1]\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.Type != DefaultProviderType {
		t.Errorf("missing provider section should fall back to %q, got %q", DefaultProviderType, cfg.Provider.Type)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}
}
