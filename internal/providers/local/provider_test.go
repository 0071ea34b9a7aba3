package local

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/darmiel/ctoken/internal/config"
	"github.com/darmiel/ctoken/internal/core"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestProvider(t *testing.T, dir Directory) *Provider {
	t.Helper()
	p, err := New("local", ProviderConfig{SigningKey: string(testKey)}, dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func parse(t *testing.T, tok core.SignedToken) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(tok.String(), func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return testKey, nil
	}, jwt.WithAudience(Audience))
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	return parsed.Claims.(jwt.MapClaims)
}

func TestProvider_MintToken(t *testing.T) {
	p := newTestProvider(t, NewMemoryDirectory())
	fixed := time.Now().Truncate(time.Second)
	p.now = func() time.Time { return fixed }

	tok, err := p.MintToken(context.Background(), "u1", core.AdminClaims("k1"))
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	claims := parse(t, tok)
	if claims["uid"] != "u1" || claims["iss"] != DefaultIssuer || claims["sub"] != DefaultIssuer {
		t.Errorf("unexpected registered claims: %v", claims)
	}
	exp, _ := claims.GetExpirationTime()
	if !exp.Time.Equal(fixed.Add(MaxTTL)) {
		t.Errorf("exp = %v, want %v", exp.Time, fixed.Add(MaxTTL))
	}
	want := map[string]any{"role": "admin", "apiKey": "k1"}
	if diff := cmp.Diff(want, claims["claims"]); diff != "" {
		t.Errorf("custom claims mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_MintToken_InvalidUID(t *testing.T) {
	p := newTestProvider(t, NewMemoryDirectory())
	long := make([]byte, maxUIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	for _, uid := range []string{"", string(long)} {
		if _, err := p.MintToken(context.Background(), uid, core.AdminClaims("k1")); err == nil {
			t.Errorf("MintToken(%d chars) expected error", len(uid))
		}
	}
}

func testDirectoryFlow(t *testing.T, dir Directory) {
	t.Helper()
	ctx := context.Background()
	p := newTestProvider(t, dir)

	if _, err := p.ResolveByEmail(ctx, "new@x.com"); !errors.Is(err, core.ErrPrincipalNotFound) {
		t.Fatalf("ResolveByEmail() error = %v, want ErrPrincipalNotFound", err)
	}

	created, err := p.Create(ctx, "New@X.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.UID == "" || created.Email != "new@x.com" {
		t.Errorf("Create() = %+v", created)
	}

	found, err := p.ResolveByEmail(ctx, "new@x.com")
	if err != nil {
		t.Fatalf("ResolveByEmail() error = %v", err)
	}
	if found.UID != created.UID {
		t.Errorf("ResolveByEmail() uid = %q, want %q", found.UID, created.UID)
	}

	if _, err := p.Create(ctx, "new@x.com"); !errors.Is(err, core.ErrPrincipalExists) {
		t.Errorf("second Create() error = %v, want ErrPrincipalExists", err)
	}
}

func TestProvider_MemoryDirectory(t *testing.T) {
	testDirectoryFlow(t, NewMemoryDirectory())
}

func TestProvider_RedisDirectory(t *testing.T) {
	mr := miniredis.RunT(t)
	p, err := NewFromConfig(context.Background(), config.ProviderConfig{
		Name: "local",
		Type: Type,
		Config: map[string]any{
			"directory":   "redis",
			"redis_addr":  mr.Addr(),
			"signing_key": string(testKey),
		},
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	defer p.Close()

	testDirectoryFlow(t, p.dir)

	if !mr.Exists(DefaultRedisPrefix + "principal:email:new@x.com") {
		t.Error("expected principal key in redis")
	}
}

func TestProvider_ConcurrentCreate(t *testing.T) {
	p := newTestProvider(t, NewMemoryDirectory())

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Create(context.Background(), "race@x.com"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if succeeded != 1 {
		t.Errorf("%d concurrent creates succeeded, want exactly 1", succeeded)
	}
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		conf    map[string]any
		wantErr bool
	}{
		{name: "Defaults", conf: map[string]any{}},
		{name: "TTL and seed", conf: map[string]any{
			"ttl":        "15m",
			"principals": map[string]any{"seed@x.com": "seed-uid"},
		}},
		{name: "Unknown directory", conf: map[string]any{"directory": "etcd"}, wantErr: true},
		{name: "Redis without addr", conf: map[string]any{"directory": "redis"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFromConfig(context.Background(), config.ProviderConfig{Name: "local", Type: Type, Config: tt.conf})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if p != nil {
				_ = p.Close()
			}
		})
	}
}

func TestNewFromConfig_Seed(t *testing.T) {
	p, err := NewFromConfig(context.Background(), config.ProviderConfig{
		Name:   "local",
		Type:   Type,
		Config: map[string]any{"ttl": "15m", "principals": map[string]any{"seed@x.com": "seed-uid"}},
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if p.ttl != 15*time.Minute {
		t.Errorf("ttl = %v, want 15m", p.ttl)
	}
	found, err := p.ResolveByEmail(context.Background(), "seed@x.com")
	if err != nil || found.UID != "seed-uid" {
		t.Errorf("ResolveByEmail(seed) = %+v, %v", found, err)
	}
}
