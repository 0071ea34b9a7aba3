package metrics

import (
	"context"
	"time"

	"github.com/darmiel/ctoken/internal/core"
)

var _ core.IdentityProvider = (*instrumentedProvider)(nil)

type instrumentedProvider struct {
	next    core.IdentityProvider
	metrics *Metrics
}

// InstrumentProvider wraps p so that every call is timed.
func InstrumentProvider(p core.IdentityProvider, m *Metrics) core.IdentityProvider {
	if m == nil {
		return p
	}
	return &instrumentedProvider{next: p, metrics: m}
}

func (p *instrumentedProvider) Name() string {
	return p.next.Name()
}

func (p *instrumentedProvider) ResolveByEmail(ctx context.Context, email string) (*core.Principal, error) {
	start := time.Now()
	principal, err := p.next.ResolveByEmail(ctx, email)
	p.metrics.observeProviderCall("resolve", time.Since(start).Seconds(), err)
	return principal, err
}

func (p *instrumentedProvider) Create(ctx context.Context, email string) (*core.Principal, error) {
	start := time.Now()
	principal, err := p.next.Create(ctx, email)
	p.metrics.observeProviderCall("create", time.Since(start).Seconds(), err)
	return principal, err
}

func (p *instrumentedProvider) MintToken(ctx context.Context, principalID string, claims core.Claims) (core.SignedToken, error) {
	start := time.Now()
	tok, err := p.next.MintToken(ctx, principalID, claims)
	p.metrics.observeProviderCall("mint", time.Since(start).Seconds(), err)
	return tok, err
}
