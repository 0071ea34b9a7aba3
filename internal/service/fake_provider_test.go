package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/darmiel/ctoken/internal/core"
)

type mintCall struct {
	PrincipalID string
	Claims      core.Claims
}

// fakeProvider records every call made to it.
type fakeProvider struct {
	mu sync.Mutex

	users      map[string]string // email -> uid
	resolveErr error
	createErr  error
	mintErr    error

	resolveCalls []string
	createCalls  []string
	mintCalls    []mintCall
	nextUID      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: make(map[string]string)}
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func (f *fakeProvider) ResolveByEmail(_ context.Context, email string) (*core.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls = append(f.resolveCalls, email)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	uid, ok := f.users[email]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrPrincipalNotFound, email)
	}
	return &core.Principal{UID: uid, Email: email}, nil
}

func (f *fakeProvider) Create(_ context.Context, email string) (*core.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, email)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextUID++
	uid := fmt.Sprintf("new-uid-%d", f.nextUID)
	f.users[email] = uid
	return &core.Principal{UID: uid, Email: email}, nil
}

func (f *fakeProvider) MintToken(_ context.Context, principalID string, claims core.Claims) (core.SignedToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mintCalls = append(f.mintCalls, mintCall{PrincipalID: principalID, Claims: claims})
	if f.mintErr != nil {
		return "", f.mintErr
	}
	return core.SignedToken("token-for-" + principalID), nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resolveCalls) + len(f.createCalls) + len(f.mintCalls)
}
