package local

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/darmiel/ctoken/internal/core"
)

// Directory stores the principals known to the local provider.
type Directory interface {
	// FindByEmail returns core.ErrPrincipalNotFound if no principal has the email.
	FindByEmail(ctx context.Context, email string) (*core.Principal, error)

	// Insert stores a principal. It returns core.ErrPrincipalExists if the email is taken.
	Insert(ctx context.Context, principal core.Principal) error

	Close() error
}

// emails are matched case-insensitively
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Directory = (*MemoryDirectory)(nil)

type MemoryDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]core.Principal
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byEmail: make(map[string]core.Principal),
	}
}

func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*core.Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrPrincipalNotFound, email)
	}
	return &p, nil
}

func (d *MemoryDirectory) Insert(_ context.Context, principal core.Principal) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := normalizeEmail(principal.Email)
	if _, exists := d.byEmail[key]; exists {
		return fmt.Errorf("%w: %s", core.ErrPrincipalExists, principal.Email)
	}
	d.byEmail[key] = principal
	return nil
}

func (d *MemoryDirectory) Close() error {
	return nil
}
