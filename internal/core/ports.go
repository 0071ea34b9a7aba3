package core

import "context"

// IdentityProvider is the external system of record for principals and token signing.
// Implementations: Firebase, Local (JWT + directory).
type IdentityProvider interface {
	// Name returns the identifier of this provider (as used in config).
	Name() string

	// ResolveByEmail looks up a principal by email.
	// It returns ErrPrincipalNotFound (possibly wrapped) if there is none.
	ResolveByEmail(ctx context.Context, email string) (*Principal, error)

	// Create creates a new, unverified principal with the given email.
	Create(ctx context.Context, email string) (*Principal, error)

	// MintToken creates a signed custom token for the principal id carrying the claims.
	MintToken(ctx context.Context, principalID string, claims Claims) (SignedToken, error)
}
