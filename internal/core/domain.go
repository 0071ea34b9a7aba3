package core

import "errors"

// Role values attached to every issued token.
const RoleAdmin = "admin"

// Claim names used when building custom claims.
const (
	ClaimRole   = "role"
	ClaimAPIKey = "apiKey"
	ClaimEmail  = "email"
)

var (
	// ErrPrincipalNotFound is returned by an IdentityProvider when no principal matches a lookup.
	// It is the only error that allows the email flow to create a new principal.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrPrincipalExists is returned when creating a principal whose email is already taken.
	ErrPrincipalExists = errors.New("principal already exists")
)

// Principal is a user record owned by the identity provider.
type Principal struct {
	// UID is the stable unique identifier assigned by the provider.
	UID string `json:"uid"`

	// Email is the email attribute of the principal, if any.
	Email string `json:"email,omitempty"`
}

// ReferenceKind tells how a request refers to its principal.
type ReferenceKind int

const (
	ByID ReferenceKind = iota
	ByEmail
)

func (k ReferenceKind) String() string {
	switch k {
	case ByID:
		return "id"
	case ByEmail:
		return "email"
	default:
		return "unknown"
	}
}

// PrincipalReference is what a caller supplies to identify the principal a token is issued for.
type PrincipalReference struct {
	Kind  ReferenceKind
	ID    string
	Email string
}

// Value returns the id or the email, depending on Kind.
func (r PrincipalReference) Value() string {
	if r.Kind == ByEmail {
		return r.Email
	}
	return r.ID
}

// Claims are custom claims embedded into a minted token.
// They are built per request and never shared.
type Claims map[string]any

// AdminClaims builds the claim set for the id flow.
func AdminClaims(apiKey string) Claims {
	return Claims{
		ClaimRole:   RoleAdmin,
		ClaimAPIKey: apiKey,
	}
}

// AdminEmailClaims builds the claim set for the email flow.
func AdminEmailClaims(email, apiKey string) Claims {
	return Claims{
		ClaimRole:   RoleAdmin,
		ClaimEmail:  email,
		ClaimAPIKey: apiKey,
	}
}

// SignedToken is an opaque token string returned by the identity provider.
type SignedToken string

func (t SignedToken) String() string {
	return string(t)
}
