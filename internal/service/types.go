package service

import "github.com/darmiel/ctoken/internal/core"

type IssueResult struct {
	// Token is the signed token returned by the identity provider.
	Token core.SignedToken

	// PrincipalID is the uid the token was issued for.
	PrincipalID string

	// Created is true if the principal was created by this request.
	Created bool
}

type Options struct {
	// CreateOnMiss allows the email flow to create principals that do not exist yet.
	CreateOnMiss bool

	// FingerprintType selects how issued tokens are fingerprinted in audit entries.
	FingerprintType string
}
