package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "token.issue_by_email")
	Action string `json:"action"`

	// Provider is the identity provider used for the request
	Provider string `json:"provider,omitempty"`

	// PrincipalID is the uid the token was (or would have been) issued for
	PrincipalID string `json:"principal_id,omitempty"`
	// Email is set for the email flow
	Email string `json:"email,omitempty"`
	// PrincipalCreated is true if the request created a new principal
	PrincipalCreated bool `json:"principal_created,omitempty"`

	// APIKeyHint is a masked form of the presented API key
	APIKeyHint string `json:"api_key_hint,omitempty"`

	// Decision details
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Stacktrace contains the underlying error, if any
	Stacktrace string `json:"stacktrace,omitempty"`

	// TokenFingerprint identifies the issued token without revealing it
	TokenFingerprint string `json:"token_fingerprint,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

// AuditReader is implemented by auditors that keep entries around.
type AuditReader interface {
	GetRecent(limit int) ([]AuditEntry, error)
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)
}

type Fingerprinter func(token string) string
