package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ctoken/internal/apikey"
	"github.com/darmiel/ctoken/internal/audit"
	"github.com/darmiel/ctoken/internal/core"
	"github.com/darmiel/ctoken/internal/metrics"
)

const (
	ActionIssueByID    = "token.issue_by_id"
	ActionIssueByEmail = "token.issue_by_email"
)

// IssuanceService authorizes callers and mints tokens through the identity provider.
// It keeps no state between requests.
type IssuanceService struct {
	allowList *apikey.AllowList
	provider  core.IdentityProvider
	auditor   core.Auditor
	metrics   *metrics.Metrics
	opts      Options
}

func NewIssuanceService(
	allowList *apikey.AllowList,
	provider core.IdentityProvider,
	auditor core.Auditor,
	m *metrics.Metrics,
	opts Options,
) *IssuanceService {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &IssuanceService{
		allowList: allowList,
		provider:  provider,
		auditor:   auditor,
		metrics:   m,
		opts:      opts,
	}
}

// IssueByPrincipalID mints a token for an existing principal id.
func (s *IssuanceService) IssueByPrincipalID(ctx context.Context, userID, apiKey string) (*IssueResult, error) {
	return s.issue(ctx, core.PrincipalReference{Kind: core.ByID, ID: userID}, apiKey)
}

// IssueByEmail mints a token for the principal with the given email, creating it if needed.
func (s *IssuanceService) IssueByEmail(ctx context.Context, email, apiKey string) (*IssueResult, error) {
	return s.issue(ctx, core.PrincipalReference{Kind: core.ByEmail, Email: email}, apiKey)
}

func (s *IssuanceService) issue(ctx context.Context, ref core.PrincipalReference, apiKey string) (result *IssueResult, err error) {
	logger := log.Ctx(ctx)

	auditEntry := core.AuditEntry{
		ID:         core.CorrelationID(ctx),
		Time:       time.Now(),
		Action:     ActionIssueByID,
		Provider:   s.provider.Name(),
		APIKeyHint: apikey.Hint(apiKey),
	}
	if ref.Kind == core.ByEmail {
		auditEntry.Action = ActionIssueByEmail
		auditEntry.Email = ref.Email
	} else {
		auditEntry.PrincipalID = ref.ID
	}
	defer func() {
		outcome := metrics.OutcomeSuccess
		var svcErr *Error
		if errors.As(err, &svcErr) {
			outcome = svcErr.Kind.String()
			auditEntry.Error = svcErr.Message
			auditEntry.Stacktrace = svcErr.Cause()
		}
		s.metrics.ObserveIssuance(ref.Kind.String(), outcome)
		if logErr := s.auditor.Log(auditEntry); logErr != nil {
			logger.Error().Err(logErr).Msg("failed to write audit log entry for token issuance")
		}
	}()

	// request shape is checked before anything else, so the provider is never touched on bad input
	if ref.Value() == "" || apiKey == "" {
		field := "userId"
		if ref.Kind == core.ByEmail {
			field = "email"
		}
		return nil, badRequest(field + " and apiKey are required")
	}

	if !s.allowList.Allowed(apiKey) {
		logger.Warn().Str("api_key", apikey.Hint(apiKey)).Msg("rejected invalid api key")
		return nil, unauthorized("invalid api key")
	}

	var claims core.Claims
	principalID := ref.ID
	created := false

	switch ref.Kind {
	case core.ByEmail:
		principal, wasCreated, err := s.ResolveOrCreate(ctx, ref.Email)
		if err != nil {
			return nil, issuanceFailed("token generation failed", err)
		}
		principalID, created = principal.UID, wasCreated
		auditEntry.PrincipalID = principalID
		auditEntry.PrincipalCreated = created
		claims = core.AdminEmailClaims(ref.Email, apiKey)
	default:
		claims = core.AdminClaims(apiKey)
	}

	uidLogger := logger.With().Str("uid", principalID).Logger()
	logger = &uidLogger

	token, err := s.provider.MintToken(ctx, principalID, claims)
	if err != nil {
		logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("minting failed")
		return nil, issuanceFailed("token generation failed", err)
	}

	auditEntry.Success = true
	auditEntry.TokenFingerprint = audit.CalculateFingerprint(s.opts.FingerprintType, token.String())

	logger.Info().
		Str("provider", s.provider.Name()).
		Bool("created", created).
		Msgf("custom token issued by %s", ref.Kind)

	return &IssueResult{
		Token:       token,
		PrincipalID: principalID,
		Created:     created,
	}, nil
}

// ResolveOrCreate looks up the principal by email and creates it if the provider reports it missing.
// Creation only happens on a clean not-found and only if CreateOnMiss is enabled.
// The returned bool is true if the principal was created.
func (s *IssuanceService) ResolveOrCreate(ctx context.Context, email string) (*core.Principal, bool, error) {
	principal, err := s.provider.ResolveByEmail(ctx, email)
	if err == nil {
		return principal, false, nil
	}
	if !errors.Is(err, core.ErrPrincipalNotFound) {
		return nil, false, fmt.Errorf("resolving principal: %w", err)
	}
	if !s.opts.CreateOnMiss {
		return nil, false, fmt.Errorf("resolving principal: %w", err)
	}

	principal, err = s.provider.Create(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("creating principal: %w", err)
	}
	s.metrics.PrincipalCreated()
	log.Ctx(ctx).Info().
		Str("uid", principal.UID).
		Msg("created principal on first use")
	return principal, true, nil
}
