package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ctoken/internal/api/presenter"
)

type GenerateTokenPayload struct {
	UserID string `json:"userId"`
	APIKey string `json:"apiKey"`
}

type GenerateTokenByEmailPayload struct {
	Email  string `json:"email"`
	APIKey string `json:"apiKey"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  string `json:"userId,omitempty"`
}

// maxPayloadSize limits request bodies, the payloads are two short strings.
const maxPayloadSize = 64 << 10

func DecodePayload(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxPayloadSize))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			// an empty body is a payload with missing fields
			return nil
		}
		return err
	}
	// ensure there's no extra data
	if dec.More() {
		return errors.New("extra data in request body")
	}
	return nil
}

// handleGenerateToken issues a token for an existing principal id.
func (s *Server) handleGenerateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload GenerateTokenPayload
	if err := DecodePayload(r, &payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode generate-token payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.issuance.IssueByPrincipalID(ctx, payload.UserID, payload.APIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("token issuance failed")
		presenter.Err(w, r, err)
		return
	}

	presenter.JSON(w, r, TokenResponse{
		Success: true,
		Token:   result.Token.String(),
	}, http.StatusOK)
}

// handleGenerateTokenByEmail issues a token for the principal with the given email.
// The principal is created if it does not exist yet.
func (s *Server) handleGenerateTokenByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload GenerateTokenByEmailPayload
	if err := DecodePayload(r, &payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode generate-token-by-email payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.issuance.IssueByEmail(ctx, payload.Email, payload.APIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("token issuance failed")
		presenter.Err(w, r, err)
		return
	}

	presenter.JSON(w, r, TokenResponse{
		Success: true,
		Token:   result.Token.String(),
		UserID:  result.PrincipalID,
	}, http.StatusOK)
}
