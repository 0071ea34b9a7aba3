package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/ctoken/internal/service"
)

// ErrorResponse is the body of every failed request.
// Message is only set for issuance failures and carries the underlying cause.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	JSON(w, r, ErrorResponse{Error: msg}, status)
}

// Err writes a service error. Errors that are not *service.Error are treated as internal errors.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		JSON(w, r, ErrorResponse{Error: "internal server error", Message: err.Error()}, http.StatusInternalServerError)
		return
	}
	resp := ErrorResponse{Error: svcErr.Message}
	if svcErr.Kind == service.KindIssuanceFailed {
		resp.Message = svcErr.Cause()
	}
	JSON(w, r, resp, svcErr.StatusCode())
}
