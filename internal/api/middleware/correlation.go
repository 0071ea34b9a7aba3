package middleware

import (
	"net/http"

	"github.com/rs/xid"

	"github.com/darmiel/ctoken/internal/core"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"

	maxCorrelationIDLength = 64
)

// validCorrelationID accepts ids that are safe to echo into headers, logs and audit entries.
func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// CorrelationIDMiddleware reuses a well-formed X-Correlation-ID from the caller or generates a new one.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if !validCorrelationID(id) {
			id = xid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, id)

		next.ServeHTTP(w, r.WithContext(core.WithCorrelationID(r.Context(), id)))
	})
}
