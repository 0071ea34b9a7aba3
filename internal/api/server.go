package api

import (
	"net/http"

	"github.com/darmiel/ctoken/internal/api/middleware"
	"github.com/darmiel/ctoken/internal/metrics"
	"github.com/darmiel/ctoken/internal/service"
)

type Server struct {
	issuance *service.IssuanceService
	metrics  *metrics.Metrics
}

func NewServer(issuance *service.IssuanceService, m *metrics.Metrics) *Server {
	return &Server{
		issuance: issuance,
		metrics:  m,
	}
}

func (s *Server) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	if s.metrics != nil {
		mux.Handle("GET "+MetricsRoute, s.metrics.Handler())
	}

	// token routes
	mux.HandleFunc("POST "+GenerateTokenRoute, s.handleGenerateToken)
	mux.HandleFunc("POST "+GenerateTokenByEmailRoute, s.handleGenerateTokenByEmail)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				middleware.CORSMiddleware(allowedOrigins)(
					mux))))
}
