package api

import (
	"net/http"

	"github.com/darmiel/ctoken/internal/api/presenter"
	"github.com/darmiel/ctoken/internal/buildinfo"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleHealth reports liveness only, it does not check the identity provider.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, HealthResponse{
		Status:  "ok",
		Message: "Token server is running",
	}, http.StatusOK)
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}
