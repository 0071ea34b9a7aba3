package api

const (
	HealthCheckRoute = "/health"
	AboutRoute       = "/about"
	MetricsRoute     = "/metrics"

	GenerateTokenRoute        = "/api/generate-token"
	GenerateTokenByEmailRoute = "/api/generate-token-by-email"
)
