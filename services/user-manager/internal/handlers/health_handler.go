package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/chamagol/backend/libs/handlers"
	"github.com/chamagol/backend/services/user-manager/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck is a named dependency probe
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// PaymentClient reports whether payment credentials were provided at startup
type PaymentClient interface {
	Configured() bool
}

// HealthHandler reports the state of the service dependencies
type HealthHandler struct {
	handlers.BaseHandler
	checks  []HealthCheck
	payment PaymentClient
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks []HealthCheck, payment PaymentClient, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		checks:      checks,
		payment:     payment,
	}
}

// RegisterRoutes registers all health routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}

// Health handles GET /health
// @Summary Service health
// @Description Probes the database and Redis and reports whether payment credentials are set.
// @Description Missing payment credentials do not make the service unhealthy.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Failure 503 {object} models.HealthStatus
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := models.HealthStatus{
		Status:    "healthy",
		Checks:    make(map[string]string, len(h.checks)+1),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.Logger.Warn("health check failed", zap.String("check", check.Name), zap.Error(err))
			status.Status = "unhealthy"
			status.Checks[check.Name] = "down"
			continue
		}
		status.Checks[check.Name] = "up"
	}

	if h.payment.Configured() {
		status.Checks["payment"] = "configured"
	} else {
		status.Checks["payment"] = "not configured"
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	h.RespondJSON(w, code, status)
}
