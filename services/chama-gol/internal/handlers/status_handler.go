package handlers

import (
	"net/http"

	"github.com/chamagol/backend/libs/handlers"
	"github.com/chamagol/backend/services/chama-gol/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusHandler answers liveness checks from API clients
type StatusHandler struct {
	handlers.BaseHandler
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all status handler routes
func (h *StatusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/runningMessage", h.RunningMessage)
}

// RunningMessage handles GET /api/runningMessage
// @Summary Running message
// @Description Confirms that the API is up. Always returns the same message.
// @Tags status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/runningMessage [get]
func (h *StatusHandler) RunningMessage(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("running message hit")
	h.RespondJSON(w, http.StatusOK, models.StatusResponse{Message: models.RunningMessage})
}
