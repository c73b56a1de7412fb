package handlers

import (
	"net/http"

	"github.com/chamagol/backend/libs/handlers"
	"github.com/chamagol/backend/services/user-manager/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RoleHandler exposes the user roles known to the service
type RoleHandler struct {
	handlers.BaseHandler
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(logger *zap.Logger) *RoleHandler {
	return &RoleHandler{BaseHandler: handlers.BaseHandler{Logger: logger}}
}

// RegisterRoutes registers all role routes
func (h *RoleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/v1/users/roles", h.List)
}

// List handles GET /v1/users/roles
// @Summary List user roles
// @Tags users
// @Produce json
// @Success 200 {array} string
// @Router /v1/users/roles [get]
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, models.UserRoles())
}
