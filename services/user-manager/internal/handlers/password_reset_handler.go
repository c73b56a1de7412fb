package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/chamagol/backend/libs/handlers"
	"github.com/chamagol/backend/services/user-manager/internal/models"
	"github.com/chamagol/backend/services/user-manager/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PasswordResetService is the interface that wraps methods for password recovery business logic.
type PasswordResetService interface {
	// Method RequestReset starts a recovery for "email" and sends a confirmation link to it.
	//
	// If no user has this email, models.ErrUserNotFound will be returned.
	RequestReset(ctx context.Context, email string) error
	// Method ConfirmEmail confirms the recovery identified by "token".
	//
	// If the token is unknown or expired, models.ErrResetNotFound will be returned.
	ConfirmEmail(ctx context.Context, token string) error
	// Method CheckEmailConfirmed returns nil once the recovery for "email" is confirmed, models.ErrEmailNotConfirmed otherwise.
	CheckEmailConfirmed(ctx context.Context, email string) error
	// Method ResetPassword stores a new password for a confirmed recovery.
	//
	// If the recovery was not confirmed, models.ErrEmailNotConfirmed will be returned.
	ResetPassword(ctx context.Context, email, password string) error
}

// PasswordResetHandler handles password recovery HTTP requests.
// Error bodies repeat the text under "message", which is the field the mobile app displays.
type PasswordResetHandler struct {
	handlers.BaseHandler
	service PasswordResetService
}

// NewPasswordResetHandler creates a new password reset handler
func NewPasswordResetHandler(svc PasswordResetService, logger *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all password reset routes
// Note: This assumes the router is already scoped to /api
func (h *PasswordResetHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/password/forget", h.ForgotPassword)
		r.Post("/password/reset", h.ResetPassword)
		r.Get("/email/confirm", h.ConfirmEmail)
		r.Post("/email/confirmed", h.EmailConfirmed)
	})
}

// ForgotPassword handles POST /auth/password/forget
// @Summary Request password recovery
// @Description Sends an email with a confirmation link to a registered address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Email of the account"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/password/forget [post]
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.RequestReset(r.Context(), req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		h.RespondErrorMessage(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("failed to request password reset", zap.Error(err))
		h.RespondErrorMessage(w, http.StatusInternalServerError, "failed to send password reset email")
		return
	}

	h.RespondMessage(w, http.StatusOK, "password reset email sent.")
}

// ConfirmEmail handles GET /auth/email/confirm
// @Summary Confirm recovery email
// @Description Opened from the recovery email; marks the recovery as confirmed
// @Tags auth
// @Produce json
// @Param token query string true "Token from the email link"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/email/confirm [get]
func (h *PasswordResetHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.RespondErrorMessage(w, http.StatusBadRequest, "token is required")
		return
	}

	err := h.service.ConfirmEmail(r.Context(), token)
	if errors.Is(err, models.ErrResetNotFound) {
		h.RespondErrorMessage(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("failed to confirm email", zap.Error(err))
		h.RespondErrorMessage(w, http.StatusInternalServerError, "failed to confirm email")
		return
	}

	h.RespondMessage(w, http.StatusOK, services.EmailActivatedMessage)
}

// EmailConfirmed handles POST /auth/email/confirmed
// @Summary Check recovery email confirmation
// @Description Polled by clients until the recovery email is confirmed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.EmailConfirmedRequest true "Email of the account"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/email/confirmed [post]
func (h *PasswordResetHandler) EmailConfirmed(w http.ResponseWriter, r *http.Request) {
	var req models.EmailConfirmedRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.CheckEmailConfirmed(r.Context(), req.Email)
	if errors.Is(err, models.ErrEmailNotConfirmed) {
		h.RespondErrorMessage(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("failed to check email confirmation", zap.Error(err))
		h.RespondErrorMessage(w, http.StatusInternalServerError, "failed to check email confirmation")
		return
	}

	h.RespondMessage(w, http.StatusOK, services.EmailActivatedMessage)
}

// ResetPassword handles POST /auth/password/reset
// @Summary Reset password
// @Description Sets a new password after the recovery email was confirmed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Email and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/password/reset [post]
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, models.ErrPasswordTooLong):
		h.RespondErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrEmailNotConfirmed):
		h.RespondErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrUserNotFound):
		h.RespondErrorMessage(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.Logger.Error("failed to reset password", zap.Error(err))
		h.RespondErrorMessage(w, http.StatusInternalServerError, "failed to reset password")
	default:
		h.RespondMessage(w, http.StatusOK, "password updated.")
	}
}
