package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chamagol/backend/services/user-manager/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EmailActivatedMessage is what clients poll for once the recovery email was confirmed
const EmailActivatedMessage = "email activated."

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method GetByEmail retrieves a user by email.
	//
	// If user with such email does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method UpdatePassword replaces the password hash of the user with "userID".
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be returned.
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
}

// PasswordResetRepository is the interface that wraps methods for pending password recoveries
type PasswordResetRepository interface {
	// Method Save stores a new unconfirmed recovery that expires after "ttl", replacing any previous one for the same email.
	Save(ctx context.Context, reset *models.PasswordReset, ttl time.Duration) error
	// Method GetByEmail returns the pending recovery for an email.
	//
	// If there is none, or it expired, models.ErrResetNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.PasswordReset, error)
	// Method Confirm marks the recovery identified by "token" as confirmed.
	//
	// If the token is unknown, expired or superseded, models.ErrResetNotFound will be returned together with "nil" value.
	Confirm(ctx context.Context, token string) (*models.PasswordReset, error)
	// Method Delete removes the recovery for an email. Deleting a missing recovery is not an error.
	Delete(ctx context.Context, email string) error
}

// Mailer is the interface that wraps the password recovery email delivery
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type passwordResetService struct {
	userRepo   UserRepository
	resetRepo  PasswordResetRepository
	mailer     Mailer
	logger     *zap.Logger
	ttl        time.Duration
	confirmURL string
}

// NewPasswordResetService creates a new password recovery service.
//
// "confirmURL" is the endpoint users open from the email; the reset token is appended as the "token" query parameter.
func NewPasswordResetService(
	userRepo UserRepository,
	resetRepo PasswordResetRepository,
	mailer Mailer,
	logger *zap.Logger,
	ttl time.Duration,
	confirmURL string,
) *passwordResetService {
	return &passwordResetService{
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		mailer:     mailer,
		logger:     logger,
		ttl:        ttl,
		confirmURL: confirmURL,
	}
}

// RequestReset starts a recovery for a registered email and sends the confirmation link
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return err
	}

	reset := &models.PasswordReset{
		Token: uuid.NewString(),
		Email: email,
	}
	if err := s.resetRepo.Save(ctx, reset, s.ttl); err != nil {
		return err
	}

	link, err := s.confirmLink(reset.Token)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		// the token is useless if nobody received it
		if delErr := s.resetRepo.Delete(ctx, email); delErr != nil {
			s.logger.Warn("failed to discard undelivered password reset", zap.Error(delErr))
		}
		return err
	}

	s.logger.Info("password reset requested")
	return nil
}

// ConfirmEmail confirms the recovery that owns the token
func (s *passwordResetService) ConfirmEmail(ctx context.Context, token string) error {
	if _, err := s.resetRepo.Confirm(ctx, token); err != nil {
		return err
	}
	s.logger.Info("password reset email confirmed")
	return nil
}

// CheckEmailConfirmed returns nil when the recovery for the email was confirmed,
// models.ErrEmailNotConfirmed otherwise
func (s *passwordResetService) CheckEmailConfirmed(ctx context.Context, email string) error {
	reset, err := s.resetRepo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrResetNotFound) {
		return models.ErrEmailNotConfirmed
	}
	if err != nil {
		return err
	}
	if !reset.Confirmed {
		return models.ErrEmailNotConfirmed
	}
	return nil
}

// ResetPassword sets a new password once the recovery email was confirmed.
// The recovery is consumed on success.
func (s *passwordResetService) ResetPassword(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	// bcrypt limit is in bytes, the request validation counts characters
	if len(password) > models.MaxPasswordBytes {
		return models.ErrPasswordTooLong
	}

	if err := s.CheckEmailConfirmed(ctx, email); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return err
	}

	if err := s.resetRepo.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to delete consumed password reset", zap.Error(err))
	}

	s.logger.Info("password reset completed", zap.Int("user_id", user.ID))
	return nil
}

func (s *passwordResetService) confirmLink(token string) (string, error) {
	u, err := url.Parse(s.confirmURL)
	if err != nil {
		return "", fmt.Errorf("invalid confirm URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
