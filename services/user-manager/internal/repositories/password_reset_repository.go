package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chamagol/backend/services/user-manager/internal/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Key layout:
//
//	password_reset:email:<email> -> hash {token, confirmed}
//	password_reset:token:<token> -> email
const (
	resetEmailKeyPrefix = "password_reset:email:"
	resetTokenKeyPrefix = "password_reset:token:"
)

// passwordResetRepository keeps pending password recoveries in Redis with a TTL
type passwordResetRepository struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPasswordResetRepository creates a new password reset repository
func NewPasswordResetRepository(rdb *redis.Client, logger *zap.Logger) *passwordResetRepository {
	return &passwordResetRepository{
		rdb:    rdb,
		logger: logger,
	}
}

// Save stores a new, unconfirmed reset for reset.Email, replacing any previous one
func (r *passwordResetRepository) Save(ctx context.Context, reset *models.PasswordReset, ttl time.Duration) error {
	emailKey := resetEmailKeyPrefix + reset.Email

	previousToken, err := r.rdb.HGet(ctx, emailKey, "token").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("failed to read previous password reset", zap.Error(err))
		return fmt.Errorf("failed to read previous password reset: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousToken != "" {
			pipe.Del(ctx, resetTokenKeyPrefix+previousToken)
		}
		pipe.Del(ctx, emailKey)
		pipe.HSet(ctx, emailKey, "token", reset.Token, "confirmed", "0")
		pipe.Expire(ctx, emailKey, ttl)
		pipe.Set(ctx, resetTokenKeyPrefix+reset.Token, reset.Email, ttl)
		return nil
	})
	if err != nil {
		r.logger.Error("failed to save password reset", zap.Error(err))
		return fmt.Errorf("failed to save password reset: %w", err)
	}

	return nil
}

// GetByEmail returns the pending reset for an email, or models.ErrResetNotFound
func (r *passwordResetRepository) GetByEmail(ctx context.Context, email string) (*models.PasswordReset, error) {
	fields, err := r.rdb.HGetAll(ctx, resetEmailKeyPrefix+email).Result()
	if err != nil {
		r.logger.Error("failed to get password reset", zap.Error(err))
		return nil, fmt.Errorf("failed to get password reset: %w", err)
	}
	if fields["token"] == "" {
		return nil, models.ErrResetNotFound
	}

	return &models.PasswordReset{
		Token:     fields["token"],
		Email:     email,
		Confirmed: fields["confirmed"] == "1",
	}, nil
}

// Confirm marks the reset identified by token as confirmed.
// A token that was replaced by a newer request, or whose reset expired meanwhile, is treated as not found.
func (r *passwordResetRepository) Confirm(ctx context.Context, token string) (*models.PasswordReset, error) {
	email, err := r.rdb.Get(ctx, resetTokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrResetNotFound
	}
	if err != nil {
		r.logger.Error("failed to look up password reset token", zap.Error(err))
		return nil, fmt.Errorf("failed to look up password reset token: %w", err)
	}

	emailKey := resetEmailKeyPrefix + email
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, emailKey, "token").Result()
		if errors.Is(err, redis.Nil) || (err == nil && current != token) {
			return models.ErrResetNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, emailKey, "confirmed", "1")
			return nil
		})
		return err
	}, emailKey)

	switch {
	case errors.Is(err, models.ErrResetNotFound), errors.Is(err, redis.TxFailedErr):
		// the reset was replaced or expired while confirming
		return nil, models.ErrResetNotFound
	case err != nil:
		r.logger.Error("failed to confirm password reset", zap.Error(err))
		return nil, fmt.Errorf("failed to confirm password reset: %w", err)
	}

	return &models.PasswordReset{
		Token:     token,
		Email:     email,
		Confirmed: true,
	}, nil
}

// Delete removes the reset for an email together with its token index
func (r *passwordResetRepository) Delete(ctx context.Context, email string) error {
	emailKey := resetEmailKeyPrefix + email

	token, err := r.rdb.HGet(ctx, emailKey, "token").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("failed to read password reset", zap.Error(err))
		return fmt.Errorf("failed to read password reset: %w", err)
	}

	keys := []string{emailKey}
	if token != "" {
		keys = append(keys, resetTokenKeyPrefix+token)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("failed to delete password reset", zap.Error(err))
		return fmt.Errorf("failed to delete password reset: %w", err)
	}

	return nil
}
