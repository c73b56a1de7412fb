package models

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrResetNotFound     = errors.New("password reset not found or expired")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
)
