package models

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// PasswordReset is a pending password recovery for one email address
type PasswordReset struct {
	Token     string
	Email     string
	Confirmed bool
}

// ForgotPasswordRequest starts a password recovery
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// EmailConfirmedRequest asks whether the recovery email was confirmed
type EmailConfirmedRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password after the email was confirmed
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}
