package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Review errors
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidSentiment = errors.New("invalid sentiment label")
	ErrPhotoTooLarge    = errors.New("photo exceeds the 5MB limit")
	ErrPhotoNotImage    = errors.New("photo must be an image file")

	// Captcha errors
	ErrCaptchaRequired      = errors.New("captcha token required")
	ErrCaptchaFailed        = errors.New("captcha verification failed")
	ErrCaptchaNotConfigured = errors.New("captcha not configured")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// AI gateway errors
	ErrAIRateLimited      = errors.New("ai gateway rate limit exceeded")
	ErrAICreditsExhausted = errors.New("ai gateway credits exhausted")
	ErrAINotConfigured    = errors.New("ai gateway not configured")
)
