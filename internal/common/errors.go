// Package common defines shared constants and sentinel errors used across
// server and client layers of claimcheck. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrMalformedRequest = errors.New("malformed request")

	// Credential errors.
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUserNotFound = errors.New("user not found")

	// Claim pipeline errors.
	ErrStageIO        = errors.New("document staging failed")
	ErrAnalysisEngine = errors.New("analysis engine failed")
)
