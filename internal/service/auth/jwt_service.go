// Package auth verifies the bearer tokens that identify which user's
// scheduling and streak state a request operates on. Token issuance
// and credential management live in the identity provider, outside
// this service; GenerateToken exists for tests and local tooling.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	// ErrInvalidToken is returned when a token fails signature or claim
	// validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Claims holds the verified identity carried by a token.
type Claims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTService validates and (for tests and tooling) issues tokens.
type JWTService interface {
	// ValidateToken verifies the token signature and expiry and returns
	// the claims. Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateToken creates a signed token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)
}
