package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, userID string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// TokenUser is the identity carried inside a token.
type TokenUser struct {
	ID string `json:"id"`
}

// Claims is the signed payload: {"user":{"id":...}} plus the registered claims.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// UserID returns the identity carried by the token.
func (c *Claims) UserID() string {
	return c.User.ID
}
