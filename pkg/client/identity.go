package client

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is the unverified content of a moderation API token. The server
// is the only party that verifies signatures; this is for display and for
// failing fast on an expired token.
type TokenInfo struct {
	UserID    string
	Username  string
	Role      string
	Issuer    string
	ExpiresAt time.Time
}

// Expired reports whether the token has expired at t.
func (t *TokenInfo) Expired(at time.Time) bool {
	return !t.ExpiresAt.IsZero() && !at.Before(t.ExpiresAt)
}

// InspectToken decodes token's claims without verifying its signature.
func InspectToken(token string) (*TokenInfo, error) {
	var claims struct {
		jwt.RegisteredClaims
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	info := &TokenInfo{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		Issuer:   claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// LoadToken reads a token from path, trimming surrounding whitespace.
func LoadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// WithTokenFile is the functional-option form of LoadToken + WithBearerToken.
// Expired tokens are rejected up front.
func WithTokenFile(path string) Option {
	return func(c *Client) error {
		token, err := LoadToken(path)
		if err != nil {
			return err
		}
		info, err := InspectToken(token)
		if err != nil {
			return err
		}
		if info.Expired(time.Now()) {
			return fmt.Errorf("token in %s expired at %s", path, info.ExpiresAt.Format(time.RFC3339))
		}
		return WithBearerToken(token)(c)
	}
}
