// Package auth issues and verifies the API's bearer tokens and hashes
// passwords.
//
// Tokens are HS256 JWTs carrying the user ID and a unique JTI. Logout
// places the JTI on a Redis revocation list for the token's remaining
// lifetime, so a revoked token is rejected even before it expires. When
// Redis is unconfigured revocation degrades to expiry-only.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazario/catalog/config"
	"github.com/bazario/catalog/pkg/cache"
)

// TokenType is the scheme reported alongside issued tokens.
const TokenType = "Bearer"

const tokenTTL = 24 * time.Hour

// Claims holds the typed JWT payload.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed JWT for the given user.
func GenerateToken(userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string, rejecting revoked tokens.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if IsRevoked(claims) {
		return nil, jwt.ErrTokenExpired
	}

	return claims, nil
}

// RevokeToken places the token's JTI on the revocation list for its
// remaining lifetime. Revoking an already-revoked or expired token is a
// no-op.
func RevokeToken(claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	return cache.Set(revocationKey(claims.ID), true, remaining)
}

// IsRevoked reports whether the token's JTI is on the revocation list.
func IsRevoked(claims *Claims) bool {
	if claims == nil || claims.ID == "" {
		return false
	}
	return cache.Has(revocationKey(claims.ID))
}

func revocationKey(jti string) string {
	return "revoked:" + jti
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
