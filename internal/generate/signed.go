package generate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleClaims are the claims carried by a signed role token.
type RoleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignedJWT returns an HS256 token for role, signed with secret.
func SignedJWT(secret, role, issuer string, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("generate.SignedJWT: empty signing secret")
	}
	if role == "" {
		return "", errors.New("generate.SignedJWT: empty role")
	}
	claims := RoleClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("generate.SignedJWT: %w", err)
	}
	return token, nil
}
