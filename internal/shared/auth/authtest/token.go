// Package authtest issues tokens that auth.Verifier accepts, for tests only.
package authtest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wellness-backend/internal/shared/auth"
)

// Token signs claims with secret using HS256. Missing issued-at and expiry are filled in.
func Token(t testing.TB, secret string, claims auth.Claims) string {
	t.Helper()
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
