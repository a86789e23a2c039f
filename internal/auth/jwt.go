// Package auth issues and verifies HS256 JWTs and extracts the caller's
// principal from a cookie-borne token.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used by CreateJWT.
const DefaultTTL = 48 * time.Hour

// Leeway tolerates clock skew when checking exp.
const Leeway = 60 * time.Second

var (
	errNoSecret       = errors.New("auth: empty secret")
	errMissingSubject = errors.New("auth: missing sub")
)

// CreateJWT signs a token for id that expires after DefaultTTL.
func CreateJWT(id uint64, secret []byte) (string, error) {
	return CreateJWTWithTTL(id, secret, DefaultTTL)
}

// CreateJWTWithTTL signs a token whose subject is the decimal id.
func CreateJWTWithTTL(id uint64, secret []byte, ttl time.Duration) (string, error) {
	return Sign(strconv.FormatUint(id, 10), secret, time.Now().Add(ttl))
}

// Sign creates an HS256 token with claims {sub, exp}.
func Sign(subject string, secret []byte, expires time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errNoSecret
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}
	return s, nil
}

// Decode verifies token with secret and returns its claims.
// Only HS256 is accepted and exp is mandatory.
func Decode(token string, secret []byte) (*jwt.RegisteredClaims, error) {
	if len(secret) == 0 {
		return nil, errNoSecret
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(Leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: decode: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("auth: invalid token")
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return &claims, nil
}
