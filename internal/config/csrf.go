package config

import (
	"fmt"

	"github.com/and161185/wzs-web/internal/crypto"
)

// CSRF holds the token secret and cookie flags.
type CSRF struct {
	Secret         [crypto.KeySize]byte
	CookieSecure   bool
	CookieHTTPOnly bool
	// Enabled is true iff CSRF_SECRET was present when the value was built.
	// A random secret keeps tokens mintable while enforcement stays off.
	Enabled bool
}

// CSRFFromEnv reads CSRF_SECRET, CSRF_COOKIE_SECURE and CSRF_COOKIE_HTTPONLY.
func CSRFFromEnv(get Lookup) (CSRF, error) {
	c := CSRF{
		CookieSecure:   readFlag(get, "CSRF_COOKIE_SECURE", true),
		CookieHTTPOnly: readFlag(get, "CSRF_COOKIE_HTTPONLY", true),
	}
	if s, ok := get("CSRF_SECRET"); ok {
		c.Secret = DeriveSecret(s)
		c.Enabled = true
		return c, nil
	}
	key, err := crypto.RandKey()
	if err != nil {
		return CSRF{}, fmt.Errorf("csrf: random secret: %w", err)
	}
	c.Secret = key
	return c, nil
}

// DeriveSecret maps an arbitrary string to a 32-byte key via SHA-256.
func DeriveSecret(s string) [crypto.KeySize]byte {
	return crypto.SHA256([]byte(s))
}
