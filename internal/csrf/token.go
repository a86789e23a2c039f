// Package csrf implements stateless HMAC-signed CSRF tokens with double-submit
// validation: the token travels both in the csrf cookie and the X-CSRF-Token header.
package csrf

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/crypto"
)

// Version prefixes every token. Changing the layout requires a new prefix.
const Version = "v1"

// NonceSize is the length in bytes of both the nonce and its MAC.
const NonceSize = 32

// b64 rejects non-zero trailing bits so every nonce and MAC has exactly one encoding.
var b64 = base64.RawURLEncoding.Strict()

// Generate mints a token v1.<nonce>.<mac> signed with cfg.Secret.
func Generate(cfg config.CSRF) (string, error) {
	nonce, err := crypto.RandBytes(NonceSize)
	if err != nil {
		return "", fmt.Errorf("csrf: nonce: %w", err)
	}
	mac := crypto.HMACSHA256(cfg.Secret[:], nonce)
	return Version + "." + b64.EncodeToString(nonce) + "." + b64.EncodeToString(mac), nil
}

// Verify reports whether token is well-formed and carries a valid MAC under cfg.Secret.
func Verify(cfg config.CSRF, token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] != Version {
		return false
	}
	nonce, err := b64.DecodeString(parts[1])
	if err != nil || len(nonce) != NonceSize {
		return false
	}
	mac, err := b64.DecodeString(parts[2])
	if err != nil || len(mac) != NonceSize {
		return false
	}
	return crypto.Equal(crypto.HMACSHA256(cfg.Secret[:], nonce), mac)
}
