// Package crypto wraps the primitives used by the CSRF and upload layers:
// random bytes, HMAC-SHA256, SHA-256 and constant-time comparison.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
)

// KeySize is the length of every secret and digest handled here.
const KeySize = sha256.Size

// randRead fills b with random data; replaced in tests.
var randRead = rand.Read

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := randRead(b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandKey returns a random 32-byte key.
func RandKey() ([KeySize]byte, error) {
	var k [KeySize]byte
	_, err := randRead(k[:])
	return k, err
}

// SHA256 returns the SHA-256 digest of data.
func SHA256(data []byte) [KeySize]byte {
	return sha256.Sum256(data)
}

// HMACSHA256 returns HMAC-SHA256 of msg under key.
func HMACSHA256(key, msg []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(msg)
	return m.Sum(nil)
}

// Equal compares a and b in constant time with respect to their contents.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
