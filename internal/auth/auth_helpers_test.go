package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func makeJWT(t *testing.T, sub string, key []byte, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func requestWithCookie(name, value string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	r.Header.Set("Cookie", name+"="+value)
	return r
}

func jsonCookie(token string) string {
	return `{"token":"` + token + `"}`
}

func escapedJSONCookie(token string) string {
	return url.PathEscape(jsonCookie(token))
}
