package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/and161185/wzs-web/internal/errs"
)

// Principal is the authenticated caller. Subject is opaque at this layer.
type Principal struct {
	Subject string
}

// ID parses Subject as the unsigned id CreateJWT encodes.
func (p Principal) ID() (uint64, error) {
	return strconv.ParseUint(p.Subject, 10, 64)
}

// Authenticator resolves principals from the auth cookie.
// A zero Secret disables authentication: no request ever yields a principal.
type Authenticator struct {
	Secret     []byte
	CookieName string
}

// FromRequest returns the principal carried by r, if any. Failures are silent.
func (a Authenticator) FromRequest(r *http.Request) (Principal, bool) {
	if len(a.Secret) == 0 {
		return Principal{}, false
	}
	raw, ok := cookieValue(r, a.CookieName)
	if !ok {
		return Principal{}, false
	}
	tok, ok := tokenFromCookie(raw)
	if !ok {
		return Principal{}, false
	}
	claims, err := Decode(tok, a.Secret)
	if err != nil {
		return Principal{}, false
	}
	return Principal{Subject: claims.Subject}, true
}

// Middleware attaches the request's principal, when present, to its context.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := a.FromRequest(r); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// Require returns the principal in ctx or errs.ErrUnauthorized.
func Require(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return Principal{}, fmt.Errorf("auth: %w", errs.ErrUnauthorized)
	}
	return p, nil
}

type cookiePayload struct {
	Token *string `json:"token"`
}

// tokenFromCookie accepts only a JSON object with a string "token" field.
func tokenFromCookie(raw string) (string, bool) {
	if !strings.HasPrefix(raw, "{") {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			return "", false
		}
		raw = unescaped
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return "", false
	}
	var p cookiePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Token == nil || *p.Token == "" {
		return "", false
	}
	return *p.Token, true
}

// cookieValue scans the Cookie headers directly: net/http rejects values
// containing double quotes, which the JSON payload always has.
func cookieValue(r *http.Request, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, line := range r.Header.Values("Cookie") {
		for _, pair := range strings.Split(line, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || strings.TrimSpace(k) != name {
				continue
			}
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
