package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/and161185/wzs-web/internal/errs"
	"github.com/golang-jwt/jwt/v5"
)

func TestAuthenticator_FromRequest_JSONCookie(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, err := CreateJWT(42, secret)
	if err != nil {
		t.Fatalf("CreateJWT: %v", err)
	}
	a := Authenticator{Secret: secret, CookieName: "auth_token"}

	p, ok := a.FromRequest(requestWithCookie("auth_token", jsonCookie(tok)))
	if !ok || p.Subject != "42" {
		t.Fatalf("got %+v ok=%v", p, ok)
	}

	p, ok = a.FromRequest(requestWithCookie("auth_token", escapedJSONCookie(tok)))
	if !ok || p.Subject != "42" {
		t.Fatalf("url-escaped cookie: got %+v ok=%v", p, ok)
	}
}

func TestAuthenticator_FromRequest_AmongOtherCookies(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, _ := CreateJWT(9, secret)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "csrf=v1.a.b; auth_token="+jsonCookie(tok)+"; theme=dark")

	p, ok := Authenticator{Secret: secret, CookieName: "auth_token"}.FromRequest(r)
	if !ok || p.Subject != "9" {
		t.Fatalf("got %+v ok=%v", p, ok)
	}
}

func TestAuthenticator_FromRequest_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, _ := CreateJWT(42, secret)
	expired := makeJWT(t, "42", secret, jwt.SigningMethodHS256, time.Now().Add(-time.Hour))
	a := Authenticator{Secret: secret, CookieName: "auth_token"}

	cases := map[string]*http.Request{
		"no cookie":       httptest.NewRequest(http.MethodGet, "/", nil),
		"other name":      requestWithCookie("session", jsonCookie(tok)),
		"bare jwt":        requestWithCookie("auth_token", tok),
		"bad json":        requestWithCookie("auth_token", `{"token":`),
		"array":           requestWithCookie("auth_token", `["`+tok+`"]`),
		"non-string":      requestWithCookie("auth_token", `{"token":42}`),
		"missing field":   requestWithCookie("auth_token", `{"jwt":"`+tok+`"}`),
		"empty token":     requestWithCookie("auth_token", `{"token":""}`),
		"expired":         requestWithCookie("auth_token", jsonCookie(expired)),
		"tampered":        requestWithCookie("auth_token", jsonCookie(tok+"x")),
		"null":            requestWithCookie("auth_token", "null"),
		"bad url escapes": requestWithCookie("auth_token", "%zz"),
	}
	for name, r := range cases {
		if p, ok := a.FromRequest(r); ok {
			t.Fatalf("%s: unexpected principal %+v", name, p)
		}
	}

	wrong := Authenticator{Secret: []byte("other"), CookieName: "auth_token"}
	if _, ok := wrong.FromRequest(requestWithCookie("auth_token", jsonCookie(tok))); ok {
		t.Fatalf("wrong secret must not authenticate")
	}
}

func TestAuthenticator_DisabledWithoutSecret(t *testing.T) {
	t.Parallel()

	tok, _ := CreateJWT(42, []byte("s"))
	a := Authenticator{CookieName: "auth_token"}
	if _, ok := a.FromRequest(requestWithCookie("auth_token", jsonCookie(tok))); ok {
		t.Fatalf("no secret configured must yield no principal")
	}
}

func TestAuthenticator_Middleware(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, _ := CreateJWT(5, secret)
	a := Authenticator{Secret: secret, CookieName: "auth_token"}

	var got Principal
	var seen bool
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, seen = PrincipalFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithCookie("auth_token", jsonCookie(tok)))
	if !seen || got.Subject != "5" {
		t.Fatalf("got %+v seen=%v", got, seen)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen {
		t.Fatalf("anonymous request should carry no principal")
	}
}

func TestWithPrincipal_And_Require(t *testing.T) {
	t.Parallel()

	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatalf("expected no principal in empty ctx")
	}
	if _, err := Require(context.Background()); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("Require: want ErrUnauthorized, got %v", err)
	}

	ctx := WithPrincipal(context.Background(), Principal{Subject: "abc"})
	p, err := Require(ctx)
	if err != nil || p.Subject != "abc" {
		t.Fatalf("Require: got %+v err %v", p, err)
	}

	bad := context.WithValue(context.Background(), principalKey, "not-a-principal")
	if _, ok := PrincipalFromContext(bad); ok {
		t.Fatalf("expected miss on wrong typed value")
	}
}
