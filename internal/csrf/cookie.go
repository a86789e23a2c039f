package csrf

import (
	"net/http"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/crypto"
)

// Cookie and header names used by double-submit validation.
const (
	CookieName = "csrf"
	HeaderName = "X-CSRF-Token"
)

// SetCookie attaches the token cookie to w.
func SetCookie(w http.ResponseWriter, cfg config.CSRF, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.CookieSecure,
		HttpOnly: cfg.CookieHTTPOnly,
	})
}

// cookieToken returns the csrf cookie value or "".
func cookieToken(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Validate applies double-submit: the header must be non-empty and equal to the
// cookie, and the cookie must verify.
func Validate(r *http.Request, cfg config.CSRF) bool {
	header := r.Header.Get(HeaderName)
	if header == "" {
		return false
	}
	cookie := cookieToken(r)
	if !crypto.Equal([]byte(header), []byte(cookie)) {
		return false
	}
	return Verify(cfg, cookie)
}

// Required validates r only when enforcement is enabled.
func Required(r *http.Request, cfg config.CSRF) bool {
	return !cfg.Enabled || Validate(r, cfg)
}
