package web

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/errs"
)

// CSRFMarker is replaced by a fresh token in the SPA template.
const CSRFMarker = "{{ csrf_token }}"

// LoadTemplate reads the SPA entry page from path.
func LoadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: html template %s: %v", errs.ErrConfig, path, err)
	}
	return string(b), nil
}

// SPA serves tmpl with a freshly minted CSRF token substituted at CSRFMarker
// and the matching cookie set.
func SPA(tmpl string, cfg config.CSRF, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		token, err := csrf.Generate(cfg)
		if err != nil {
			log.Error("csrf mint failed", zap.Error(err))
			WriteError(w, http.StatusInternalServerError, "internal")
			return
		}
		csrf.SetCookie(w, cfg, token)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(strings.ReplaceAll(tmpl, CSRFMarker, token)))
	})
}
