package csrf

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
)

type tokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// Handler issues or refreshes the CSRF token. A cookie that still verifies is
// reused so repeated calls return the same token.
func Handler(cfg config.CSRF, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := cookieToken(r)
		if !Verify(cfg, token) {
			var err error
			if token, err = Generate(cfg); err != nil {
				log.Error("csrf: mint token", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		SetCookie(w, cfg, token)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(tokenResponse{CSRFToken: token})
	})
}
