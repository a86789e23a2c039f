package web

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
)

// DefaultOrigin is allowed when no origins are configured.
const DefaultOrigin = "http://localhost:5173"

// CORS returns the cross-origin policy for cfg.
func CORS(cfg config.CORS) *cors.Cors {
	origins := cfg.Origins
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", csrf.HeaderName},
		AllowCredentials: cfg.Credentials,
	})
}
