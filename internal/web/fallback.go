package web

import (
	"net/http"

	"github.com/and161185/wzs-web/internal/errs"
)

// NotFound answers every request with 404.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, errs.ErrNotFound.Error())
	})
}
