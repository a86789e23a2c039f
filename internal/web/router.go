package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/config"
)

// Routes are the endpoint handlers. Nil GraphiQL or SPA leaves the route unmounted.
type Routes struct {
	CSRF        http.Handler
	GraphQL     http.Handler
	GraphQLPath string
	GraphiQL    http.Handler
	Upload      http.Handler
	SPA         http.Handler
}

// NewRouter mounts rt on a gorilla/mux router. Unmatched paths get NotFound.
func NewRouter(rt Routes) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = NotFound()

	if rt.CSRF != nil {
		r.Handle("/csrf", rt.CSRF).Methods(http.MethodGet)
	}
	if rt.GraphQL != nil {
		path := rt.GraphQLPath
		if path == "" {
			path = "/graphql"
		}
		r.Handle(path, rt.GraphQL).Methods(http.MethodPost)
	}
	if rt.GraphiQL != nil {
		r.Handle("/graphiql", rt.GraphiQL).Methods(http.MethodGet)
	}
	if rt.Upload != nil {
		r.Handle("/api/upload", rt.Upload).Methods(http.MethodPost)
	}
	if rt.SPA != nil {
		r.Handle("/", rt.SPA).Methods(http.MethodGet)
	}
	return r
}

// NewHandler wraps the router with CORS and the middleware stack:
// CORS → request id → logging → recover → security headers → router.
func NewHandler(rt Routes, corsCfg config.CORS, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := Chain(NewRouter(rt),
		RequestID,
		Logging(log),
		Recover(log),
		SecurityHeaders,
	)
	return CORS(corsCfg).Handler(h)
}
