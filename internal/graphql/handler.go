// Package graphql serves a graphql-go schema over HTTP POST behind the CSRF
// guard and cookie authentication, plus the GraphiQL development page.
package graphql

import (
	"encoding/json"
	"errors"
	"net/http"

	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/auth"
	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/errs"
	"github.com/and161185/wzs-web/internal/web"
)

// Request is the JSON body of a GraphQL POST.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes GraphQL requests. CSRF validation runs first, then the
// principal from the auth cookie, if any, is attached to the execution context.
type Handler struct {
	schema  gql.Schema
	csrf    config.CSRF
	authn   auth.Authenticator
	maxBody int64
	log     *zap.Logger
}

// NewHandler builds the endpoint for schema. maxBody <= 0 disables the size cap.
func NewHandler(schema gql.Schema, csrfCfg config.CSRF, authn auth.Authenticator, maxBody int64, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{schema: schema, csrf: csrfCfg, authn: authn, maxBody: maxBody, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !csrf.Required(r, h.csrf) {
		web.WriteJSON(w, http.StatusOK, errorResult(errs.ErrCSRF.Error()))
		return
	}

	ctx := r.Context()
	if p, ok := h.authn.FromRequest(r); ok {
		ctx = auth.WithPrincipal(ctx, p)
	}

	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			web.WriteJSON(w, http.StatusBadRequest, errorResult("request body too large"))
			return
		}
		web.WriteJSON(w, http.StatusBadRequest, errorResult("invalid request body"))
		return
	}

	res := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if res.HasErrors() {
		h.log.Debug("graphql errors", zap.String("operation", req.OperationName), zap.Any("errors", res.Errors))
	}
	web.WriteJSON(w, http.StatusOK, res)
}

func errorResult(msg string) *gql.Result {
	return &gql.Result{Errors: []gqlerrors.FormattedError{{Message: msg}}}
}
