package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/wzs-web/internal/auth"
	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/db"
	"github.com/and161185/wzs-web/internal/notify"
)

type fakeDB struct {
	row *db.Row
	err error
}

func (f *fakeDB) FetchOne(context.Context, string, ...db.Param) (*db.Row, error) { return f.row, f.err }
func (f *fakeDB) FetchAll(context.Context, string, ...db.Param) ([]*db.Row, error) {
	return []*db.Row{f.row}, f.err
}
func (f *fakeDB) Exec(context.Context, string, ...db.Param) (uint64, error) { return 0, f.err }
func (f *fakeDB) ExecReturningLastInsertID(context.Context, string, ...db.Param) (uint64, error) {
	return 0, f.err
}

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Email
	err  error
}

func (s *fakeSender) Send(_ context.Context, e notify.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, e)
	return s.err
}

type gqlResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

var (
	csrfOn  = config.CSRF{Secret: config.DeriveSecret("test-fixed-secret"), Enabled: true}
	jwtKey  = []byte("jwt-secret")
	authnOn = auth.Authenticator{Secret: jwtKey, CookieName: "auth_token"}
)

func newTestHandler(t *testing.T, deps Deps, csrfCfg config.CSRF) *Handler {
	t.Helper()
	schema, err := NewSchema(deps)
	require.NoError(t, err)
	return NewHandler(schema, csrfCfg, authnOn, 1<<20, zaptest.NewLogger(t))
}

func post(t *testing.T, h http.Handler, body string, mutate ...func(*http.Request)) gqlResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func withCSRF(header, cookie string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(csrf.HeaderName, header)
		r.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: cookie})
	}
}

func withAuthCookie(id uint64, secret []byte) func(*http.Request) {
	return func(r *http.Request) {
		tok, err := auth.CreateJWT(id, secret)
		if err != nil {
			panic(err)
		}
		r.Header.Add("Cookie", `auth_token={"token":"`+tok+`"}`)
	}
}

func mint(t *testing.T) string {
	t.Helper()
	tok, err := csrf.Generate(csrfOn)
	require.NoError(t, err)
	return tok
}

func TestHandler_ValidCSRFExecutes(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Deps{}, csrfOn)
	tok := mint(t)
	resp := post(t, h, `{"query":"{ __typename }"}`, withCSRF(tok, tok))
	require.Empty(t, resp.Errors)
	require.Equal(t, "Query", resp.Data["__typename"])
}

func TestHandler_CSRFMismatchIsGraphQLError(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Deps{}, csrfOn)
	resp := post(t, h, `{"query":"{ __typename }"}`, withCSRF(mint(t), mint(t)))
	require.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "CSRF")

	resp = post(t, h, `{"query":"{ __typename }"}`)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "CSRF")
}

func TestHandler_CSRFDisabledSkipsCheck(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Deps{}, config.CSRF{})
	resp := post(t, h, `{"query":"{ __typename }"}`)
	require.Empty(t, resp.Errors)
	require.Equal(t, "Query", resp.Data["__typename"])
}

func TestHandler_PrincipalFromCookie(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Deps{}, config.CSRF{})

	resp := post(t, h, `{"query":"{ me }"}`, withAuthCookie(42, jwtKey))
	require.Empty(t, resp.Errors)
	require.Equal(t, "42", resp.Data["me"])

	resp = post(t, h, `{"query":"{ me }"}`, withAuthCookie(42, []byte("other-secret")))
	require.Empty(t, resp.Errors)
	require.Nil(t, resp.Data["me"])

	resp = post(t, h, `{"query":"{ me }"}`)
	require.Nil(t, resp.Data["me"])
}

func TestHandler_VariablesAndOperationName(t *testing.T) {
	t.Parallel()

	mailer := &fakeSender{}
	h := newTestHandler(t, Deps{Mailer: mailer}, config.CSRF{})
	body := `{
		"query": "query A { me } mutation B($s: String!, $t: String!) { notify(subject: $s, text: $t, to: [\"x@example.com\"]) }",
		"variables": {"s": "Hi", "t": "body"},
		"operationName": "B"
	}`
	resp := post(t, h, body, withAuthCookie(7, jwtKey))
	require.Empty(t, resp.Errors)
	require.Equal(t, true, resp.Data["notify"])

	require.Len(t, mailer.sent, 1)
	require.Equal(t, notify.Email{Subject: "Hi", Body: notify.Text("body"), To: []string{"x@example.com"}}, mailer.sent[0])
}

func TestSchema_NotifyRequiresAuthAndMailer(t *testing.T) {
	t.Parallel()

	const q = `{"query":"mutation { notify(subject: \"s\", text: \"t\") }"}`

	resp := post(t, newTestHandler(t, Deps{Mailer: &fakeSender{}}, config.CSRF{}), q)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "unauthorized")

	resp = post(t, newTestHandler(t, Deps{}, config.CSRF{}), q, withAuthCookie(1, jwtKey))
	require.Len(t, resp.Errors, 1)
	require.Equal(t, ErrMailDisabled.Error(), resp.Errors[0].Message)

	resp = post(t, newTestHandler(t, Deps{Mailer: &fakeSender{err: errors.New("smtp down")}}, config.CSRF{}), q, withAuthCookie(1, jwtKey))
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "smtp down")
}

func TestSchema_Health(t *testing.T) {
	t.Parallel()

	resp := post(t, newTestHandler(t, Deps{}, config.CSRF{}), `{"query":"{ health }"}`)
	require.Equal(t, "ok (no database)", resp.Data["health"])

	row := db.NewRow([]string{"ok"}, []db.Value{{Kind: db.KindI64, I64: 1}})
	resp = post(t, newTestHandler(t, Deps{DB: &fakeDB{row: row}}, config.CSRF{}), `{"query":"{ health }"}`)
	require.Empty(t, resp.Errors)
	require.Equal(t, "ok", resp.Data["health"])

	resp = post(t, newTestHandler(t, Deps{DB: &fakeDB{err: errors.New("fetch_one: execution failure: code=2006")}}, config.CSRF{}), `{"query":"{ health }"}`)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "code=2006")
}

func TestHandler_BadBody(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, Deps{}, config.CSRF{})
	for _, body := range []string{"not json", `{"query":` + strings.Repeat(" ", 2<<20) + `"x"}`} {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"errors"`)
	}
}

func TestGraphiQL_EmbedsEndpoint(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	GraphiQL("/api/graphql").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphiql", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	body := strings.ReplaceAll(rec.Body.String(), `\/`, "/")
	require.Contains(t, body, `fetch("/api/graphql"`)
	require.Contains(t, body, `fetch("/csrf"`)
	require.NotContains(t, body, "document.cookie")
}
