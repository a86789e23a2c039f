package graphql

import (
	"bytes"
	"html/template"
	"net/http"
)

var graphiqlPage = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body style="margin:0">
  <div id="graphiql" style="height:100vh"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const csrf = fetch("/csrf", { credentials: "same-origin" })
      .then((r) => r.json())
      .then((b) => b.csrfToken);
    const fetcher = async (params) => {
      const token = await csrf;
      const res = await fetch({{.Endpoint}}, {
        method: "POST",
        credentials: "same-origin",
        headers: { "Content-Type": "application/json", "X-CSRF-Token": token },
        body: JSON.stringify(params),
      });
      return res.json();
    };
    ReactDOM.createRoot(document.getElementById("graphiql")).render(
      React.createElement(GraphiQL, { fetcher })
    );
  </script>
</body>
</html>
`))

// GraphiQL serves the interactive explorer pointed at endpoint.
// Mount it only in development.
func GraphiQL(endpoint string) http.Handler {
	var buf bytes.Buffer
	if err := graphiqlPage.Execute(&buf, struct{ Endpoint string }{endpoint}); err != nil {
		panic(err)
	}
	page := buf.Bytes()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
