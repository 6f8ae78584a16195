// Package playground serves a GraphiQL page for exploring the API.
package playground

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// URL is the path where the GraphiQL page is served.
const URL = "/playground"

// Register registers the playground handler on the given router. endpoint is
// the path of the GraphQL endpoint the page sends queries to.
func Register(r chi.Router, endpoint string) {
	templateBytes := []byte(getTemplate(endpoint))

	r.Get(URL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(templateBytes)
	})
}

// getTemplate returns the HTML template for GraphiQL
func getTemplate(endpoint string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>GraphiQL</title>
  <style>body { height: 100%%; margin: 0; } #graphiql { height: 100vh; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3.7.1/graphiql.min.css" />
</head>
<body>
<div id="graphiql">Loading...</div>
<script src="https://unpkg.com/react@18/umd/react.production.min.js" crossorigin></script>
<script src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js" crossorigin></script>
<script src="https://unpkg.com/graphiql@3.7.1/graphiql.min.js" crossorigin></script>
<script>
  const fetcher = GraphiQL.createFetcher({ url: '%s' });
  ReactDOM.createRoot(document.getElementById('graphiql')).render(
    React.createElement(GraphiQL, { fetcher, defaultEditorToolsVisibility: true }),
  );
</script>
</body>
</html>
`, endpoint)
}
