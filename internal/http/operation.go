package http

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/graph/gqlerr"
)

const operationUnknown = "unknown"

// operationType returns the type of the operation a request selects from
// its document: query, mutation or subscription. Documents that do not parse
// or do not select exactly one operation are unknown; the executor rejects
// those without running anything.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return operationUnknown
	}

	var selected *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" {
			if selected != nil {
				return operationUnknown
			}
			selected = op
			continue
		}
		if op.Name != nil && op.Name.Value == operationName {
			selected = op
			break
		}
	}

	if selected == nil {
		return operationUnknown
	}
	if selected.Operation == "" {
		return ast.OperationTypeQuery
	}
	return selected.Operation
}

// queryOnly refuses GET requests that select a mutation so a followed link
// or embedded image never writes.
func queryOnly(next http.Handler) http.Handler {
	body, err := json.Marshal(gqlerr.NewResponse(gqlerr.New(apperr.ErrMutationRequiresPost)))
	if err != nil {
		panic(err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if operationType(q.Get("query"), q.Get("operationName")) == ast.OperationTypeMutation {
			w.Header().Set("Allow", http.MethodPost)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write(body)
			return
		}

		next.ServeHTTP(w, r)
	})
}
