package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationType(t *testing.T) {
	const doc = `query Q { hello } mutation M { createCustomer(input: {name: "A", email: "a@x.com"}) { message } }`

	tests := []struct {
		name          string
		query         string
		operationName string
		want          string
	}{
		{"shorthand", "{ hello }", "", "query"},
		{"anonymous mutation", `mutation { createProduct(input: {name: "X", price: "1"}) { message } }`, "", "mutation"},
		{"named query selected", doc, "Q", "query"},
		{"named mutation selected", doc, "M", "mutation"},
		{"ambiguous without name", doc, "", operationUnknown},
		{"name not in document", "{ hello }", "Other", operationUnknown},
		{"syntax error", "mutation {", "", operationUnknown},
		{"fragment only", "fragment F on Query { hello }", "", operationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, operationType(tt.query, tt.operationName))
		})
	}
}
