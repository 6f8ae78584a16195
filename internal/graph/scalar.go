package graph

import (
	"encoding/json"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
)

// Decimal is an exact decimal number, serialized as a string so no precision
// is lost on the way to the client. Inputs accept strings, integers and
// floats.
var Decimal = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "An exact decimal number, serialized as a string, e.g. \"35.50\".",
	Serialize: func(value any) any {
		switch d := value.(type) {
		case decimal.Decimal:
			return formatDecimal(d)
		case *decimal.Decimal:
			if d == nil {
				return nil
			}
			return formatDecimal(*d)
		}
		return nil
	},
	ParseValue: func(value any) any {
		switch v := value.(type) {
		case string:
			return parseDecimal(v)
		case json.Number:
			return parseDecimal(v.String())
		case int:
			return decimal.NewFromInt(int64(v))
		case int64:
			return decimal.NewFromInt(v)
		case float64:
			return parseDecimal(strconv.FormatFloat(v, 'f', -1, 64))
		}
		return nil
	},
	ParseLiteral: func(valueAST ast.Value) any {
		switch v := valueAST.(type) {
		case *ast.StringValue:
			return parseDecimal(v.Value)
		case *ast.IntValue:
			return parseDecimal(v.Value)
		case *ast.FloatValue:
			return parseDecimal(v.Value)
		}
		return nil
	},
})

// formatDecimal keeps the scale of d, so a price read as 25.50 prints as
// "25.50" rather than "25.5".
func formatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

func parseDecimal(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return d
}
