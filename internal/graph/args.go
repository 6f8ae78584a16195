package graph

import (
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
)

func optString(args map[string]any, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func optInt(args map[string]any, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

func optDecimal(args map[string]any, name string) *decimal.Decimal {
	if v, ok := args[name].(decimal.Decimal); ok {
		return &v
	}
	return nil
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

// stringList returns the non-null strings of a list argument.
func stringList(args map[string]any, name string) []string {
	items, _ := args[name].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectArg(args map[string]any, name string) map[string]any {
	m, _ := args[name].(map[string]any)
	return m
}

func pageArgs(args map[string]any) pagination.Args {
	return pagination.Args{
		First:  optInt(args, "first"),
		After:  optString(args, "after"),
		Last:   optInt(args, "last"),
		Before: optString(args, "before"),
	}
}
