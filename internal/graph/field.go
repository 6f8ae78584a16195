package graph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/tuanvumaihuynh/graphql-crm/internal/nodeid"
)

// field resolves a field of a source of type T.
func field[T any](typ graphql.Output, get func(T) any) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			src, ok := p.Source.(T)
			if !ok {
				return nil, fmt.Errorf("field %s: unexpected source %T", p.Info.FieldName, p.Source)
			}
			return get(src), nil
		},
	}
}

// globalIDField resolves the Node id of a source of type T.
func globalIDField[T any](typeName string, id func(T) uuid.UUID) *graphql.Field {
	f := field(graphql.NewNonNull(graphql.ID), func(src T) any {
		return nodeid.Encode(typeName, id(src))
	})
	f.Description = "The ID of the object."
	return f
}
