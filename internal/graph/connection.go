package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
)

type edge[T any] struct {
	node   T
	cursor string
}

type pageInfo struct {
	startCursor     *string
	endCursor       *string
	hasNextPage     bool
	hasPreviousPage bool
}

func newPageInfoType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "PageInfo",
		Description: "Information about pagination in a connection.",
		Fields: graphql.Fields{
			"hasNextPage": field(graphql.NewNonNull(graphql.Boolean), func(p pageInfo) any {
				return p.hasNextPage
			}),
			"hasPreviousPage": field(graphql.NewNonNull(graphql.Boolean), func(p pageInfo) any {
				return p.hasPreviousPage
			}),
			"startCursor": field(graphql.String, func(p pageInfo) any {
				if p.startCursor == nil {
					return nil
				}
				return *p.startCursor
			}),
			"endCursor": field(graphql.String, func(p pageInfo) any {
				if p.endCursor == nil {
					return nil
				}
				return *p.endCursor
			}),
		},
	})
}

// newConnectionType builds the {name}Connection and {name}Edge types over
// pagination.Page[T] sources.
func newConnectionType[T any](name string, node *graphql.Object, pageInfoType *graphql.Object) *graphql.Object {
	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name:        name + "Edge",
		Description: "A " + name + " together with its cursor.",
		Fields: graphql.Fields{
			"node": field(graphql.NewNonNull(node), func(e edge[T]) any {
				return e.node
			}),
			"cursor": field(graphql.NewNonNull(graphql.String), func(e edge[T]) any {
				return e.cursor
			}),
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Connection",
		Fields: graphql.Fields{
			"edges": field(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edgeType))), func(p pagination.Page[T]) any {
				edges := make([]edge[T], 0, len(p.Items))
				for i, item := range p.Items {
					edges = append(edges, edge[T]{node: item, cursor: p.Cursors[i]})
				}
				return edges
			}),
			"pageInfo": field(graphql.NewNonNull(pageInfoType), func(p pagination.Page[T]) any {
				info := pageInfo{hasNextPage: p.HasNextPage, hasPreviousPage: p.HasPreviousPage}
				if len(p.Cursors) > 0 {
					start, end := p.StartCursor(), p.EndCursor()
					info.startCursor, info.endCursor = &start, &end
				}
				return info
			}),
		},
	})
}
