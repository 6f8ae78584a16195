package repository

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

// selectPage runs selectFrom with the filter and keyset conditions, ordered
// in the direction of travel and limited to one row past the page.
func selectPage[T any](
	ctx context.Context,
	d db.DB,
	selectFrom string,
	pred filter.Predicate[T],
	q pagination.Query[T],
	scan pgx.RowToFunc[T],
) (pagination.Page[T], error) {
	args := pgx.NamedArgs{"limit": q.FetchLimit()}
	var where []string
	if sql, a := pred.SQL(); sql != "" {
		where = append(where, sql)
		maps.Copy(args, a)
	}
	if sql, a := q.KeysetSQL(); sql != "" {
		where = append(where, sql)
		maps.Copy(args, a)
	}

	var b strings.Builder
	b.WriteString(selectFrom)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(q.OrderSQL())
	b.WriteString(" LIMIT @limit")

	rows, err := d.Query(ctx, b.String(), args)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("query: %w", err)
	}

	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("collect rows: %w", err)
	}

	return q.Page(items), nil
}
