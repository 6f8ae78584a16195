package pagination

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

// Args are the Relay connection arguments. after pairs with first and
// before pairs with last.
type Args struct {
	First  *int
	After  *string
	Last   *int
	Before *string
}

// Limits bounds the page size.
type Limits struct {
	Default int
	Max     int
}

var DefaultLimits = Limits{Default: 20, Max: 100}

// Query is a validated keyset page request over an ordering.
type Query[T any] struct {
	ordering Ordering[T]
	limit    int
	backward bool
	cursor   []string
}

// NewQuery validates args and decodes the cursor against ordering.
func NewQuery[T any](ordering Ordering[T], args Args, limits Limits) (Query[T], error) {
	if limits.Default <= 0 {
		limits.Default = DefaultLimits.Default
	}
	if limits.Max <= 0 {
		limits.Max = DefaultLimits.Max
	}

	if args.First != nil && args.Last != nil {
		return Query[T]{}, apperr.ErrInvalidPageRange.WithMsg("Passing both first and last is not supported.")
	}

	q := Query[T]{
		ordering: ordering,
		limit:    limits.Default,
		backward: args.Last != nil || (args.First == nil && args.Before != nil),
	}

	raw := args.After
	if q.backward {
		if args.After != nil {
			return Query[T]{}, apperr.ErrInvalidPageRange.WithMsg("Use after with first and before with last.")
		}
		raw = args.Before
	} else if args.Before != nil {
		return Query[T]{}, apperr.ErrInvalidPageRange.WithMsg("Use after with first and before with last.")
	}

	n := args.First
	if q.backward {
		n = args.Last
	}
	if n != nil {
		switch {
		case *n < 0:
			return Query[T]{}, apperr.ErrInvalidPageRange.WithMsg("first and last must be non-negative.")
		case *n > limits.Max:
			return Query[T]{}, apperr.ErrInvalidPageRange.WithMsg(
				fmt.Sprintf("Requesting %d records exceeds the limit of %d records.", *n, limits.Max))
		}
		q.limit = *n
	}

	if raw != nil && *raw != "" {
		cursor, err := ordering.decodeCursor(*raw)
		if err != nil {
			return Query[T]{}, err
		}
		q.cursor = cursor
	}

	return q, nil
}

// Limit is the requested page size.
func (q Query[T]) Limit() int { return q.limit }

// FetchLimit is the number of rows to read: one more than the page size so
// that the existence of a further page is known.
func (q Query[T]) FetchLimit() int { return q.limit + 1 }

func (q Query[T]) descending(t Term[T]) bool {
	return t.Desc != q.backward
}

// OrderSQL renders the ORDER BY list in the direction of travel.
func (q Query[T]) OrderSQL() string {
	parts := make([]string, 0, len(q.ordering))
	for _, t := range q.ordering {
		dir := "ASC"
		if q.descending(t) {
			dir = "DESC"
		}
		parts = append(parts, t.Column.Expr+" "+dir)
	}
	return strings.Join(parts, ", ")
}

// KeysetSQL renders the predicate selecting rows strictly beyond the cursor.
// It returns an empty string when the query has no cursor.
func (q Query[T]) KeysetSQL() (string, pgx.NamedArgs) {
	if q.cursor == nil {
		return "", nil
	}

	args := make(pgx.NamedArgs, len(q.ordering))
	ors := make([]string, 0, len(q.ordering))
	for i, t := range q.ordering {
		ands := make([]string, 0, i+1)
		for j := 0; j < i; j++ {
			prev := q.ordering[j]
			ands = append(ands, fmt.Sprintf("%s = @%s::%s", prev.Column.Expr, cursorParam(j), prev.Column.Type.cast()))
		}

		op := ">"
		if q.descending(t) {
			op = "<"
		}
		ands = append(ands, fmt.Sprintf("%s %s @%s::%s", t.Column.Expr, op, cursorParam(i), t.Column.Type.cast()))
		ors = append(ors, "("+strings.Join(ands, " AND ")+")")

		args[cursorParam(i)] = q.cursor[i]
	}

	return "(" + strings.Join(ors, " OR ") + ")", args
}

func cursorParam(i int) string {
	return "cursor_" + strconv.Itoa(i)
}

// Page builds a page from rows read in the direction of travel, at most
// FetchLimit of them.
func (q Query[T]) Page(rows []T) Page[T] {
	hasMore := len(rows) > q.limit
	if hasMore {
		rows = rows[:q.limit]
	}
	items := slices.Clone(rows)
	if q.backward {
		slices.Reverse(items)
	}

	cursors := make([]string, 0, len(items))
	for _, item := range items {
		cursors = append(cursors, q.ordering.encodeCursor(item))
	}

	page := Page[T]{Items: items, Cursors: cursors}
	if q.backward {
		page.HasPreviousPage = hasMore
		page.HasNextPage = q.cursor != nil
	} else {
		page.HasNextPage = hasMore
		page.HasPreviousPage = q.cursor != nil
	}

	return page
}

// Apply sorts, seeks and pages an in-memory collection with the same
// semantics as the SQL rendering.
func (q Query[T]) Apply(all []T) Page[T] {
	sorted := slices.Clone(all)
	slices.SortStableFunc(sorted, q.compare)

	rows := make([]T, 0, q.FetchLimit())
	for _, item := range sorted {
		if len(rows) == q.FetchLimit() {
			break
		}
		if q.cursor != nil && !q.beyondCursor(item) {
			continue
		}
		rows = append(rows, item)
	}

	return q.Page(rows)
}

func (q Query[T]) compare(a, b T) int {
	for _, t := range q.ordering {
		c := t.Column.Type.compare(t.Column.Value(a), t.Column.Value(b))
		if q.descending(t) {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func (q Query[T]) beyondCursor(item T) bool {
	for i, t := range q.ordering {
		c := t.Column.Type.compare(t.Column.Value(item), q.cursor[i])
		if q.descending(t) {
			c = -c
		}
		if c != 0 {
			return c > 0
		}
	}
	return false
}

// Page is one slice of a connection together with the cursor of each item.
type Page[T any] struct {
	Items           []T
	Cursors         []string
	HasNextPage     bool
	HasPreviousPage bool
}

func (p Page[T]) StartCursor() string {
	if len(p.Cursors) == 0 {
		return ""
	}
	return p.Cursors[0]
}

func (p Page[T]) EndCursor() string {
	if len(p.Cursors) == 0 {
		return ""
	}
	return p.Cursors[len(p.Cursors)-1]
}
