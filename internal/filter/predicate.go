// Package filter translates optional query parameters into composable
// predicates. A predicate renders to a SQL condition with named arguments
// and evaluates against in-memory values with the same semantics.
package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

type condition[T any] struct {
	sql   string
	args  pgx.NamedArgs
	match func(T) bool
}

// Predicate is a conjunction of conditions over T. The zero value matches everything.
type Predicate[T any] struct {
	conds []condition[T]
}

// And returns a predicate that also requires the given condition.
func (p Predicate[T]) And(sql string, args pgx.NamedArgs, match func(T) bool) Predicate[T] {
	p.conds = append(slices.Clip(p.conds), condition[T]{sql: sql, args: args, match: match})
	return p
}

// Empty reports whether the predicate imposes no constraint.
func (p Predicate[T]) Empty() bool {
	return len(p.conds) == 0
}

// SQL renders the predicate. It returns an empty string for an empty predicate.
func (p Predicate[T]) SQL() (string, pgx.NamedArgs) {
	if p.Empty() {
		return "", nil
	}

	clauses := make([]string, 0, len(p.conds))
	args := pgx.NamedArgs{}
	for _, c := range p.conds {
		clauses = append(clauses, c.sql)
		maps.Copy(args, c.args)
	}
	return strings.Join(clauses, " AND "), args
}

// Match evaluates the predicate against v.
func (p Predicate[T]) Match(v T) bool {
	for _, c := range p.conds {
		if !c.match(v) {
			return false
		}
	}
	return true
}

// DecimalRange is an inclusive range; either bound may be omitted.
type DecimalRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// IntRange is an inclusive range; either bound may be omitted.
type IntRange struct {
	Min *int
	Max *int
}

// TimeRange is an inclusive range; either bound may be omitted.
type TimeRange struct {
	After  *time.Time
	Before *time.Time
}

const dateLayout = "2006-01-02"

// ParseTimeRange parses the bounds of a date range filter. Bounds are RFC3339
// timestamps or YYYY-MM-DD dates; a date given as upper bound covers the
// whole day.
func ParseTimeRange(after, before *string) (TimeRange, error) {
	var r TimeRange
	if after != nil && *after != "" {
		t, err := parseTimeBound(*after, false)
		if err != nil {
			return TimeRange{}, err
		}
		r.After = &t
	}
	if before != nil && *before != "" {
		t, err := parseTimeBound(*before, true)
		if err != nil {
			return TimeRange{}, err
		}
		r.Before = &t
	}
	return r, nil
}

func parseTimeBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperr.ErrInvalidFilter.
			WithMsg(fmt.Sprintf("Invalid date %q: expected YYYY-MM-DD or an RFC3339 timestamp.", s)).
			WrapParent(err)
	}
	if upper {
		// timestamptz has microsecond resolution
		d = d.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return d, nil
}

func containsFold[T any](p Predicate[T], expr, param string, value *string, get func(T) string) Predicate[T] {
	if value == nil || *value == "" {
		return p
	}
	needle := strings.ToLower(*value)
	return p.And(
		fmt.Sprintf("%s ILIKE @%s", expr, param),
		pgx.NamedArgs{param: "%" + escapeLike(*value) + "%"},
		func(v T) bool { return strings.Contains(strings.ToLower(get(v)), needle) },
	)
}

func decimalRange[T any](p Predicate[T], expr, param string, r DecimalRange, get func(T) decimal.Decimal) Predicate[T] {
	if r.Min != nil {
		lo := *r.Min
		p = p.And(fmt.Sprintf("%s >= @%s_min", expr, param), pgx.NamedArgs{param + "_min": lo},
			func(v T) bool { return get(v).GreaterThanOrEqual(lo) })
	}
	if r.Max != nil {
		hi := *r.Max
		p = p.And(fmt.Sprintf("%s <= @%s_max", expr, param), pgx.NamedArgs{param + "_max": hi},
			func(v T) bool { return get(v).LessThanOrEqual(hi) })
	}
	return p
}

func intRange[T any](p Predicate[T], expr, param string, r IntRange, get func(T) int) Predicate[T] {
	if r.Min != nil {
		lo := *r.Min
		p = p.And(fmt.Sprintf("%s >= @%s_min", expr, param), pgx.NamedArgs{param + "_min": lo},
			func(v T) bool { return get(v) >= lo })
	}
	if r.Max != nil {
		hi := *r.Max
		p = p.And(fmt.Sprintf("%s <= @%s_max", expr, param), pgx.NamedArgs{param + "_max": hi},
			func(v T) bool { return get(v) <= hi })
	}
	return p
}

func timeRange[T any](p Predicate[T], expr, param string, r TimeRange, get func(T) time.Time) Predicate[T] {
	if r.After != nil {
		lo := *r.After
		p = p.And(fmt.Sprintf("%s >= @%s_after", expr, param), pgx.NamedArgs{param + "_after": lo},
			func(v T) bool { return !get(v).Before(lo) })
	}
	if r.Before != nil {
		hi := *r.Before
		p = p.And(fmt.Sprintf("%s <= @%s_before", expr, param), pgx.NamedArgs{param + "_before": hi},
			func(v T) bool { return !get(v).After(hi) })
	}
	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
