package pagination

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
)

// IDField is the column every ordering ends with, making the sort total.
const IDField = "id"

// ValueType tells how a sort column compares and how cursor values are cast.
type ValueType uint8

const (
	Text ValueType = iota
	Numeric
	Integer
	Timestamp
	UUID
)

func (t ValueType) cast() string {
	switch t {
	case Numeric:
		return "numeric"
	case Integer:
		return "integer"
	case Timestamp:
		return "timestamptz"
	case UUID:
		return "uuid"
	default:
		return "text"
	}
}

func (t ValueType) valid(s string) bool {
	var err error
	switch t {
	case Numeric:
		_, err = decimal.NewFromString(s)
	case Integer:
		_, err = strconv.Atoi(s)
	case Timestamp:
		_, err = time.Parse(time.RFC3339Nano, s)
	case UUID:
		_, err = uuid.Parse(s)
	}
	return err == nil
}

func (t ValueType) compare(a, b string) int {
	switch t {
	case Numeric:
		da, errA := decimal.NewFromString(a)
		db, errB := decimal.NewFromString(b)
		if errA == nil && errB == nil {
			return da.Cmp(db)
		}
	case Integer:
		ia, errA := strconv.Atoi(a)
		ib, errB := strconv.Atoi(b)
		if errA == nil && errB == nil {
			return compareInts(ia, ib)
		}
	case Timestamp:
		ta, errA := time.Parse(time.RFC3339Nano, a)
		tb, errB := time.Parse(time.RFC3339Nano, b)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(a, b)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FormatTime renders a timestamp the way Timestamp cursor values are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Column maps a sortable API field to its SQL expression and its value on T.
type Column[T any] struct {
	Expr  string
	Type  ValueType
	Value func(T) string
}

// Term is one element of an ordering.
type Term[T any] struct {
	Name   string
	Column Column[T]
	Desc   bool
}

func (t Term[T]) key() string {
	if t.Desc {
		return "-" + t.Name
	}
	return t.Name
}

// Ordering is a list of sort terms that always ends with the id column.
type Ordering[T any] []Term[T]

// ParseOrdering builds an ordering from orderBy field names. A leading "-"
// sorts descending. Names may be given in snake_case or camelCase.
func ParseOrdering[T any](columns map[string]Column[T], fields []string) (Ordering[T], error) {
	idColumn, ok := columns[IDField]
	if !ok {
		return nil, fmt.Errorf("ordering columns lack %q", IDField)
	}

	ordering := make(Ordering[T], 0, len(fields)+1)
	seen := make(map[string]struct{}, len(fields)+1)
	for _, raw := range fields {
		field := strings.TrimSpace(raw)
		if field == "" {
			continue
		}

		desc := false
		switch field[0] {
		case '-':
			desc = true
			field = field[1:]
		case '+':
			field = field[1:]
		}

		name := toSnake(field)
		col, ok := columns[name]
		if !ok {
			return nil, apperr.ErrInvalidOrderBy.WithMsg(fmt.Sprintf("Cannot order by %q.", raw))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		ordering = append(ordering, Term[T]{Name: name, Column: col, Desc: desc})
	}

	if _, ok := seen[IDField]; !ok {
		ordering = append(ordering, Term[T]{Name: IDField, Column: idColumn})
	}

	return ordering, nil
}

// Keys returns the orderBy form of the ordering, e.g. ["-price", "id"].
func (o Ordering[T]) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, t := range o {
		keys = append(keys, t.key())
	}
	return keys
}

func (o Ordering[T]) values(item T) []string {
	values := make([]string, 0, len(o))
	for _, t := range o {
		values = append(values, t.Column.Value(item))
	}
	return values
}

func toSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
