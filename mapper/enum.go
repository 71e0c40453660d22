package mapper

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
)

// EnumMapper reads a column holding the canonical name of one of values.
func EnumMapper[T fragment.Enum](values ...T) ColumnMapper[T] {
	byName := make(map[string]T, len(values))
	for _, v := range values {
		byName[v.EnumName()] = v
	}
	return lookup(byName)
}

// ValueEnumMapper reads a column holding the bound value of one of values.
func ValueEnumMapper[T fragment.ScalarValueSource](values ...T) ColumnMapper[T] {
	byValue := make(map[string]T, len(values))
	for _, v := range values {
		byValue[fmt.Sprint(v.SQLValue())] = v
	}
	return lookup(byValue)
}

func lookup[T any](known map[string]T) ColumnMapper[T] {
	return func(c *Cursor, col Column) (T, bool, error) {
		var zero T
		s, null, err := String(c, col)
		if err != nil || null {
			return zero, null, err
		}
		v, ok := known[s]
		if !ok {
			return zero, false, errs.DataIntegrity("Unknown value '%s' for name of enum %T in column %s", s, zero, col)
		}
		return v, false, nil
	}
}

var separator = regexp.MustCompile(`\s*,\s*`)

// SeparatedList reads a comma separated column, converting each element with
// parse. An empty column is an empty list.
func SeparatedList[T any](parse func(string) (T, error)) ColumnMapper[[]T] {
	return func(c *Cursor, col Column) ([]T, bool, error) {
		s, null, err := String(c, col)
		if err != nil || null {
			return nil, null, err
		}
		if s == "" {
			return []T{}, false, nil
		}
		parts := separator.Split(s, -1)
		out := make([]T, len(parts))
		for i, p := range parts {
			if out[i], err = parse(p); err != nil {
				return nil, false, errs.Wrap(errs.ErrDataIntegrity, err, "element %d of column %s", i, col)
			}
		}
		return out, false, nil
	}
}

var SeparatedStrings = SeparatedList(func(s string) (string, error) { return s, nil })

// SeparatedInt64s reads empty elements as 0.
var SeparatedInt64s = SeparatedList(func(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
})

var SeparatedFloat64s = SeparatedList(func(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
})
