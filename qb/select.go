package qb

import (
	"reflect"
	"strings"

	"github.com/golobby/sqlkit/fragment"
)

// SelectHint is a qualifier that also renders a SELECT modifier.
type SelectHint interface {
	fragment.Fragment
	hint()
}

type MySQLHint string

const (
	Distinct         MySQLHint = "DISTINCT"
	HighPriority     MySQLHint = "HIGH_PRIORITY"
	StraightJoin     MySQLHint = "STRAIGHT_JOIN"
	SQLSmallResult   MySQLHint = "SQL_SMALL_RESULT"
	SQLBigResult     MySQLHint = "SQL_BIG_RESULT"
	SQLBufferResult  MySQLHint = "SQL_BUFFER_RESULT"
	SQLCache         MySQLHint = "SQL_CACHE"
	SQLNoCache       MySQLHint = "SQL_NO_CACHE"
	SQLCalcFoundRows MySQLHint = "SQL_CALC_FOUND_ROWS"
)

func (h MySQLHint) Text() string  { return string(h) }
func (h MySQLHint) Params() []any { return nil }
func (h MySQLHint) hint()         {}

// Select renders a column projection. Columns registered under a qualifier
// are included only when that qualifier is active; untagged columns always
// are. Duplicate columns are rendered once.
type Select struct {
	untagged   []string
	tagged     []taggedColumns
	qualifiers []any
}

type taggedColumns struct {
	qualifier any
	columns   []string
}

func NewSelect(qualifiers ...any) *Select {
	return (&Select{}).Qualifiers(qualifiers...)
}

func (s *Select) Columns(columns ...string) *Select {
	s.untagged = append(s.untagged, columns...)
	return s
}

// ColumnsIf registers untagged columns when cond holds.
func (s *Select) ColumnsIf(cond bool, columns ...string) *Select {
	if cond {
		return s.Columns(columns...)
	}
	return s
}

func (s *Select) QualifiedColumns(qualifier any, columns ...string) *Select {
	if qualifier == nil {
		return s.Columns(columns...)
	}
	for i := range s.tagged {
		if sameQualifier(s.tagged[i].qualifier, qualifier) {
			s.tagged[i].columns = append(s.tagged[i].columns, columns...)
			return s
		}
	}
	s.tagged = append(s.tagged, taggedColumns{qualifier: qualifier, columns: columns})
	return s
}

func (s *Select) Qualifiers(qualifiers ...any) *Select {
	s.qualifiers = append(s.qualifiers, qualifiers...)
	return s
}

func (s *Select) Contains(hint SelectHint) bool {
	return containsQualifier(s.qualifiers, hint)
}

func (s *Select) Text() string {
	var sb strings.Builder
	seen := map[string]bool{}
	var columns []string
	add := func(cols []string) {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	add(s.untagged)
	for _, q := range s.qualifiers {
		if h, ok := q.(SelectHint); ok {
			sb.WriteString(h.Text())
			sb.WriteString(" ")
		}
		for _, t := range s.tagged {
			if sameQualifier(t.qualifier, q) {
				add(t.columns)
			}
		}
	}
	sb.WriteString(strings.Join(columns, ", "))
	return sb.String()
}

func (s *Select) Params() []any {
	return nil
}

func (s *Select) String() string {
	return s.Text()
}

func containsQualifier(qualifiers []any, q any) bool {
	for _, x := range qualifiers {
		if sameQualifier(x, q) {
			return true
		}
	}
	return false
}

func sameQualifier(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
