package qb

import (
	"strings"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// orderTautology keeps ORDER BY valid when no entry survives.
const orderTautology = "NULL"

type orderEntry struct {
	column    string
	direction Direction
	qualifier any
}

// OrderBy renders an ORDER BY list. Entries added with a qualifier are kept
// only when that qualifier is active.
type OrderBy struct {
	entries    []orderEntry
	qualifiers []any
}

func NewOrderBy() *OrderBy {
	return &OrderBy{}
}

func (o *OrderBy) By(column string) *OrderBy {
	return o.ByDir(column, ASC)
}

func (o *OrderBy) ByDir(column string, direction Direction) *OrderBy {
	return o.ByQualified(nil, column, direction)
}

func (o *OrderBy) ByQualified(qualifier any, column string, direction Direction) *OrderBy {
	o.entries = append(o.entries, orderEntry{column: column, direction: direction, qualifier: qualifier})
	return o
}

// Qualifiers activates qualifiers. Calling it, even with no arguments,
// marks the qualifiers as configured.
func (o *OrderBy) Qualifiers(qualifiers ...any) *OrderBy {
	if o.qualifiers == nil {
		o.qualifiers = []any{}
	}
	o.qualifiers = append(o.qualifiers, qualifiers...)
	return o
}

func (o *OrderBy) render() (string, error) {
	var parts []string
	for _, e := range o.entries {
		if e.qualifier != nil && o.qualifiers == nil {
			return "", errs.IllegalState("Qualifiers for order by are not set")
		}
		if e.qualifier == nil || containsQualifier(o.qualifiers, e.qualifier) {
			parts = append(parts, e.column+" "+string(e.direction))
		}
	}
	return strings.Join(parts, ", "), nil
}

func (o *OrderBy) Text() string {
	text, _ := o.render()
	return text
}

func (o *OrderBy) Params() []any {
	return nil
}

func (o *OrderBy) Err() error {
	_, err := o.render()
	return err
}

func (o *OrderBy) String() string {
	return o.Text()
}

func (o *OrderBy) Resolve() fragment.Resolution {
	r := fragment.Resolution{
		Kind:      fragment.Predicate,
		Predicate: fragment.New(o.Text()),
		Tautology: fragment.New(orderTautology),
	}
	if r.Predicate.Text() == "" {
		r.Kind = fragment.NoPredicate
	}
	return r
}

func (o *OrderBy) Build() (fragment.Fragment, error) {
	text, err := o.render()
	if err != nil {
		return nil, err
	}
	return fragment.New(text), nil
}
