package qb

import (
	"iter"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
)

// Default is the DEFAULT keyword as a value.
var Default = fragment.New("DEFAULT")

// InsertValues renders the row list of a multi-row INSERT.
//
// By default the template supplies the outer parentheses:
//
//	INSERT INTO t (a, b) VALUES (:rows)
//
// and rows are separated by "),\n    (". NewInsertValuesOutside wraps every
// row itself instead.
type InsertValues struct {
	out        fragment.Builder
	whitespace string
	inside     bool
}

func NewInsertValues() *InsertValues {
	return &InsertValues{whitespace: "\n    ", inside: true}
}

func NewInsertValuesOutside(whitespace string) *InsertValues {
	return &InsertValues{whitespace: whitespace}
}

// Values appends one row.
func (iv *InsertValues) Values(values ...any) *InsertValues {
	if iv.out.Len() > 0 {
		if iv.inside {
			iv.out.Write("),").Write(iv.whitespace).Write("(")
		} else {
			iv.out.Write(",")
		}
	}
	if !iv.inside {
		iv.out.Write(iv.whitespace).Write("(")
	}
	for i, v := range values {
		if i > 0 {
			iv.out.Write(", ")
		}
		iv.out.Append(v)
	}
	if !iv.inside {
		iv.out.Write(")")
	}
	return iv
}

func (iv *InsertValues) Text() string {
	return iv.out.String()
}

func (iv *InsertValues) Params() []any {
	return iv.out.Fragment().Params()
}

func (iv *InsertValues) Err() error {
	if iv.out.Len() == 0 {
		return errs.IllegalState("insert values are empty")
	}
	return iv.out.Err()
}

func (iv *InsertValues) Build() (fragment.Fragment, error) {
	if err := iv.Err(); err != nil {
		return nil, err
	}
	return iv.out.Fragment(), nil
}

// Sequential builds one row per step, taking the i-th column from the i-th
// sequence. It stops at the end of the shortest sequence.
func Sequential(columns ...iter.Seq[any]) (*InsertValues, error) {
	if len(columns) == 0 {
		return nil, errs.IllegalArgument("sequential needs at least one column sequence")
	}
	iv := NewInsertValues()
	nexts := make([]func() (any, bool), len(columns))
	for i, seq := range columns {
		next, stop := iter.Pull(seq)
		defer stop()
		nexts[i] = next
	}
	for {
		row := make([]any, len(columns))
		for i, next := range nexts {
			v, ok := next()
			if !ok {
				return iv, nil
			}
			row[i] = v
		}
		iv.Values(row...)
	}
}

// StaticSequence yields v forever.
func StaticSequence(v any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for yield(v) {
		}
	}
}

// SliceSequence yields the elements of a slice or array.
func SliceSequence(slice any) iter.Seq[any] {
	el, _ := fragment.Elements(slice)
	return func(yield func(any) bool) {
		for _, v := range el {
			if !yield(v) {
				return
			}
		}
	}
}
