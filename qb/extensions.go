package qb

import (
	"reflect"
	"time"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
)

// NotEmpty requires the staged column to be neither '' nor NULL.
//
//	NewExpression().Column("name").Apply(NotEmpty)
var NotEmpty Extension = func(e *Expression, s *Staging) error {
	sub := e.Pivot().Not().Eq().Value("").And().Not().Eq().Value(nil)
	if err := sub.Err(); err != nil {
		return err
	}
	e.Value(sub)
	return e.Err()
}

// OrIsNull widens the staged clause so that a NULL column matches as well.
// A nil staged value leaves the clause untouched.
var OrIsNull Extension = func(e *Expression, s *Staging) error {
	if fragment.IsNull(s.Value) {
		return nil
	}
	if !s.ValueSet {
		return errs.IllegalState("or is null needs a value")
	}
	sub := e.Pivot().Or().Eq().Value(nil)
	if err := sub.Err(); err != nil {
		return err
	}
	s.Value = sub
	s.Comparator = NoComparator
	return nil
}

// ToTimestamp converts the staged value to time.Time. Integers are read as
// milliseconds since the Unix epoch.
var ToTimestamp Extension = func(e *Expression, s *Staging) error {
	if fragment.IsNull(s.Value) {
		return nil
	}
	switch v := s.Value.(type) {
	case time.Time:
		return nil
	case *time.Time:
		s.Value = *v
		return nil
	}
	rv := reflect.ValueOf(s.Value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.Value = time.UnixMilli(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.Value = time.UnixMilli(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		s.Value = time.UnixMilli(int64(rv.Float()))
	default:
		return errs.IllegalArgument("cannot convert %T to a timestamp", s.Value)
	}
	return nil
}

// BetweenValues switches the clause to BETWEEN; the value must hold exactly
// two elements.
var BetweenValues Extension = func(e *Expression, s *Staging) error {
	if s.Comparator != e.seed.Comparator {
		return errs.IllegalState("comparator is already set")
	}
	s.Comparator = Between
	return nil
}

// Bound is one end of a Range.
type Bound struct {
	Value     any
	Inclusive bool
}

// Range is a possibly half-open interval. A nil bound is unbounded.
type Range struct {
	Lower *Bound
	Upper *Bound
}

func Closed(lower, upper any) Range {
	return Range{Lower: &Bound{lower, true}, Upper: &Bound{upper, true}}
}

func ClosedOpen(lower, upper any) Range {
	return Range{Lower: &Bound{lower, true}, Upper: &Bound{upper, false}}
}

func AtLeast(lower any) Range {
	return Range{Lower: &Bound{lower, true}}
}

func LessThan(upper any) Range {
	return Range{Upper: &Bound{upper, false}}
}

// InRange expands a staged Range into >=/> and <=/< clauses on the staged
// column. Bounds holding nil are skipped. A nil value is accepted only on
// an IfNotNullValue clause, where it drops the clause.
var InRange Extension = func(e *Expression, s *Staging) error {
	var r Range
	switch v := s.Value.(type) {
	case Range:
		r = v
	case *Range:
		if v == nil {
			return inRangeNil(s)
		}
		r = *v
	default:
		if fragment.IsNull(s.Value) {
			return inRangeNil(s)
		}
		return errs.IllegalArgument("in range needs a qb.Range, got %T", s.Value)
	}
	if s.Not {
		return errs.IllegalState("negated ranges are not supported")
	}
	if s.Comparator != NoComparator {
		return errs.IllegalState("in range sets its own comparators")
	}

	seed := *s
	seed.Value, seed.ValueSet, seed.IfNotNull, seed.Concat = nil, false, false, ConcatAnd
	sub := newExpression("", seed)
	if r.Lower != nil {
		if r.Lower.Inclusive {
			sub.Ge()
		} else {
			sub.Gt()
		}
		sub.IfNotNullValue(r.Lower.Value)
	}
	if r.Upper != nil {
		if r.Lower != nil {
			sub.And()
		}
		if r.Upper.Inclusive {
			sub.Le()
		} else {
			sub.Lt()
		}
		sub.IfNotNullValue(r.Upper.Value)
	}
	if err := sub.Err(); err != nil {
		return err
	}
	s.Value = sub
	s.IfNotNull = true
	return nil
}

func inRangeNil(s *Staging) error {
	if !s.IfNotNull {
		return errs.IllegalState("in range needs a value or IfNotNullValue")
	}
	s.Value = nil
	return nil
}
