package qb

import (
	"fmt"
	"strings"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
)

type Comparator int

const (
	NoComparator Comparator = iota
	Equal
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
	In
	IsNull
	Like
	LikePattern
	Between
)

var comparatorText = [...][2]string{
	NoComparator:   {"", ""},
	Equal:          {"=", "<>"},
	Greater:        {">", "<="},
	GreaterOrEqual: {">=", "<"},
	Less:           {"<", ">="},
	LessOrEqual:    {"<=", ">"},
	In:             {"IN", "NOT IN"},
	IsNull:         {"IS NULL", "IS NOT NULL"},
	Like:           {"LIKE", "NOT LIKE"},
	LikePattern:    {"LIKE", "NOT LIKE"},
	Between:        {"BETWEEN", "NOT BETWEEN"},
}

// Text returns the SQL operator, negated when not is true.
func (c Comparator) Text(not bool) string {
	if not {
		return comparatorText[c][1]
	}
	return comparatorText[c][0]
}

const (
	ConcatAnd = "AND"
	ConcatOr  = "OR"
)

const (
	defaultIndent = "\n  "
	tautology     = "1=1"
)

// Staging is the clause being assembled. Extensions receive it and may
// rewrite Value and Comparator before the clause is flushed.
type Staging struct {
	Column     string
	Comparator Comparator
	Value      any
	ValueSet   bool
	Not        bool
	IfNotNull  bool
	Concat     string
}

type clauseState uint8

const stateEmpty clauseState = 0

const (
	stateColumnSet clauseState = 1 << iota
	stateNotSet
	stateComparatorSet
	stateValueSet
)

func (s clauseState) has(flag clauseState) bool {
	return s&flag != 0
}

// Extension rewrites the staged clause. It runs immediately when applied.
type Extension func(e *Expression, s *Staging) error

// Expression assembles a boolean SQL predicate out of column, comparator and
// value triples joined by AND and OR. Each of the three may be set once per
// clause; And and Or flush the clause and open the next one.
//
// The first misuse is recorded and turns every later call into a no-op; it is
// reported by Err and Build.
type Expression struct {
	indent     string
	seed       Staging
	staging    Staging
	state      clauseState
	out        fragment.Builder
	modCount   int
	alwaysTrue bool
	err        error
}

func NewExpression() *Expression {
	return newExpression(defaultIndent, Staging{})
}

func newExpression(indent string, seed Staging) *Expression {
	e := &Expression{indent: indent, seed: seed, modCount: 1}
	e.reset()
	return e
}

func (e *Expression) reset() {
	e.staging = e.seed
	e.state = stateEmpty
	if e.seed.Column != "" {
		e.state |= stateColumnSet
	}
}

func (e *Expression) fail(err error) *Expression {
	if e.err == nil {
		e.err = err
	}
	return e
}

func (e *Expression) Column(name string) *Expression {
	if e.err != nil {
		return e
	}
	if e.state.has(stateColumnSet) {
		return e.fail(errs.IllegalState("column is already set to %q", e.staging.Column))
	}
	e.staging.Column = name
	e.state |= stateColumnSet
	e.modCount++
	return e
}

func (e *Expression) Not() *Expression {
	if e.err != nil {
		return e
	}
	if e.state.has(stateNotSet) {
		return e.fail(errs.IllegalState("not is already set"))
	}
	e.staging.Not = true
	e.state |= stateNotSet
	e.modCount++
	return e
}

func (e *Expression) Eq() *Expression          { return e.comparator(Equal) }
func (e *Expression) Gt() *Expression          { return e.comparator(Greater) }
func (e *Expression) Ge() *Expression          { return e.comparator(GreaterOrEqual) }
func (e *Expression) Lt() *Expression          { return e.comparator(Less) }
func (e *Expression) Le() *Expression          { return e.comparator(LessOrEqual) }
func (e *Expression) In() *Expression          { return e.comparator(In) }
func (e *Expression) Like() *Expression        { return e.comparator(Like) }
func (e *Expression) LikePattern() *Expression { return e.comparator(LikePattern) }

func (e *Expression) comparator(c Comparator) *Expression {
	if e.err != nil {
		return e
	}
	if e.state.has(stateComparatorSet) {
		return e.fail(errs.IllegalState("comparator is already set"))
	}
	e.staging.Comparator = c
	e.state |= stateComparatorSet
	e.modCount++
	return e
}

func (e *Expression) Value(v any) *Expression {
	return e.value(v, false)
}

// Values stages all arguments as one slice value, for In and Between.
func (e *Expression) Values(v ...any) *Expression {
	return e.value(v, false)
}

// IfNotNullValue stages v; when v is nil the whole clause is dropped.
func (e *Expression) IfNotNullValue(v any) *Expression {
	return e.value(v, true)
}

func (e *Expression) value(v any, ifNotNull bool) *Expression {
	if e.err != nil {
		return e
	}
	if e.state.has(stateValueSet) {
		return e.fail(errs.IllegalState("value is already set"))
	}
	e.staging.IfNotNull = ifNotNull
	e.staging.ValueSet = true
	e.staging.Value = v
	e.state |= stateValueSet
	e.modCount++
	return e
}

func (e *Expression) And() *Expression {
	return e.concat(ConcatAnd)
}

func (e *Expression) Or() *Expression {
	return e.concat(ConcatOr)
}

// AndExpr joins sub as a parenthesized sub-expression.
func (e *Expression) AndExpr(sub fragment.Fragment) *Expression {
	return e.And().Value(sub)
}

func (e *Expression) OrExpr(sub fragment.Fragment) *Expression {
	return e.Or().Value(sub)
}

func (e *Expression) concat(op string) *Expression {
	if e.err != nil {
		return e
	}
	if err := e.flush(false); err != nil {
		return e.fail(err)
	}
	e.staging.Concat = op
	return e
}

func (e *Expression) Apply(extensions ...Extension) *Expression {
	for _, ext := range extensions {
		if e.err != nil {
			return e
		}
		if err := ext(e, &e.staging); err != nil {
			return e.fail(err)
		}
		if e.staging.Comparator != e.seed.Comparator {
			e.state |= stateComparatorSet
		}
		e.modCount++
	}
	return e
}

// AlwaysTrue makes an expression that emitted nothing render as a tautology.
func (e *Expression) AlwaysTrue() *Expression {
	e.alwaysTrue = true
	return e
}

// Pivot returns a fresh expression seeded with the staged clause. Clauses of
// the pivot are joined by a single space.
func (e *Expression) Pivot() *Expression {
	return e.PivotIndent(false)
}

func (e *Expression) PivotIndent(indentation bool) *Expression {
	indent := ""
	if indentation && e.indent != "" {
		indent = e.indent + "  "
	}
	return newExpression(indent, e.staging)
}

func (e *Expression) flush(ignoreIllegalState bool) error {
	s := &e.staging
	_, isSub := s.Value.(fragment.Fragment)
	isSub = isSub && s.Comparator == NoComparator
	null := fragment.IsNull(s.Value)

	var problems []string
	if !s.ValueSet {
		problems = append(problems, "value not set")
	}
	if s.Comparator == NoComparator && !isSub && !(s.IfNotNull && null) {
		problems = append(problems, "comparator not set")
	}
	if s.Column == "" && !isSub {
		problems = append(problems, "column name not set")
	}
	if e.out.Len() > 0 && s.Concat == "" {
		problems = append(problems, "concat not set")
	}
	if len(problems) > 0 {
		if ignoreIllegalState {
			return nil
		}
		return errs.IllegalState("%s", strings.Join(problems, ", "))
	}
	if e.modCount == 0 {
		return nil
	}
	e.modCount = 0
	defer e.reset()

	var sub fragment.Fragment
	if isSub && !null {
		if f, ok := s.Value.(fragment.Failer); ok && f.Err() != nil {
			return f.Err()
		}
		sub = s.Value.(fragment.Fragment)
		if fragment.IsBlank(sub) {
			sub = nil
		}
	}
	if sub == nil && (isSub || (s.IfNotNull && null)) {
		return nil
	}

	if null {
		if s.Comparator != Equal {
			return errs.IllegalArgument("nil value for %s comparator on column %q", s.Comparator.Text(s.Not), s.Column)
		}
		s.Comparator = IsNull
	}

	var b fragment.Builder
	if s.Concat != "" && e.out.Len() > 0 {
		indent := e.indent
		if indent == "" {
			indent = " "
		}
		b.Write(indent).Write(s.Concat).Write(" ")
	}
	b.Write("(")
	if sub != nil {
		if f, ok := sub.(fragment.Failer); ok {
			b.Fail(f.Err())
		}
		b.Splice(fragment.New(strings.TrimSpace(sub.Text()), sub.Params()...))
	} else if err := e.writeClause(&b, s); err != nil {
		return err
	}
	b.Write(")")
	if b.Err() != nil {
		return b.Err()
	}
	e.out.Splice(b.Fragment())
	return nil
}

func (e *Expression) writeClause(b *fragment.Builder, s *Staging) error {
	b.Write(s.Column).Write(" ").Write(s.Comparator.Text(s.Not))
	if s.Comparator == IsNull {
		return nil
	}
	b.Write(" ")

	switch v := s.Value.(type) {
	case fragment.Fragment:
		b.Splice(v)
		return nil
	case fragment.ScalarValueSource, fragment.Enum:
		b.Append(v)
		return nil
	}

	switch s.Comparator {
	case Like:
		b.Bind("%" + escapeLike(fmt.Sprint(s.Value)) + "%")
	case Between:
		el, ok := fragment.Elements(s.Value)
		if !ok || len(el) != 2 {
			return errs.IllegalArgument("between on column %q needs exactly 2 values, got %v", s.Column, s.Value)
		}
		b.Bind(el[0]).Write(" AND ").Bind(el[1])
	case In:
		el, ok := fragment.Elements(s.Value)
		if !ok {
			return errs.IllegalArgument("in on column %q needs a slice or array, got %T", s.Column, s.Value)
		}
		b.Write("(")
		for i, v := range el {
			if i > 0 {
				b.Write(", ")
			}
			b.Bind(fragment.Scalar(v))
		}
		if len(el) == 0 {
			b.Write("NULL")
		}
		b.Write(")")
	default:
		b.Bind(s.Value)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Text flushes a complete staged clause and returns the predicate text.
func (e *Expression) Text() string {
	return e.rendered().Text()
}

func (e *Expression) Params() []any {
	return e.rendered().Params()
}

func (e *Expression) String() string {
	return e.Text()
}

func (e *Expression) Err() error {
	return e.err
}

func (e *Expression) rendered() fragment.Fragment {
	r := e.Resolve()
	if r.Kind == fragment.NoPredicate {
		return fragment.Empty
	}
	return r.Fragment()
}

// Resolve reports whether the expression produced a predicate. An empty
// expression resolves to Tautology when AlwaysTrue was called and to
// NoPredicate otherwise.
func (e *Expression) Resolve() fragment.Resolution {
	if e.err == nil {
		if err := e.flush(true); err != nil {
			e.fail(err)
		}
	}
	r := fragment.Resolution{
		Kind:      fragment.Predicate,
		Predicate: e.out.Fragment(),
		Tautology: fragment.New(tautology),
	}
	if e.out.Len() == 0 {
		r.Kind = fragment.NoPredicate
		if e.alwaysTrue {
			r.Kind = fragment.Tautology
		}
	}
	return r
}

func (e *Expression) Build() (fragment.Fragment, error) {
	f := e.rendered()
	if e.err != nil {
		return nil, e.err
	}
	return f, nil
}
