package sqlkit

import (
	"regexp"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
	"github.com/golobby/sqlkit/qb"
)

// placeholder matches :name, and \:name for a literal colon.
var placeholder = regexp.MustCompile(`\B\\?:(\w+)`)

// segment is literal SQL followed by an optional named placeholder.
type segment struct {
	text string
	name string
}

func parse(query string) []segment {
	var out []segment
	last := 0
	for _, m := range placeholder.FindAllStringSubmatchIndex(query, -1) {
		if query[m[0]] == '\\' {
			out = append(out, segment{text: query[last:m[0]] + query[m[0]+1:m[1]]})
		} else {
			out = append(out, segment{text: query[last:m[0]], name: query[m[2]:m[3]]})
		}
		last = m[1]
	}
	if last < len(query) {
		out = append(out, segment{text: query[last:]})
	}
	return out
}

// Template is an SQL text with :name placeholders. Bound values are expanded
// into '?' placeholders when the template is built or executed:
//   - a Fragment is spliced, a producer that may render nothing contributes
//     its tautology instead,
//   - a slice or array expands to its elements joined by ", ",
//   - any other value binds one parameter.
//
// Epilogues are appended after the expanded text, separated by a space.
type Template struct {
	factory   *Factory
	query     string
	params    map[string]any
	epilogues []fragment.Fragment
}

func (t *Template) Param(name string, v any) *Template {
	t.params[name] = v
	return t
}

func (t *Template) Params(params map[string]any) *Template {
	for k, v := range params {
		t.params[k] = v
	}
	return t
}

// Epilogue appends f. A nil fragment is ignored.
func (t *Template) Epilogue(f fragment.Fragment) *Template {
	if !fragment.IsNull(f) {
		t.epilogues = append(t.epilogues, f)
	}
	return t
}

// Epilogues appends the values that are fragments and ignores the others.
func (t *Template) Epilogues(values ...any) *Template {
	for _, v := range values {
		if f, ok := v.(fragment.Fragment); ok {
			t.Epilogue(f)
		}
	}
	return t
}

func (t *Template) segments() []segment {
	return t.factory.segments(t.query)
}

func (t *Template) Build() (fragment.Fragment, error) {
	var b fragment.Builder
	for _, s := range t.segments() {
		b.Write(s.text)
		if s.name == "" {
			continue
		}
		v, ok := t.params[s.name]
		if !ok {
			return nil, errs.New(errs.ErrUnresolvedPlaceholder, "Parameter with name '%s' is not set", s.name)
		}
		expand(&b, v)
	}
	for _, e := range t.epilogues {
		b.Write(" ")
		expand(&b, e)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b.Fragment(), nil
}

func (t *Template) String() string {
	f, err := t.Build()
	if err != nil {
		return t.query
	}
	return f.Text()
}

func expand(b *fragment.Builder, v any) {
	if fragment.IsNull(v) {
		b.Bind(nil)
		return
	}
	if r, ok := v.(fragment.Resolver); ok {
		res := r.Resolve()
		if f, ok := v.(fragment.Failer); ok {
			b.Fail(f.Err())
		}
		b.Splice(res.Fragment())
		return
	}
	if _, ok := v.(fragment.Fragment); !ok {
		if elements, ok := fragment.Elements(v); ok {
			for i, e := range elements {
				if i > 0 {
					b.Write(", ")
				}
				expand(b, e)
			}
			return
		}
	}
	b.Append(v)
}

// bound returns the bound values in placeholder order followed by the epilogues.
func (t *Template) bound() []any {
	var out []any
	for _, s := range t.segments() {
		if v, ok := t.params[s.name]; ok && s.name != "" {
			out = append(out, v)
		}
	}
	for _, e := range t.epilogues {
		out = append(out, e)
	}
	return out
}

// limit returns the first *qb.Limit bound to the template.
func (t *Template) limit() *qb.Limit {
	for _, v := range t.bound() {
		if l, ok := v.(*qb.Limit); ok && l != nil {
			return l
		}
	}
	return nil
}

// calcFoundRows reports whether a bound *qb.Select asks for SQL_CALC_FOUND_ROWS.
func (t *Template) calcFoundRows() bool {
	for _, v := range t.bound() {
		if s, ok := v.(*qb.Select); ok && s != nil && s.Contains(qb.SQLCalcFoundRows) {
			return true
		}
	}
	return false
}
