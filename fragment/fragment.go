// Package fragment defines the unit every sqlkit producer emits: a piece of SQL
// text together with the positional parameters bound to its '?' placeholders.
package fragment

import "strings"

// Fragment is an SQL text with its ordered bind parameters.
// The number of '?' in Text equals len(Params).
type Fragment interface {
	Text() string
	Params() []any
}

type static struct {
	text   string
	params []any
}

func (s static) Text() string {
	return s.text
}

func (s static) Params() []any {
	out := make([]any, len(s.params))
	copy(out, s.params)
	return out
}

func (s static) String() string {
	return s.text
}

// New returns an immutable fragment.
func New(text string, params ...any) Fragment {
	p := make([]any, len(params))
	copy(p, params)
	return static{text: text, params: p}
}

// Empty has no text and no parameters.
var Empty = New("")

// IsBlank reports whether f is nil or renders only whitespace.
func IsBlank(f Fragment) bool {
	return f == nil || strings.TrimSpace(f.Text()) == ""
}

// Builder accumulates text and parameters. Every producer in sqlkit writes
// through a Builder so that nested values are dispatched the same way.
type Builder struct {
	sb     strings.Builder
	params []any
	err    error
}

func (b *Builder) Write(text string) *Builder {
	b.sb.WriteString(text)
	return b
}

// Bind writes one placeholder bound to v as is.
func (b *Builder) Bind(v any) *Builder {
	b.sb.WriteByte('?')
	b.params = append(b.params, v)
	return b
}

// Splice copies the text and parameters of f.
func (b *Builder) Splice(f Fragment) *Builder {
	if fl, ok := f.(Failer); ok {
		b.Fail(fl.Err())
	}
	b.sb.WriteString(f.Text())
	b.params = append(b.params, f.Params()...)
	return b
}

// Append dispatches v:
//   - a Fragment is spliced,
//   - a ScalarValueSource binds its SQL value,
//   - an Enum binds its name,
//   - anything else binds as is.
func (b *Builder) Append(v any) *Builder {
	if f, ok := v.(Fragment); ok {
		return b.Splice(f)
	}
	return b.Bind(Scalar(v))
}

// Fail records err unless an earlier error is already recorded.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) Len() int {
	return b.sb.Len()
}

func (b *Builder) String() string {
	return b.sb.String()
}

func (b *Builder) Fragment() Fragment {
	return static{text: b.sb.String(), params: append([]any(nil), b.params...)}
}

func (b *Builder) Reset() {
	b.sb.Reset()
	b.params = nil
	b.err = nil
}
