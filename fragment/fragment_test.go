package fragment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type status int

func (s status) EnumName() string {
	return [...]string{"ACTIVE", "BLOCKED"}[s]
}

type money struct {
	cents int64
}

func (m money) SQLValue() any {
	return m.cents
}

type broken struct {
	Fragment
}

func (broken) Err() error {
	return errors.New("boom")
}

func TestBuilderAppend(t *testing.T) {
	t.Run("fragment is spliced", func(t *testing.T) {
		var b Builder
		b.Write("a = ").Append(New("lower(?)", "X"))
		f := b.Fragment()
		assert.Equal(t, "a = lower(?)", f.Text())
		assert.Equal(t, []any{"X"}, f.Params())
	})

	t.Run("scalar value source binds its value", func(t *testing.T) {
		var b Builder
		b.Append(money{cents: 150})
		assert.Equal(t, "?", b.String())
		assert.Equal(t, []any{int64(150)}, b.Fragment().Params())
	})

	t.Run("enum binds its name", func(t *testing.T) {
		var b Builder
		b.Append(status(1))
		assert.Equal(t, []any{"BLOCKED"}, b.Fragment().Params())
	})

	t.Run("anything else binds as is", func(t *testing.T) {
		var b Builder
		b.Append(42).Write(", ").Append(nil)
		f := b.Fragment()
		assert.Equal(t, "?, ?", f.Text())
		assert.Equal(t, []any{42, nil}, f.Params())
	})

	t.Run("first failure of a spliced fragment is kept", func(t *testing.T) {
		var b Builder
		b.Append(broken{Fragment: New("x")})
		assert.EqualError(t, b.Err(), "boom")
	})
}

func TestFragmentIsImmutable(t *testing.T) {
	params := []any{1, 2}
	f := New("? + ?", params...)
	params[0] = 100
	got := f.Params()
	got[1] = 200
	assert.Equal(t, []any{1, 2}, f.Params())
}

func TestElements(t *testing.T) {
	t.Run("slices and arrays", func(t *testing.T) {
		el, ok := Elements([]int{1, 2})
		assert.True(t, ok)
		assert.Equal(t, []any{1, 2}, el)

		el, ok = Elements([2]string{"a", "b"})
		assert.True(t, ok)
		assert.Equal(t, []any{"a", "b"}, el)
	})

	t.Run("bytes and scalars are not iterable", func(t *testing.T) {
		for _, v := range []any{nil, []byte("ab"), [16]byte{}, "abc", 5} {
			_, ok := Elements(v)
			assert.False(t, ok, "%#v", v)
		}
	})
}

func TestResolution(t *testing.T) {
	r := Resolution{Kind: NoPredicate, Predicate: Empty, Tautology: New("1=1")}
	assert.Equal(t, "1=1", r.Fragment().Text())
	r.Kind = Predicate
	assert.Equal(t, "", r.Fragment().Text())
	assert.Equal(t, "tautology", Tautology.String())
}
