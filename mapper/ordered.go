package mapper

import (
	"fmt"
	"strings"
)

// Ordered is a map remembering the order keys were first set in.
type Ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrdered[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{values: map[K]V{}}
}

func (o *Ordered[K, V]) Set(k K, v V) {
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

func (o *Ordered[K, V]) Get(k K) (V, bool) {
	v, ok := o.values[k]
	return v, ok
}

func (o *Ordered[K, V]) Len() int {
	return len(o.keys)
}

func (o *Ordered[K, V]) Keys() []K {
	return o.keys
}

func (o *Ordered[K, V]) Values() []V {
	out := make([]V, len(o.keys))
	for i, k := range o.keys {
		out[i] = o.values[k]
	}
	return out
}

// Tuple is a composite key. Tuples of equal values compare equal.
type Tuple struct {
	key string
}

func NewTuple(values ...any) Tuple {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%T:%q", v, fmt.Sprint(v))
	}
	return Tuple{key: strings.Join(parts, ",")}
}

func (t Tuple) String() string {
	return "(" + t.key + ")"
}

func comparableKey(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
