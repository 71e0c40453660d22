package mapper

import (
	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/result"
	"github.com/google/uuid"
)

// Statement describes the query an aggregator is about to consume.
type Statement struct {
	Query string
	Args  []any
	Meta  result.Meta
}

// RowAggregator folds a result set into one value. PreQuery runs before the
// statement is sent, PostQuery once the cursor is open and ProcessRow for each
// row. A hook returning done stops the query and its value becomes the result;
// otherwise Result is called after the last row.
type RowAggregator[R any] interface {
	PreQuery(s Statement) (v R, done bool, err error)
	PostQuery(c *Cursor) (v R, done bool, err error)
	ProcessRow(c *Cursor) (v R, done bool, err error)
	Result() (R, error)
}

// Hooks gives an aggregator no-op PreQuery and PostQuery.
type Hooks[R any] struct{}

func (Hooks[R]) PreQuery(Statement) (v R, done bool, err error) { return }
func (Hooks[R]) PostQuery(*Cursor) (v R, done bool, err error)  { return }

// Accumulator consumes mapped rows.
type Accumulator[T, R any] interface {
	Add(row T) (v R, done bool, err error)
	Result() (R, error)
}

type mappable[T, R any] struct {
	Hooks[R]
	mapper RowMapper[T]
	acc    Accumulator[T, R]
}

// Mappable maps each row with m before handing it to acc.
func Mappable[T, R any](m RowMapper[T], acc Accumulator[T, R]) RowAggregator[R] {
	return &mappable[T, R]{mapper: m, acc: acc}
}

func (a *mappable[T, R]) ProcessRow(c *Cursor) (R, bool, error) {
	row, err := a.mapper(c)
	if err != nil {
		var zero R
		return zero, false, err
	}
	return a.acc.Add(row)
}

func (a *mappable[T, R]) Result() (R, error) {
	return a.acc.Result()
}

// Collect is an Accumulator gathering rows into a list.
type Collect[T any] struct {
	list result.List[T]
}

func (c *Collect[T]) Add(row T) (*result.List[T], bool, error) {
	c.list.Add(row)
	return nil, false, nil
}

func (c *Collect[T]) Result() (*result.List[T], error) {
	return &c.list, nil
}

// MapAggregator builds an insertion-ordered map out of two column mappers.
// A later row overwrites the value of an earlier one with the same key.
type MapAggregator[K comparable, V any] struct {
	Hooks[*Ordered[K, V]]
	key   RowMapper[K]
	value RowMapper[V]
	out   *Ordered[K, V]
}

func NewMapAggregator[K comparable, V any](key RowMapper[K], value RowMapper[V]) *MapAggregator[K, V] {
	return &MapAggregator[K, V]{key: key, value: value, out: NewOrdered[K, V]()}
}

func (a *MapAggregator[K, V]) ProcessRow(c *Cursor) (*Ordered[K, V], bool, error) {
	k, err := a.key(c)
	if err != nil {
		return nil, false, err
	}
	v, err := a.value(c)
	if err != nil {
		return nil, false, err
	}
	a.out.Set(k, v)
	return nil, false, nil
}

func (a *MapAggregator[K, V]) Result() (*Ordered[K, V], error) {
	return a.out, nil
}

// Merge folds the current row into the value stored under its key. found
// reports whether the key was seen before.
type Merge[V any] func(c *Cursor, current V, found bool) (V, error)

// KeyAggregator groups rows by key columns and merges each group into one
// value. Without key columns every row is its own group.
type KeyAggregator[V any] struct {
	Hooks[*result.List[V]]
	keys      []Column
	positions []int
	merge     Merge[V]
	groups    *Ordered[any, V]
	meta      *result.Meta
}

func NewKeyAggregator[V any](merge Merge[V], keys ...Column) *KeyAggregator[V] {
	return &KeyAggregator[V]{keys: keys, merge: merge, groups: NewOrdered[any, V]()}
}

// WithMeta makes the result carry the paging metadata of keys, typically the
// page of parent keys the grouped query was restricted to.
func (a *KeyAggregator[V]) WithMeta(keys interface{ Meta() result.Meta }) *KeyAggregator[V] {
	m := keys.Meta()
	a.meta = &m
	return a
}

func (a *KeyAggregator[V]) PostQuery(c *Cursor) (*result.List[V], bool, error) {
	a.positions = make([]int, len(a.keys))
	for i, k := range a.keys {
		p, err := k.position(c)
		if err != nil {
			return nil, false, err
		}
		a.positions[i] = p
	}
	return nil, false, nil
}

func (a *KeyAggregator[V]) ProcessRow(c *Cursor) (*result.List[V], bool, error) {
	if a.positions == nil && len(a.keys) > 0 {
		return nil, false, errs.IllegalState("key columns are not resolved")
	}
	key, err := a.key(c)
	if err != nil {
		return nil, false, err
	}
	current, found := a.groups.Get(key)
	next, err := a.merge(c, current, found)
	if err != nil {
		return nil, false, err
	}
	a.groups.Set(key, next)
	return nil, false, nil
}

func (a *KeyAggregator[V]) key(c *Cursor) (any, error) {
	if len(a.positions) == 0 {
		return uuid.New(), nil
	}
	values := make([]any, len(a.positions))
	for i, p := range a.positions {
		v, err := c.Raw(Index(p))
		if err != nil {
			return nil, err
		}
		values[i] = comparableKey(v)
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return NewTuple(values...), nil
}

func (a *KeyAggregator[V]) Result() (*result.List[V], error) {
	var meta result.Meta
	if a.meta != nil {
		meta = *a.meta
	}
	return result.Wrap(a.groups.Values(), meta), nil
}
