// Package result holds the collections returned by query execution: plain
// slices decorated with the paging metadata of the query that produced them.
package result

import (
	"github.com/golobby/sqlkit/errs"
)

// Meta is the paging metadata of a result. FoundRows is set only when the
// query asked the database for its total row count.
type Meta struct {
	Offset    *int64
	Limit     *int32
	FoundRows *int32
}

// Collection is the read side of a result.
type Collection[T any] interface {
	Len() int
	All() []T
	Meta() Meta
}

// List is an ordered result.
type List[T any] struct {
	Items []T
	meta  Meta
}

func NewList[T any](capacity int, meta Meta) *List[T] {
	return &List[T]{Items: make([]T, 0, capacity), meta: meta}
}

// Wrap decorates items without copying them.
func Wrap[T any](items []T, meta Meta) *List[T] {
	return &List[T]{Items: items, meta: meta}
}

// From copies a collection, keeping its metadata.
func From[T any](c Collection[T]) *List[T] {
	items := make([]T, c.Len())
	copy(items, c.All())
	return Wrap(items, c.Meta())
}

func Empty[T any]() *List[T] {
	return &List[T]{}
}

func Singleton[T any](v T) *List[T] {
	return &List[T]{Items: []T{v}}
}

func (l *List[T]) Add(v ...T) {
	l.Items = append(l.Items, v...)
}

func (l *List[T]) Len() int {
	return len(l.Items)
}

func (l *List[T]) All() []T {
	return l.Items
}

func (l *List[T]) Meta() Meta {
	return l.meta
}

func (l *List[T]) Offset() *int64 {
	return l.meta.Offset
}

func (l *List[T]) Limit() *int32 {
	return l.meta.Limit
}

func (l *List[T]) FoundRows() *int32 {
	return l.meta.FoundRows
}

// SingleOr returns the only item, def when there is none, and an
// errs.ErrConflict when there are several.
func (l *List[T]) SingleOr(def T) (T, error) {
	switch len(l.Items) {
	case 0:
		return def, nil
	case 1:
		return l.Items[0], nil
	}
	return def, conflict(len(l.Items))
}

func (l *List[T]) FirstOr(def T) T {
	if len(l.Items) == 0 {
		return def
	}
	return l.Items[0]
}

// SingleOrErr returns the only item. When there is none it returns notFound,
// or errs.ErrNotFound if notFound is nil.
func (l *List[T]) SingleOrErr(notFound error) (T, error) {
	var zero T
	switch len(l.Items) {
	case 0:
		return zero, orNotFound(notFound)
	case 1:
		return l.Items[0], nil
	}
	return zero, conflict(len(l.Items))
}

func (l *List[T]) FirstOrErr(notFound error) (T, error) {
	if len(l.Items) == 0 {
		var zero T
		return zero, orNotFound(notFound)
	}
	return l.Items[0], nil
}

func conflict(n int) error {
	return errs.New(errs.ErrConflict, "expected at most one result, got %d", n)
}

func orNotFound(err error) error {
	if err == nil {
		return errs.New(errs.ErrNotFound, "expected one result, got none")
	}
	return err
}
