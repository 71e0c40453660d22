package result

import "database/sql"

// OptionalList holds rows mapped to possibly absent values.
type OptionalList[T any] struct {
	List[sql.Null[T]]
}

func NewOptionalList[T any](capacity int, meta Meta) *OptionalList[T] {
	return &OptionalList[T]{List: *NewList[sql.Null[T]](capacity, meta)}
}

// Single is SingleOr with an absent value as the default.
func (l *OptionalList[T]) Single() (sql.Null[T], error) {
	return l.SingleOr(sql.Null[T]{})
}

// First is FirstOr with an absent value as the default.
func (l *OptionalList[T]) First() sql.Null[T] {
	return l.FirstOr(sql.Null[T]{})
}

// Present drops absent values.
func (l *OptionalList[T]) Present() *List[T] {
	out := NewList[T](l.Len(), l.Meta())
	for _, v := range l.Items {
		if v.Valid {
			out.Add(v.V)
		}
	}
	return out
}
