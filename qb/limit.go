package qb

import (
	"math"
	"strconv"
)

// Limit renders the argument of a MySQL style LIMIT clause. Its values are
// inlined since not every driver binds LIMIT.
type Limit struct {
	Offset *int64
	Limit  *int32
}

func NewLimit(limit int32) *Limit {
	return &Limit{Limit: &limit}
}

func NewOffsetLimit(offset int64, limit int32) *Limit {
	return &Limit{Offset: &offset, Limit: &limit}
}

func (l *Limit) Text() string {
	limit := int64(math.MaxInt32)
	if l.Limit != nil {
		limit = int64(*l.Limit)
	}
	if l.Offset == nil {
		return strconv.FormatInt(limit, 10)
	}
	return strconv.FormatInt(*l.Offset, 10) + ", " + strconv.FormatInt(limit, 10)
}

func (l *Limit) Params() []any {
	return nil
}

func (l *Limit) String() string {
	return l.Text()
}
