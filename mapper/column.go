package mapper

import (
	"database/sql"
	"io"
	"math/big"
	"net/netip"
	"strings"
	"time"

	"github.com/golobby/sqlkit/errs"
)

// RowMapper maps the current row to a value.
type RowMapper[T any] func(c *Cursor) (T, error)

// OptionalMapper maps the current row to a possibly absent value.
type OptionalMapper[T any] func(c *Cursor) (sql.Null[T], error)

// ColumnMapper reads one column. The bool result reports SQL NULL.
type ColumnMapper[T any] func(c *Cursor, col Column) (T, bool, error)

func (m ColumnMapper[T]) ForColumn(col Column) OptionalMapper[T] {
	return func(c *Cursor) (sql.Null[T], error) {
		v, null, err := m(c, col)
		if err != nil || null {
			return sql.Null[T]{}, err
		}
		return sql.Null[T]{V: v, Valid: true}, nil
	}
}

// ForNotNullColumn maps col and rejects SQL NULL with errs.ErrDataIntegrity.
func (m ColumnMapper[T]) ForNotNullColumn(col Column) RowMapper[T] {
	return func(c *Cursor) (T, error) {
		v, null, err := m(c, col)
		if err != nil {
			return v, err
		}
		if null {
			var zero T
			return zero, errs.DataIntegrity("NULL value returned for column %s", col)
		}
		return v, nil
	}
}

// Map derives a column mapper converting non-NULL values with fn.
func Map[T, U any](m ColumnMapper[T], fn func(T) (U, error)) ColumnMapper[U] {
	return func(c *Cursor, col Column) (U, bool, error) {
		var zero U
		v, null, err := m(c, col)
		if err != nil || null {
			return zero, null, err
		}
		u, err := fn(v)
		if err != nil {
			return zero, false, errs.Wrap(errs.ErrDataIntegrity, err, "column %s", col)
		}
		return u, false, nil
	}
}

func ofKind[T any](kind Kind) ColumnMapper[T] {
	return func(c *Cursor, col Column) (T, bool, error) {
		var zero T
		v, err := c.Value(col, kind)
		if err != nil || v == nil {
			return zero, v == nil && err == nil, err
		}
		return v.(T), false, nil
	}
}

var (
	Bool      = ofKind[bool](KindBool)
	Int32     = ofKind[int32](KindInt32)
	Int64     = ofKind[int64](KindInt64)
	Float32   = ofKind[float32](KindFloat32)
	Float64   = ofKind[float64](KindFloat64)
	Decimal   = ofKind[*big.Rat](KindDecimal)
	String    = ofKind[string](KindString)
	Bytes     = ofKind[[]byte](KindBytes)
	Date      = ofKind[time.Time](KindDate)
	Time      = ofKind[time.Time](KindTime)
	Timestamp = ofKind[time.Time](KindTimestamp)
	Strings   = ofKind[[]string](KindArray)
	LOB       = ofKind[io.Reader](KindLOB)
)

// StringLower reads a string column in lower case.
var StringLower = Map(String, func(s string) (string, error) {
	return strings.ToLower(s), nil
})

// TimestampMillis reads a timestamp as milliseconds since the Unix epoch.
var TimestampMillis = Map(Timestamp, func(t time.Time) (int64, error) {
	return t.UnixMilli(), nil
})

// Number reads int64, float64 or *big.Rat, whichever the driver value fits.
var Number ColumnMapper[any] = func(c *Cursor, col Column) (any, bool, error) {
	v, err := c.Number(col)
	return v, v == nil && err == nil, err
}

// TimeZone reads an IANA zone name.
var TimeZone = Map(String, time.LoadLocation)

// InetAddress reads a textual IPv4 or IPv6 address.
var InetAddress = Map(String, func(s string) (netip.Addr, error) {
	return netip.ParseAddr(strings.TrimSpace(s))
})

// NumberKey reads a generated key of whatever numeric type the driver returns.
var NumberKey RowMapper[any] = func(c *Cursor) (any, error) {
	v, err := c.Number(Index(1))
	if err == nil && v == nil {
		return nil, errs.DataIntegrity("NULL key returned")
	}
	return v, err
}

var Int64Key RowMapper[int64] = func(c *Cursor) (int64, error) {
	v, null, err := Int64(c, Index(1))
	if err == nil && null {
		return 0, errs.DataIntegrity("NULL key returned")
	}
	return v, err
}
