// Package mapper turns database rows into values: a Cursor with typed,
// null-aware getters over database/sql rows, column and row mappers built on
// it, and the RowAggregator protocol driven by sqlkit.Aggregate.
package mapper

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golobby/sqlkit/errs"
)

// Rows is the part of *sql.Rows a Cursor needs.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Close() error
	Err() error
}

// AttachmentKey types a value attached to a cursor.
type AttachmentKey[T any] struct {
	name string
}

func NewAttachmentKey[T any](name string) *AttachmentKey[T] {
	return &AttachmentKey[T]{name: name}
}

// FoundRowsKey holds the total row count of a SQL_CALC_FOUND_ROWS query.
var FoundRowsKey = NewAttachmentKey[*int32]("found rows")

// Cursor reads the current row of Rows. Column positions are 1-based, like
// SQL ordinals.
type Cursor struct {
	rows        Rows
	labels      []string
	values      []any
	hasRow      bool
	wasNull     bool
	err         error
	attachments map[any]any
}

func NewCursor(rows Rows) (*Cursor, error) {
	labels, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return &Cursor{rows: rows, labels: labels, attachments: map[any]any{}}, nil
}

// Next advances to the next row and reads it.
func (c *Cursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		c.hasRow = false
		return false
	}
	values := make([]any, len(c.labels))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = err
		c.hasRow = false
		return false
	}
	c.values = values
	c.hasRow = true
	return true
}

func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *Cursor) Close() error {
	return c.rows.Close()
}

func (c *Cursor) ColumnCount() int {
	return len(c.labels)
}

func (c *Cursor) ColumnLabel(position int) (string, error) {
	if position < 1 || position > len(c.labels) {
		return "", errs.IllegalArgument("column %d out of range 1..%d", position, len(c.labels))
	}
	return c.labels[position-1], nil
}

// FindColumn returns the position of the first column labeled label,
// ignoring case.
func (c *Cursor) FindColumn(label string) (int, error) {
	for i, l := range c.labels {
		if strings.EqualFold(l, label) {
			return i + 1, nil
		}
	}
	return 0, errs.IllegalArgument("no column labeled %q", label)
}

// WasNull reports whether the last value read was SQL NULL.
func (c *Cursor) WasNull() bool {
	return c.wasNull
}

// Raw returns the value of col as the driver produced it.
func (c *Cursor) Raw(col Column) (any, error) {
	if !c.hasRow {
		return nil, errs.IllegalState("cursor is not on a row")
	}
	pos, err := col.position(c)
	if err != nil {
		return nil, err
	}
	v := c.values[pos-1]
	c.wasNull = v == nil
	return v, nil
}

// Value returns col converted to kind, or nil for SQL NULL.
func (c *Cursor) Value(col Column, kind Kind) (any, error) {
	if !kind.valid() {
		return nil, errs.IllegalArgument("unknown column kind %d", int(kind))
	}
	raw, err := c.Raw(col)
	if err != nil || raw == nil {
		return nil, err
	}
	v, err := kind.convert(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDataIntegrity, err, "column %s as %s", col, kind)
	}
	return v, nil
}

func (c *Cursor) String(col Column) (string, error) {
	return get[string](c, col, KindString)
}

func (c *Cursor) Int64(col Column) (int64, error) {
	return get[int64](c, col, KindInt64)
}

func (c *Cursor) Int32(col Column) (int32, error) {
	return get[int32](c, col, KindInt32)
}

func (c *Cursor) Float64(col Column) (float64, error) {
	return get[float64](c, col, KindFloat64)
}

func (c *Cursor) Bool(col Column) (bool, error) {
	return get[bool](c, col, KindBool)
}

func (c *Cursor) Bytes(col Column) ([]byte, error) {
	return get[[]byte](c, col, KindBytes)
}

func (c *Cursor) Decimal(col Column) (*big.Rat, error) {
	return get[*big.Rat](c, col, KindDecimal)
}

func (c *Cursor) Time(col Column) (time.Time, error) {
	return get[time.Time](c, col, KindTimestamp)
}

// Number returns col as int64, float64 or *big.Rat depending on what the
// driver produced, or nil for SQL NULL.
func (c *Cursor) Number(col Column) (any, error) {
	raw, err := c.Raw(col)
	if err != nil || raw == nil {
		return nil, err
	}
	v, err := toNumber(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDataIntegrity, err, "column %s as number", col)
	}
	return v, nil
}

func get[T any](c *Cursor, col Column, kind Kind) (T, error) {
	var zero T
	v, err := c.Value(col, kind)
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

func (c *Cursor) Attach(key any, v any) {
	c.attachments[key] = v
}

// Attachment returns the value attached under key.
func Attachment[T any](c *Cursor, key *AttachmentKey[T]) (T, bool) {
	v, ok := c.attachments[key]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Column addresses a column of the current row.
type Column interface {
	position(c *Cursor) (int, error)
	String() string
}

// Index is a 1-based column position.
type Index int

func (i Index) position(c *Cursor) (int, error) {
	if i < 1 {
		return 0, errs.IllegalArgument("column index %d, indexes start at 1", int(i))
	}
	if int(i) > len(c.labels) {
		return 0, errs.IllegalArgument("column %d out of range 1..%d", int(i), len(c.labels))
	}
	return int(i), nil
}

func (i Index) String() string {
	return "#" + strconv.Itoa(int(i))
}

// Label is a column label.
type Label string

func (l Label) position(c *Cursor) (int, error) {
	return c.FindColumn(string(l))
}

func (l Label) String() string {
	return string(l)
}
