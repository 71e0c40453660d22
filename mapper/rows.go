package mapper

import (
	"github.com/golobby/sqlkit/errs"
)

type sliceRows struct {
	columns []string
	rows    [][]any
	next    int
	closed  bool
}

// SliceRows serves rows held in memory, such as generated keys computed from
// sql.Result.
func SliceRows(columns []string, rows [][]any) Rows {
	return &sliceRows{columns: columns, rows: rows}
}

func (r *sliceRows) Next() bool {
	if r.closed || r.next >= len(r.rows) {
		return false
	}
	r.next++
	return true
}

func (r *sliceRows) Scan(dest ...any) error {
	if r.next == 0 || r.closed {
		return errs.IllegalState("scan called without a row")
	}
	row := r.rows[r.next-1]
	if len(dest) != len(row) {
		return errs.IllegalArgument("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*any)
		if !ok {
			return errs.IllegalArgument("destination %d is %T, want *any", i, d)
		}
		*p = row[i]
	}
	return nil
}

func (r *sliceRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *sliceRows) Close() error {
	r.closed = true
	return nil
}

func (r *sliceRows) Err() error {
	return nil
}
