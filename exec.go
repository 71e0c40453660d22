package sqlkit

import (
	"context"
	"database/sql"
	"time"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/mapper"
	"github.com/golobby/sqlkit/qb"
	"github.com/golobby/sqlkit/result"
)

const foundRowsQuery = "SELECT FOUND_ROWS()"

// statement is a built template rebound for the dialect.
type statement struct {
	query string
	args  []any
}

func (t *Template) statement() (statement, error) {
	f, err := t.Build()
	if err != nil {
		return statement{}, err
	}
	return statement{query: t.factory.dialect.Rebind(f.Text()), args: f.Params()}, nil
}

func (f *Factory) withSession(ctx context.Context, fn func(s Session) error) (err error) {
	s, err := f.pool.Session(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

func (f *Factory) exec(ctx context.Context, s Session, st statement) (res sql.Result, err error) {
	defer func(start time.Time) { f.record(start, "Exec", st, err) }(time.Now())
	res, err = s.ExecContext(ctx, st.query, st.args...)
	return res, err
}

func (f *Factory) query(ctx context.Context, s Session, st statement) (rows *sql.Rows, err error) {
	defer func(start time.Time) { f.record(start, "Query", st, err) }(time.Now())
	rows, err = s.QueryContext(ctx, st.query, st.args...)
	return rows, err
}

// Exec runs the template and returns the update count.
func (t *Template) Exec(ctx context.Context) (int64, error) {
	st, err := t.statement()
	if err != nil {
		return 0, err
	}
	var n int64
	err = t.factory.withSession(ctx, func(s Session) error {
		res, err := t.factory.exec(ctx, s, st)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// ExecOrFail runs the template and returns noUpdate, or errs.ErrNoUpdate
// when noUpdate is nil, if no row was affected.
func (t *Template) ExecOrFail(ctx context.Context, noUpdate error) error {
	n, err := t.Exec(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		if noUpdate == nil {
			return errs.New(errs.ErrNoUpdate, "statement affected no rows")
		}
		return noUpdate
	}
	return nil
}

// InsertAndGetKey runs an insert and returns its single generated key.
func (t *Template) InsertAndGetKey(ctx context.Context) (int64, error) {
	keys, err := InsertKeys(ctx, t, mapper.Int64Key)
	if err != nil {
		return 0, err
	}
	return keys.SingleOrErr(nil)
}

// InsertKeys runs an insert and maps the generated keys. Dialects reporting
// keys through LastInsertId yield one consecutive key per affected row.
func InsertKeys[K any](ctx context.Context, t *Template, m mapper.RowMapper[K]) (*result.List[K], error) {
	st, err := t.statement()
	if err != nil {
		return nil, err
	}
	f := t.factory
	var keys *result.List[K]
	err = f.withSession(ctx, func(s Session) error {
		var rows mapper.Rows
		var n int64
		if f.dialect.Keys == qb.KeysFromReturning {
			r, err := f.query(ctx, s, st)
			if err != nil {
				return err
			}
			if rows, n, err = buffer(r); err != nil {
				return err
			}
		} else {
			res, err := f.exec(ctx, s, st)
			if err != nil {
				return err
			}
			if n, err = res.RowsAffected(); err != nil {
				return err
			}
			if n > 0 {
				id, err := res.LastInsertId()
				if err != nil {
					return err
				}
				rows = generatedKeys(f.dialect.Keys, id, n)
			}
		}
		keys = result.NewList[K](int(n), result.Meta{})
		if n == 0 {
			return nil
		}
		c, err := mapper.NewCursor(rows)
		if err != nil {
			return err
		}
		defer c.Close()
		for c.Next() {
			k, err := m(c)
			if err != nil {
				return err
			}
			keys.Add(k)
		}
		return c.Err()
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func generatedKeys(source qb.KeySource, id, n int64) mapper.Rows {
	first := id
	if source == qb.KeysFromLastInsertID {
		first = id - n + 1
	}
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{first + int64(i)}
	}
	return mapper.SliceRows([]string{"GENERATED_KEY"}, rows)
}

// buffer reads rows into memory and closes them.
func buffer(rows *sql.Rows) (mapper.Rows, int64, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, 0, err
	}
	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return mapper.SliceRows(columns, out), int64(len(out)), nil
}

// Query maps every row with m. The list carries the offset and limit of the
// first bound *qb.Limit, and the found rows when a bound *qb.Select asked
// for SQL_CALC_FOUND_ROWS.
func Query[T any](ctx context.Context, t *Template, m mapper.RowMapper[T]) (*result.List[T], error) {
	var list *result.List[T]
	err := t.run(ctx, nil, func(c *mapper.Cursor, meta result.Meta) error {
		list = result.NewList[T](0, meta)
		for c.Next() {
			v, err := m(c)
			if err != nil {
				return err
			}
			list.Add(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// QueryOptional is Query for mappers of possibly absent values.
func QueryOptional[T any](ctx context.Context, t *Template, m mapper.OptionalMapper[T]) (*result.OptionalList[T], error) {
	var list *result.OptionalList[T]
	err := t.run(ctx, nil, func(c *mapper.Cursor, meta result.Meta) error {
		list = result.NewOptionalList[T](0, meta)
		for c.Next() {
			v, err := m(c)
			if err != nil {
				return err
			}
			list.Add(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Aggregate feeds the result set to a.
func Aggregate[R any](ctx context.Context, t *Template, a mapper.RowAggregator[R]) (R, error) {
	var out R
	var done bool
	pre := func(s mapper.Statement) (bool, error) {
		v, stop, err := a.PreQuery(s)
		if stop {
			out, done = v, true
		}
		return stop, err
	}
	err := t.run(ctx, pre, func(c *mapper.Cursor, _ result.Meta) error {
		v, stop, err := a.PostQuery(c)
		if err != nil || stop {
			out, done = v, stop
			return err
		}
		for c.Next() {
			v, stop, err := a.ProcessRow(c)
			if err != nil {
				return err
			}
			if stop {
				out, done = v, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	if done {
		return out, nil
	}
	return a.Result()
}

// run builds and sends the query, then hands the open cursor to fn.
func (t *Template) run(ctx context.Context, pre func(mapper.Statement) (bool, error), fn func(c *mapper.Cursor, meta result.Meta) error) error {
	st, err := t.statement()
	if err != nil {
		return err
	}
	var meta result.Meta
	if l := t.limit(); l != nil {
		meta.Offset, meta.Limit = l.Offset, l.Limit
	}
	if pre != nil {
		stop, err := pre(mapper.Statement{Query: st.query, Args: st.args, Meta: meta})
		if err != nil || stop {
			return err
		}
	}
	f := t.factory
	err = f.withSession(ctx, func(s Session) error {
		r, err := f.query(ctx, s, st)
		if err != nil {
			return err
		}
		var rows mapper.Rows = r
		var foundRows *int32
		if t.calcFoundRows() {
			if rows, _, err = buffer(r); err != nil {
				return err
			}
			if foundRows, err = f.foundRows(ctx, s); err != nil {
				return err
			}
			meta.FoundRows = foundRows
		}
		c, err := mapper.NewCursor(rows)
		if err != nil {
			r.Close()
			return err
		}
		defer c.Close()
		if foundRows != nil {
			c.Attach(mapper.FoundRowsKey, foundRows)
		}
		if err := fn(c, meta); err != nil {
			return err
		}
		return c.Err()
	})
	return err
}

func (f *Factory) foundRows(ctx context.Context, s Session) (*int32, error) {
	rows, err := f.query(ctx, s, statement{query: foundRowsQuery})
	if err != nil {
		return nil, err
	}
	c, err := mapper.NewCursor(rows)
	if err != nil {
		rows.Close()
		return nil, err
	}
	defer c.Close()
	if !c.Next() {
		if err := c.Err(); err != nil {
			return nil, err
		}
		return nil, errs.DataIntegrity("%s returned no row", foundRowsQuery)
	}
	n, err := c.Int32(mapper.Index(1))
	if err != nil {
		return nil, err
	}
	return &n, nil
}
