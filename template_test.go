package sqlkit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/fragment"
	"github.com/golobby/sqlkit/qb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) EnumName() string { return string(c) }

func newFactory(t *testing.T, dialect *qb.Dialect, opts ...Option) (*Factory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	f, err := New(db, dialect, opts...)
	require.NoError(t, err)
	return f, mock
}

func TestTemplate(t *testing.T) {
	f, _ := newFactory(t, qb.Dialects.MySQL)

	t.Run("expands values, iterables and epilogues in order", func(t *testing.T) {
		got, err := f.Template("SELECT * FROM t WHERE x = :x AND y IN (:y)").
			Param("x", 1).
			Param("y", []int{2, 3}).
			Epilogue(fragment.New("LIMIT ?", 10)).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE x = ? AND y IN (?, ?) LIMIT ?", got.Text())
		assert.Equal(t, []any{1, 2, 3, 10}, got.Params())
	})

	t.Run("unbound placeholder", func(t *testing.T) {
		_, err := f.Template("SELECT * FROM t WHERE x = :x").Build()
		assert.ErrorIs(t, err, errs.ErrUnresolvedPlaceholder)
		assert.Contains(t, err.Error(), "Parameter with name 'x' is not set")
	})

	t.Run("escaped placeholder is literal", func(t *testing.T) {
		got, err := f.Template(`SELECT '\:x', :x`).Param("x", 1).Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT ':x', ?", got.Text())
	})

	t.Run("placeholder inside a word is literal", func(t *testing.T) {
		got, err := f.Template("SELECT a:b FROM t").Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT a:b FROM t", got.Text())
	})

	t.Run("same name twice binds twice", func(t *testing.T) {
		got, err := f.Template("SELECT :a, :a").Param("a", "v").Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT ?, ?", got.Text())
		assert.Equal(t, []any{"v", "v"}, got.Params())
	})

	t.Run("fragments are spliced", func(t *testing.T) {
		where := qb.NewExpression().Column("a").Eq().Value(1).And().Column("b").In().Values(color("red"), color("blue"))
		got, err := f.Template("SELECT * FROM t WHERE :where").Param("where", where).Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE (a = ?)\n  AND (b IN (?, ?))", got.Text())
		assert.Equal(t, []any{1, "red", "blue"}, got.Params())
	})

	t.Run("nil producers bind null", func(t *testing.T) {
		var limit *qb.Limit
		var where *qb.Expression
		got, err := f.Template("SELECT * FROM t WHERE :where LIMIT :limit").
			Param("where", where).
			Param("limit", limit).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE ? LIMIT ?", got.Text())
		assert.Equal(t, []any{nil, nil}, got.Params())
	})

	t.Run("empty producers contribute their tautology", func(t *testing.T) {
		got, err := f.Template("SELECT * FROM t WHERE :where ORDER BY :order").
			Param("where", qb.NewExpression()).
			Param("order", qb.NewOrderBy()).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM t WHERE 1=1 ORDER BY NULL", got.Text())
	})

	t.Run("builder errors surface", func(t *testing.T) {
		broken := qb.NewExpression().Column("a").Column("b")
		_, err := f.Template("SELECT * FROM t WHERE :where").Param("where", broken).Build()
		assert.ErrorIs(t, err, errs.ErrIllegalState)

		_, err = f.Template("INSERT INTO t (a) VALUES (:rows)").Param("rows", qb.NewInsertValues()).Build()
		assert.ErrorIs(t, err, errs.ErrIllegalState)
	})

	t.Run("enumerated values bind their names", func(t *testing.T) {
		got, err := f.Template("SELECT :c").Param("c", color("green")).Build()
		require.NoError(t, err)
		assert.Equal(t, []any{"green"}, got.Params())
	})

	t.Run("epilogues keep only fragments", func(t *testing.T) {
		var none fragment.Fragment
		got, err := f.Template("SELECT 1").
			Epilogues("ignored", fragment.New("UNION SELECT ?", 2), 42, none).
			Epilogue(nil).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1 UNION SELECT ?", got.Text())
		assert.Equal(t, []any{2}, got.Params())
	})

	t.Run("params map binds many", func(t *testing.T) {
		got, err := f.Template("SELECT :a, :b").Params(map[string]any{"a": 1, "b": 2}).Build()
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, got.Params())
	})

	t.Run("parsed templates are cached", func(t *testing.T) {
		assert.Equal(t, "SELECT ?", f.Template("SELECT :cached").Param("cached", 1).String())
		_, ok := f.cache.Get("SELECT :cached")
		assert.True(t, ok)
	})
}

func TestTemplateDialect(t *testing.T) {
	f, _ := newFactory(t, qb.Dialects.PostgreSQL)

	st, err := f.Template("SELECT * FROM t WHERE a = :a AND b IN (:b) AND c = '?'").
		Param("a", 1).
		Param("b", []string{"x", "y"}).
		statement()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3) AND c = '?'", st.query)
	assert.Equal(t, []any{1, "x", "y"}, st.args)
}

func TestExplain(t *testing.T) {
	f, _ := newFactory(t, qb.Dialects.MySQL)
	out, err := f.Template("SELECT :a").Param("a", 5).Explain()
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT ?")
	assert.Contains(t, out, "int")
	assert.Contains(t, out, "5")
}
