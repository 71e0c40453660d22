package sqlkit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/golobby/sqlkit/errs"
	"github.com/golobby/sqlkit/mapper"
	"github.com/golobby/sqlkit/qb"
	"github.com/golobby/sqlkit/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *Factory {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	f, err := New(db, qb.Dialects.SQLite3)
	require.NoError(t, err)
	_, err = f.Execute(context.Background(), `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		team INTEGER
	)`)
	require.NoError(t, err)
	return f
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	f := setupSQLite(t)

	keys, err := InsertKeys(ctx, f.Template("INSERT INTO users (name, team) VALUES (:rows)").
		Param("rows", qb.NewInsertValues().Values("amy", 1).Values("bob", 1).Values("cy", 2)), mapper.Int64Key)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, keys.Items)

	t.Run("insert and get key", func(t *testing.T) {
		id, err := f.Template("INSERT INTO users (name, team) VALUES (:name, :team)").
			Param("name", "dee").Param("team", nil).
			InsertAndGetKey(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)
	})

	t.Run("query with a predicate and an order", func(t *testing.T) {
		names, err := Query(ctx, f.Template("SELECT name FROM users WHERE :where ORDER BY :order").
			Param("where", qb.NewExpression().Column("team").Eq().Value(1).And().Column("name").Like().Value("b")).
			Param("order", qb.NewOrderBy().ByDir("name", qb.DESC)),
			mapper.String.ForNotNullColumn(mapper.Index(1)))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, names.Items)
	})

	t.Run("null team via is null", func(t *testing.T) {
		names, err := Query(ctx, f.Template("SELECT name FROM users WHERE :where").
			Param("where", qb.NewExpression().Column("team").Eq().Value(nil)),
			mapper.String.ForNotNullColumn(mapper.Index(1)))
		require.NoError(t, err)
		assert.Equal(t, []string{"dee"}, names.Items)
	})

	t.Run("group rows by team", func(t *testing.T) {
		teams, err := Aggregate[*result.List[[]string]](ctx,
			f.Template("SELECT team, name FROM users WHERE team IS NOT NULL ORDER BY team, name"),
			mapper.NewKeyAggregator(func(c *mapper.Cursor, cur []string, found bool) ([]string, error) {
				name, err := c.String(mapper.Label("name"))
				return append(cur, name), err
			}, mapper.Label("team")))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"amy", "bob"}, {"cy"}}, teams.Items)
	})

	t.Run("rows as maps", func(t *testing.T) {
		rows, err := Query(ctx, f.Template("SELECT id AS user_id, name FROM users WHERE id = :id").Param("id", 3),
			mapper.RowToMap(mapper.KeyLowerCamel))
		require.NoError(t, err)
		require.Len(t, rows.Items, 1)
		assert.Equal(t, int64(3), rows.Items[0]["userId"])
		assert.Equal(t, "cy", rows.Items[0]["name"])
	})

	t.Run("duplicate keys translate", func(t *testing.T) {
		_, err := f.Template("INSERT INTO users (name) VALUES (:name)").Param("name", "amy").Exec(ctx)
		require.Error(t, err)
		assert.Nil(t, errs.KindOf(err))
		assert.ErrorIs(t, f.Translate(err), errs.ErrDuplicateKey)
	})

	t.Run("update or fail", func(t *testing.T) {
		err := f.Template("UPDATE users SET team = :team WHERE name = :name").
			Param("team", 3).Param("name", "nobody").
			ExecOrFail(ctx, nil)
		assert.ErrorIs(t, err, errs.ErrNoUpdate)
	})
}
