package mapper

import (
	"testing"

	"github.com/golobby/sqlkit/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive runs an aggregator the way query execution does.
func drive[R any](t *testing.T, a RowAggregator[R], c *Cursor) R {
	t.Helper()
	if v, done, err := a.PreQuery(Statement{}); done || err != nil {
		require.NoError(t, err)
		return v
	}
	if v, done, err := a.PostQuery(c); done || err != nil {
		require.NoError(t, err)
		return v
	}
	for c.Next() {
		v, done, err := a.ProcessRow(c)
		require.NoError(t, err)
		if done {
			return v
		}
	}
	require.NoError(t, c.Err())
	v, err := a.Result()
	require.NoError(t, err)
	return v
}

type firstOver struct {
	limit int64
}

func (f firstOver) Add(v int64) (int64, bool, error) {
	return v, v > f.limit, nil
}

func (f firstOver) Result() (int64, error) {
	return -1, nil
}

func TestAggregators(t *testing.T) {
	t.Run("key aggregator groups rows in key order", func(t *testing.T) {
		c := cursorOn(t, []string{"k", "v"},
			[]any{int64(1), "a"}, []any{int64(1), "b"}, []any{int64(2), "c"})
		agg := NewKeyAggregator(func(c *Cursor, cur []string, found bool) ([]string, error) {
			v, err := c.String(Label("v"))
			return append(cur, v), err
		}, Label("k"))

		got := drive[*result.List[[]string]](t, agg, c)
		assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, got.Items)
	})

	t.Run("key aggregator with composite keys", func(t *testing.T) {
		c := cursorOn(t, []string{"a", "b", "n"},
			[]any{int64(1), []byte("x"), int64(1)},
			[]any{int64(1), []byte("y"), int64(2)},
			[]any{int64(1), []byte("x"), int64(3)})
		agg := NewKeyAggregator(func(c *Cursor, cur int64, found bool) (int64, error) {
			n, err := c.Int64(Index(3))
			return cur + n, err
		}, Index(1), Index(2))

		got := drive[*result.List[int64]](t, agg, c)
		assert.Equal(t, []int64{4, 2}, got.Items)
	})

	t.Run("key aggregator without keys keeps every row", func(t *testing.T) {
		c := cursorOn(t, []string{"v"}, []any{"a"}, []any{"a"})
		agg := NewKeyAggregator(func(c *Cursor, cur string, found bool) (string, error) {
			assert.False(t, found)
			return c.String(Index(1))
		})
		got := drive[*result.List[string]](t, agg, c)
		assert.Equal(t, []string{"a", "a"}, got.Items)
	})

	t.Run("key aggregator copies key metadata", func(t *testing.T) {
		found := int32(12)
		keys := result.Wrap([]int64{1}, result.Meta{FoundRows: &found})
		c := cursorOn(t, []string{"k"}, []any{int64(1)})
		agg := NewKeyAggregator(func(c *Cursor, cur int, found bool) (int, error) {
			return cur + 1, nil
		}, Index(1)).WithMeta(keys)

		got := drive[*result.List[int]](t, agg, c)
		assert.Equal(t, []int{1}, got.Items)
		require.NotNil(t, got.FoundRows())
		assert.Equal(t, int32(12), *got.FoundRows())
	})

	t.Run("key aggregator rejects unknown key columns", func(t *testing.T) {
		c := cursorOn(t, []string{"k"})
		agg := NewKeyAggregator(func(c *Cursor, cur int, found bool) (int, error) {
			return 0, nil
		}, Label("missing"))
		_, _, err := agg.PostQuery(c)
		assert.Error(t, err)
	})

	t.Run("map aggregator keeps insertion order", func(t *testing.T) {
		c := cursorOn(t, []string{"k", "v"},
			[]any{"b", int64(1)}, []any{"a", int64(2)}, []any{"b", int64(3)})
		agg := NewMapAggregator(String.ForNotNullColumn(Index(1)), Int64.ForNotNullColumn(Index(2)))

		got := drive[*Ordered[string, int64]](t, agg, c)
		assert.Equal(t, []string{"b", "a"}, got.Keys())
		assert.Equal(t, []int64{3, 2}, got.Values())
	})

	t.Run("mappable collects mapped rows", func(t *testing.T) {
		c := cursorOn(t, []string{"v"}, []any{int64(1)}, []any{int64(2)})
		agg := Mappable[int64, *result.List[int64]](Int64.ForNotNullColumn(Index(1)), &Collect[int64]{})
		got := drive(t, agg, c)
		assert.Equal(t, []int64{1, 2}, got.Items)
	})

	t.Run("mappable short-circuits", func(t *testing.T) {
		c := cursorOn(t, []string{"v"}, []any{int64(1)}, []any{int64(5)}, []any{int64(9)})
		agg := Mappable[int64, int64](Int64.ForNotNullColumn(Index(1)), firstOver{limit: 3})
		assert.Equal(t, int64(5), drive(t, agg, c))
	})
}
