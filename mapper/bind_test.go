package mapper

import (
	"database/sql"
	"testing"
	"time"

	"github.com/golobby/sqlkit/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID        int            `bind:"id"`
	Name      string         `bind:"name"`
	Nickname  *string        `bind:"nickname"`
	Balance   float64
	CreatedAt time.Time
	Note      sql.NullString `bind:"note"`
	Ignored   string         `bind:"-"`
}

func TestStruct(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := cursorOn(t, []string{"id", "NAME", "nickname", "balance", "created_at", "note", "ignored", "extra"},
		[]any{int64(7), []byte("amy"), nil, 12.5, at, "hello", "x", "y"},
		[]any{int64(8), "bob", "bobby", int64(3), at, nil, "x", "y"})
	m := Struct[account]()

	require.True(t, c.Next())
	a, err := m(c)
	require.NoError(t, err)
	assert.Equal(t, account{ID: 7, Name: "amy", Balance: 12.5, CreatedAt: at, Note: sql.NullString{String: "hello", Valid: true}}, a)

	require.True(t, c.Next())
	b, err := m(c)
	require.NoError(t, err)
	require.NotNil(t, b.Nickname)
	assert.Equal(t, "bobby", *b.Nickname)
	assert.Equal(t, 3.0, b.Balance)
	assert.False(t, b.Note.Valid)
	assert.Empty(t, b.Ignored)

	t.Run("non struct types are rejected", func(t *testing.T) {
		c := cursorOn(t, []string{"id"}, []any{int64(1)})
		require.True(t, c.Next())
		_, err := Struct[int]()(c)
		assert.ErrorIs(t, err, errs.ErrIllegalArgument)
	})

	t.Run("out of range values fail", func(t *testing.T) {
		type small struct {
			N int8 `bind:"n"`
		}
		c := cursorOn(t, []string{"n"}, []any{int64(1000)})
		require.True(t, c.Next())
		_, err := Struct[small]()(c)
		assert.ErrorIs(t, err, errs.ErrDataIntegrity)
	})
}
