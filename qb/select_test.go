package qb

import (
	"testing"

	"github.com/golobby/sqlkit/fragment"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	t.Run("plain columns are de-duplicated", func(t *testing.T) {
		s := NewSelect().Columns("id", "name", "id")
		assert.Equal(t, "id, name", s.Text())
		assert.Empty(t, s.Params())
	})

	t.Run("qualified columns need an active qualifier", func(t *testing.T) {
		s := NewSelect().Columns("id").QualifiedColumns("admin", "password_hash")
		assert.Equal(t, "id", s.Text())

		s.Qualifiers("admin")
		assert.Equal(t, "id, password_hash", s.Text())
	})

	t.Run("hints render in qualifier order", func(t *testing.T) {
		s := NewSelect(SQLCalcFoundRows, Distinct).Columns("id")
		assert.Equal(t, "SQL_CALC_FOUND_ROWS DISTINCT id", s.Text())
		assert.True(t, s.Contains(SQLCalcFoundRows))
		assert.False(t, s.Contains(SQLNoCache))
	})

	t.Run("hint qualifiers can carry columns too", func(t *testing.T) {
		s := NewSelect().Columns("id").QualifiedColumns(SQLCalcFoundRows, "total").Qualifiers(SQLCalcFoundRows)
		assert.Equal(t, "SQL_CALC_FOUND_ROWS id, total", s.Text())
	})

	t.Run("conditional columns", func(t *testing.T) {
		s := NewSelect().ColumnsIf(false, "secret").ColumnsIf(true, "id")
		assert.Equal(t, "id", s.Text())
	})
}

func TestOrderBy(t *testing.T) {
	t.Run("entries are joined with their direction", func(t *testing.T) {
		o := NewOrderBy().By("name").ByDir("created_at", DESC)
		assert.Equal(t, "name ASC, created_at DESC", o.Text())
		assert.Empty(t, o.Params())
		assert.NoError(t, o.Err())
	})

	t.Run("qualified entries follow the active qualifiers", func(t *testing.T) {
		o := NewOrderBy().ByQualified("rank", "score", DESC).ByQualified("age", "born", ASC).By("id").Qualifiers("rank")
		assert.Equal(t, "score DESC, id ASC", o.Text())
	})

	t.Run("qualified entries without qualifiers fail", func(t *testing.T) {
		o := NewOrderBy().ByQualified("rank", "score", DESC)
		_, err := o.Build()
		assert.EqualError(t, err, "[sqlkit] illegal state: Qualifiers for order by are not set")
		assert.Equal(t, "", o.Text())
	})

	t.Run("empty order resolves to a neutral order", func(t *testing.T) {
		r := NewOrderBy().ByQualified("rank", "score", DESC).Qualifiers().Resolve()
		assert.Equal(t, fragment.NoPredicate, r.Kind)
		assert.Equal(t, "NULL", r.Fragment().Text())
	})
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit *Limit
		text  string
	}{
		{"limit only", NewLimit(10), "10"},
		{"offset and limit", NewOffsetLimit(20, 10), "20, 10"},
		{"absent limit is unbounded", &Limit{}, "2147483647"},
		{"offset without limit", &Limit{Offset: new(int64)}, "0, 2147483647"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.limit.Text())
			assert.Empty(t, tt.limit.Params())
		})
	}
}
