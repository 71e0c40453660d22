package mapper

import (
	"github.com/iancoleman/strcase"
)

// KeyStyle normalizes column labels into map keys.
type KeyStyle int

const (
	KeyRaw KeyStyle = iota
	KeySnake
	KeyLowerCamel
	KeyCamel
)

func (s KeyStyle) apply(label string) string {
	switch s {
	case KeySnake:
		return strcase.ToSnake(label)
	case KeyLowerCamel:
		return strcase.ToLowerCamel(label)
	case KeyCamel:
		return strcase.ToCamel(label)
	}
	return label
}

// RowToMap maps every column of the row by its label. Values are those the
// driver produced, with SQL NULL as nil and byte slices read as strings.
func RowToMap(style KeyStyle) RowMapper[map[string]any] {
	return func(c *Cursor) (map[string]any, error) {
		out := make(map[string]any, c.ColumnCount())
		for i := 1; i <= c.ColumnCount(); i++ {
			label, err := c.ColumnLabel(i)
			if err != nil {
				return nil, err
			}
			v, err := c.Raw(Index(i))
			if err != nil {
				return nil, err
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			out[style.apply(label)] = v
		}
		return out, nil
	}
}
