package mapper

import (
	"database/sql"
	"math/big"
	"reflect"
	"strings"
	"time"

	"github.com/golobby/sqlkit/errs"
	"github.com/iancoleman/strcase"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	ratPtrType  = reflect.TypeOf((*big.Rat)(nil))
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	bytesType   = reflect.TypeOf([]byte(nil))
)

type binding struct {
	column int
	field  []int
}

// Struct maps rows into T, a struct type. A column binds the field tagged
// `bind:"column"`, or else the field whose snake_case name equals the label.
// Columns matching no field are skipped. Pointer fields receive nil for SQL
// NULL; other fields keep their zero value.
func Struct[T any]() RowMapper[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	var (
		planned *Cursor
		plan    []binding
	)
	return func(c *Cursor) (T, error) {
		var out T
		if t.Kind() != reflect.Struct {
			return out, errs.IllegalArgument("struct mapper needs a struct type, got %s", t)
		}
		if planned != c {
			plan, planned = planBindings(t, c), c
		}
		v := reflect.ValueOf(&out).Elem()
		for _, b := range plan {
			if err := bindField(c, b.column, v.FieldByIndex(b.field)); err != nil {
				return out, err
			}
		}
		return out, nil
	}
}

func planBindings(t reflect.Type, c *Cursor) []binding {
	byName := map[string][]int{}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, ok := f.Tag.Lookup("bind")
		if name == "-" {
			continue
		}
		if !ok {
			name = strcase.ToSnake(f.Name)
		}
		byName[strings.ToLower(name)] = f.Index
	}
	var plan []binding
	for i, label := range c.labels {
		if idx, ok := byName[strings.ToLower(label)]; ok {
			plan = append(plan, binding{column: i + 1, field: idx})
		}
	}
	return plan
}

func bindField(c *Cursor, column int, field reflect.Value) error {
	col := Index(column)
	raw, err := c.Raw(col)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Ptr && field.Type() != ratPtrType {
		if raw == nil {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		target := reflect.New(field.Type().Elem())
		if err := bindField(c, column, target.Elem()); err != nil {
			return err
		}
		field.Set(target)
		return nil
	}
	if field.CanAddr() && field.Addr().Type().Implements(scannerType) {
		if err := field.Addr().Interface().(sql.Scanner).Scan(raw); err != nil {
			return errs.Wrap(errs.ErrDataIntegrity, err, "column %s", col)
		}
		return nil
	}
	if raw == nil {
		return nil
	}
	kind, ok := kindFor(field.Type())
	if !ok {
		return errs.IllegalArgument("cannot bind column %s to a field of type %s", col, field.Type())
	}
	v, err := c.Value(col, kind)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		field.SetInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Int() < 0 {
			return errs.DataIntegrity("negative value for unsigned field on column %s", col)
		}
		field.SetUint(uint64(rv.Int()))
	case reflect.Float32, reflect.Float64:
		field.SetFloat(rv.Float())
	default:
		field.Set(rv.Convert(field.Type()))
	}
	return nil
}

func kindFor(t reflect.Type) (Kind, bool) {
	switch t {
	case timeType:
		return KindTimestamp, true
	case ratPtrType:
		return KindDecimal, true
	case bytesType:
		return KindBytes, true
	}
	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int8:
		return KindInt8, true
	case reflect.Int16:
		return KindInt16, true
	case reflect.Int32:
		return KindInt32, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt64, true
	case reflect.Float32:
		return KindFloat32, true
	case reflect.Float64:
		return KindFloat64, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return KindArray, true
		}
	}
	return 0, false
}
