package mapper

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Kind selects the conversion Cursor.Value applies to a raw column value.
type Kind int

const (
	KindString Kind = iota
	KindDecimal
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBytes
	KindDate
	KindTime
	KindTimestamp
	KindLOB
	KindArray
)

type conversion struct {
	name    string
	convert func(raw any) (any, error)
}

var kinds = [...]conversion{
	KindString:    {"string", toString},
	KindDecimal:   {"decimal", toDecimal},
	KindBool:      {"bool", toBool},
	KindInt8:      {"int8", intOfSize(8)},
	KindInt16:     {"int16", intOfSize(16)},
	KindInt32:     {"int32", intOfSize(32)},
	KindInt64:     {"int64", intOfSize(64)},
	KindFloat32:   {"float32", toFloat32},
	KindFloat64:   {"float64", func(raw any) (any, error) { return toFloat(raw) }},
	KindBytes:     {"bytes", toBytes},
	KindDate:      {"date", toDate},
	KindTime:      {"time", toTimeOfDay},
	KindTimestamp: {"timestamp", toTimestamp},
	KindLOB:       {"lob", toReader},
	KindArray:     {"array", toArray},
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kinds[k].name
}

func (k Kind) convert(raw any) (any, error) {
	return kinds[k].convert(raw)
}

func toString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	}
	return fmt.Sprint(raw), nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt(v)
	case []byte:
		return parseInt(string(v))
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", rv.Uint())
		}
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f < math.MinInt64 || f >= math.MaxInt64 || math.IsNaN(f) {
			return 0, fmt.Errorf("%v overflows int64", f)
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not an integer", f)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("cannot read %T as an integer", raw)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot read %q as an integer", s)
	}
	return toInt64(f)
}

func intOfSize(bits int) func(any) (any, error) {
	return func(raw any) (any, error) {
		i, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		lo, hi := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
		if bits == 64 {
			lo, hi = math.MinInt64, math.MaxInt64
		}
		if i < lo || i > hi {
			return nil, fmt.Errorf("%d does not fit in int%d", i, bits)
		}
		switch bits {
		case 8:
			return int8(i), nil
		case 16:
			return int16(i), nil
		case 32:
			return int32(i), nil
		}
		return i, nil
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	}
	rv := reflect.ValueOf(raw)
	if k := rv.Kind(); k == reflect.Float32 || k == reflect.Float64 {
		return rv.Float(), nil
	}
	i, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("cannot read %T as a float", raw)
	}
	return float64(i), nil
}

func toFloat32(raw any) (any, error) {
	f, err := toFloat(raw)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func toDecimal(raw any) (any, error) {
	switch v := raw.(type) {
	case string, []byte:
		s := strings.TrimSpace(fmt.Sprintf("%s", v))
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("cannot read %q as a decimal", s)
		}
		return r, nil
	case float32, float64:
		f, _ := toFloat(v)
		r := new(big.Rat).SetFloat64(f)
		if r == nil {
			return nil, fmt.Errorf("cannot read %v as a decimal", f)
		}
		return r, nil
	}
	i, err := toInt64(raw)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetInt64(i), nil
}

func toBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(v)))
	}
	i, err := toInt64(raw)
	if err != nil {
		return nil, err
	}
	return i != 0, nil
}

func toBytes(raw any) (any, error) {
	switch v := raw.(type) {
	case []byte:
		return bytes.Clone(v), nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("cannot read %T as bytes", raw)
}

func toReader(raw any) (any, error) {
	b, err := toBytes(raw)
	if err != nil {
		return nil, err
	}
	var r io.Reader = bytes.NewReader(b.([]byte))
	return r, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

var timeLayouts = []string{
	"15:04:05.999999999",
	"15:04:05.999999999-07:00",
	"15:04",
}

func parseTime(raw any, layouts []string) (time.Time, error) {
	var s string
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as a time", raw)
	}
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

func toTimestamp(raw any) (any, error) {
	return parseTime(raw, timestampLayouts)
}

func toDate(raw any) (any, error) {
	t, err := parseTime(raw, timestampLayouts)
	if err != nil {
		return nil, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}

func toTimeOfDay(raw any) (any, error) {
	t, err := parseTime(raw, append(timeLayouts, timestampLayouts...))
	if err != nil {
		return nil, err
	}
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()), nil
}

func toArray(raw any) (any, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, e := range v {
			s, _ := toString(e)
			out[i] = s.(string)
		}
		return out, nil
	}
	var a pq.StringArray
	if err := a.Scan(raw); err != nil {
		return nil, err
	}
	return []string(a), nil
}

func toNumber(raw any) (any, error) {
	switch v := raw.(type) {
	case string, []byte:
		s := strings.TrimSpace(fmt.Sprintf("%s", v))
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		return toDecimal(s)
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return toInt64(raw)
}
