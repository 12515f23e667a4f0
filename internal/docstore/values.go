package docstore

import (
	"strings"
	"time"
)

// String returns the field as a string, or "" when absent or of another type.
func (d Document) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// Int64 returns a numeric field truncated to int64; 0 when absent.
func (d Document) Int64(field string) int64 {
	f, ok := toFloat(d.Data[field])
	if !ok {
		return 0
	}
	return int64(f)
}

// Float64 returns a numeric field as float64; 0 when absent.
func (d Document) Float64(field string) float64 {
	f, _ := toFloat(d.Data[field])
	return f
}

func (d Document) Time(field string) (time.Time, bool) {
	t, ok := d.Data[field].(time.Time)
	return t, ok
}

func (d Document) Bool(field string) (bool, bool) {
	b, ok := d.Data[field].(bool)
	return b, ok
}

func (d Document) Has(field string) bool {
	_, ok := d.Data[field]
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// compareValues orders two field values of the same kind. ok is false when
// the values are not comparable (different kinds or unsupported types).
func compareValues(a, b any) (cmp int, ok bool) {
	if fa, okA := toFloat(a); okA {
		fb, okB := toFloat(b)
		if !okB {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch va := a.(type) {
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return va.Compare(vb), true
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(va, vb), true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func (f Filter) matches(d Document) bool {
	v, ok := d.Data[f.Field]
	if !ok {
		return false
	}
	c, ok := compareValues(v, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpEqual:
		return c == 0
	case OpGreaterOrEqual:
		return c >= 0
	case OpLessOrEqual:
		return c <= 0
	}
	return false
}
