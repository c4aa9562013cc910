package datatable

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const dateLayout = "2006-01-02"

// isAbsent reports nil and typed nil pointers, which the pipeline treats
// as a missing value.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// deref unwraps non-nil pointers so *string and string compare alike.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// stringify is the single "string representation" rule used by search,
// select filters, rendering and the mixed-type sort fallback.
func stringify(v any) string {
	if isAbsent(v) {
		return ""
	}
	switch val := deref(v).(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(dateLayout)
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// isNumber reports Go numeric kinds. Numeric-looking strings are not numbers.
func isNumber(v any) bool {
	switch reflect.ValueOf(deref(v)).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// toFloat coerces numbers and numeric strings.
func toFloat(v any) (float64, bool) {
	if isAbsent(v) {
		return 0, false
	}
	v = deref(v)
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toBool coerces checkbox values. Unrecognised input reports ok=false.
func toBool(v any) (bool, bool) {
	if isAbsent(v) {
		return false, false
	}
	v = deref(v)
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		}
		return false, false
	}
	if f, ok := toFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// dateKey normalises a value to its calendar day.
func dateKey(v any) (string, bool) {
	if isAbsent(v) {
		return "", false
	}
	switch val := deref(v).(type) {
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.Format(dateLayout), true
	case string:
		s := strings.TrimSpace(val)
		if len(s) >= len(dateLayout) {
			if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
				return t.Format(dateLayout), true
			}
		}
		if t, err := time.Parse("01/02/2006", s); err == nil {
			return t.Format(dateLayout), true
		}
	}
	return "", false
}

// compareValues orders two present values. Same-kind numbers, times and
// booleans compare natively; everything else compares by string form.
func compareValues(a, b any) int {
	a, b = deref(a), deref(b)
	if isNumber(a) && isNumber(b) {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}

// folder case-folds strings for case-insensitive matching. A Caser keeps
// state between calls, so a folder belongs to one search or filter pass
// and must not be shared across goroutines.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(s)
}

// contains reports whether foldedNeedle occurs in haystack ignoring case.
func (f *folder) contains(haystack, foldedNeedle string) bool {
	return strings.Contains(f.fold(haystack), foldedNeedle)
}

// Exported coercions let a data backend apply the same filter rules as the
// local pipeline.

// String returns the display form of a cell value. Missing values are "".
func String(v any) string { return stringify(v) }

// CoerceBool reads a checkbox filter value.
func CoerceBool(v any) (bool, bool) { return toBool(v) }

// CoerceNumber reads a number filter value.
func CoerceNumber(v any) (float64, bool) { return toFloat(v) }

// CoerceDate reads a date filter value as YYYY-MM-DD.
func CoerceDate(v any) (string, bool) { return dateKey(v) }
