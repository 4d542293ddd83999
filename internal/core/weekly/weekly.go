// Package weekly buckets timestamped values into a Monday-first, seven-slot
// profile restricted to a single calendar week.
//
// Every function here is pure: the reference instant is always passed in by
// the caller, nothing is cached, and malformed input is skipped rather than
// reported.
package weekly

import (
	"math"
	"reflect"
	"strings"
	"time"
)

const DaysInWeek = 7

// Labels are the short day names matching Profile indices.
var Labels = [DaysInWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Profile holds one accumulator per weekday, Monday at index 0.
type Profile [DaysInWeek]float64

func (p Profile) Total() float64 {
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum
}

// DateLike is what a timestamp accessor may return. The zero value of each
// member ("" / zero time / nil) means the timestamp is absent.
type DateLike interface {
	string | time.Time | *time.Time
}

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValueLike is what a value accessor may return. A nil pointer means the
// value is absent and counts as zero.
type ValueLike interface {
	Number | *int | *int64 | *float32 | *float64
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MondayFirstDayIndex maps t's weekday (in t's own location) to 0 for Monday
// through 6 for Sunday.
func MondayFirstDayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % DaysInWeek
}

// Window returns the half-open interval [start, end) of the Monday-first week
// containing ref. Both bounds are local midnights in ref's location, so a
// week spanning a DST change is 167 or 169 hours long.
func Window(ref time.Time) (start, end time.Time) {
	y, m, d := ref.Date()
	offset := MondayFirstDayIndex(ref)

	start = time.Date(y, m, d-offset, 0, 0, 0, 0, ref.Location())
	end = time.Date(y, m, d-offset+DaysInWeek, 0, 0, 0, 0, ref.Location())
	return start, end
}

// ParseTimestamp accepts RFC 3339 and the common zone-less ISO-8601 forms.
// Zone-less strings are read in loc (UTC when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func resolve[D DateLike](d D, loc *time.Location) (time.Time, bool) {
	switch v := any(d).(type) {
	case string:
		return ParseTimestamp(v, loc)
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	}
	return time.Time{}, false
}

// AggregateByWeekday sums getValue over the items whose timestamp falls inside
// the week containing ref, bucketed by weekday. Items without a usable
// timestamp or outside the week are skipped; absent and non-finite values
// count as zero.
func AggregateByWeekday[T any, D DateLike, V ValueLike](items []T, getTimestamp func(T) D, getValue func(T) V, ref time.Time) Profile {
	var out Profile
	if getTimestamp == nil || len(items) == 0 {
		return out
	}

	loc := ref.Location()
	start, end := Window(ref)

	for _, it := range items {
		ts, ok := resolve(getTimestamp(it), loc)
		if !ok {
			continue
		}
		if ts.Before(start) || !ts.Before(end) {
			continue
		}

		out[MondayFirstDayIndex(ts.In(loc))] += finiteValue(getValue, it)
	}

	return out
}

func finiteValue[T any, V ValueLike](getValue func(T) V, it T) float64 {
	if getValue == nil {
		return 0
	}
	v := toFloat(getValue(it))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func toFloat[V ValueLike](v V) float64 {
	switch x := any(v).(type) {
	case int:
		return float64(x)
	case float64:
		return x
	case *int:
		if x == nil {
			return 0
		}
		return float64(*x)
	case *int64:
		if x == nil {
			return 0
		}
		return float64(*x)
	case *float32:
		if x == nil {
			return 0
		}
		return float64(*x)
	case *float64:
		if x == nil {
			return 0
		}
		return *x
	}

	// Named numeric types.
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int())
	case rv.CanUint():
		return float64(rv.Uint())
	case rv.CanFloat():
		return rv.Float()
	}
	return 0
}
