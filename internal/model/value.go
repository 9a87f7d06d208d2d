package model

import (
	"strconv"
	"time"
)

// ValueKind discriminates the scalar types a source may report.
type ValueKind int

const (
	KindMissing ValueKind = iota
	KindBool
	KindInt
	KindString
	KindTime
)

// Value is a typed scalar attribute value. The zero Value is "missing" and
// is never recorded in a Claim. An empty string and a zero timestamp also
// count as missing; the integer 0 and boolean false do not.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	b    bool
	t    time.Time
}

// StringValue wraps s. The empty string is a missing value.
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, s: s}
}

// IntValue wraps i. Zero is a valid, recordable value.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// BoolValue wraps b. False is a valid, recordable value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// TimeValue wraps t. The zero time is a missing value.
func TimeValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, t: t}
}

// Kind returns the value's type discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v carries no claimable value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Equal reports semantic equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindString:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Compare returns -1, 0 or 1. Values of different kinds order by kind so
// that mixed claims still sort totally; within a kind the natural order
// applies. Missing sorts before everything.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindBool:
		switch {
		case v.b == o.b:
			return 0
		case !v.b:
			return -1
		default:
			return 1
		}
	case KindInt:
		switch {
		case v.i < o.i:
			return -1
		case v.i > o.i:
			return 1
		default:
			return 0
		}
	case KindString:
		switch {
		case v.s < o.s:
			return -1
		case v.s > o.s:
			return 1
		default:
			return 0
		}
	case KindTime:
		switch {
		case v.t.Before(o.t):
			return -1
		case v.t.After(o.t):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// String renders the display form used in reports.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format("2006-01-02 15:04:05 -0700")
	default:
		return ""
	}
}

// Attributes is one source's report: a partial mapping over the attribute
// schema. Adapters return these from Fetch.
type Attributes map[Key]Value
