package room

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
	KindRoom
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindRoom:
		return "room"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	fmt.Stringer
}

type IntValue struct {
	Val int32
}

func (v IntValue) Kind() Kind { return KindInt }

func (v IntValue) String() string { return strconv.FormatInt(int64(v.Val), 10) }

type FloatValue struct {
	Val float32
}

func (v FloatValue) Kind() Kind { return KindFloat }

// String always renders a decimal point for finite values so the text reads back
// as a float literal.
func (v FloatValue) String() string {
	f := float64(v.Val)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 32)
	}

	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// String quotes with '"' unless the text itself holds one, in which case it uses the
// char-literal quote. There are no escapes, so text holding both cannot be read back.
func (v StringValue) String() string {
	if strings.ContainsRune(v.Val, '"') && !strings.ContainsRune(v.Val, '\'') {
		return `'` + v.Val + `'`
	}

	return `"` + v.Val + `"`
}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) String() string {
	if v.Val {
		return "true"
	}

	return "false"
}

// RoomValue is an ordered sequence of values of any kind.
type RoomValue struct {
	Elems []Value
}

func (v *RoomValue) Kind() Kind { return KindRoom }

func (v *RoomValue) String() string {
	var str strings.Builder
	str.WriteString("[")

	for i, elem := range v.Elems {
		str.WriteString(elem.String())

		if i != len(v.Elems)-1 {
			str.WriteString(", ")
		}
	}

	str.WriteString("]")
	return str.String()
}

// Clone returns a deep copy, so the result shares no storage with v.
func (v *RoomValue) Clone() *RoomValue {
	out := &RoomValue{Elems: make([]Value, len(v.Elems))}
	for i, elem := range v.Elems {
		out.Elems[i] = copyValue(elem)
	}

	return out
}

// Text renders v in its canonical form. It is used for all program output and for
// error messages.
func Text(v Value) string {
	if v == nil {
		return "<nil>"
	}

	return v.String()
}

// Truthy converts any value to a bool for conditional branching.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *RoomValue:
		return len(val.Elems) != 0
	default:
		return false
	}
}

// Equal reports deep equality. Numbers of different kinds are never equal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case IntValue, FloatValue, StringValue, BoolValue:
		return a == b
	case *RoomValue:
		y, ok := b.(*RoomValue)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}

		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

func copyValue(v Value) Value {
	if r, ok := v.(*RoomValue); ok {
		return r.Clone()
	}

	return v
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue:
		return true
	default:
		return false
	}
}

// toFloat widens a numeric value. ok is false for every other kind.
func toFloat(v Value) (f float32, ok bool) {
	switch val := v.(type) {
	case IntValue:
		return float32(val.Val), true
	case FloatValue:
		return val.Val, true
	default:
		return 0, false
	}
}

func kindOf(v Value) string {
	if v == nil {
		return "nothing"
	}

	return v.Kind().String()
}
