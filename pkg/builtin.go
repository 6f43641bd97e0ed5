package room

import (
	"fmt"
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// BuiltinFunc implements a builtin. Arity has already been checked when it runs.
type BuiltinFunc func(out io.Writer, args []Value) (Value, error)

type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

// Builtins is the name-to-implementation catalog consulted after user functions.
type Builtins struct {
	funcs map[string]*Builtin
	out   io.Writer
}

func NewBuiltins(out io.Writer) *Builtins {
	b := &Builtins{
		funcs: make(map[string]*Builtin),
		out:   out,
	}

	defineBuiltins(b)
	return b
}

func defineBuiltins(b *Builtins) {
	b.Register("print", 1, builtinPrint)
	b.Register("round", 1, numericToInt("round", math.Round))
	b.Register("floor", 1, numericToInt("floor", math.Floor))
	b.Register("ceil", 1, numericToInt("ceil", math.Ceil))
	b.Register("abs", 1, builtinAbs)
	b.Register("min", 2, widenedPair("min", math.Min))
	b.Register("max", 2, widenedPair("max", math.Max))
	b.Register("sqrt", 1, builtinSqrt)
	b.Register("pow", 2, widenedPair("pow", math.Pow))
	b.Register("len", 1, builtinLen)
	b.Register("frag", 3, builtinFrag)
}

// Register adds or replaces a builtin.
func (b *Builtins) Register(name string, arity int, fn BuiltinFunc) {
	b.funcs[name] = &Builtin{Name: name, Arity: arity, Fn: fn}
}

func (b *Builtins) Lookup(name string) (*Builtin, bool) {
	f, ok := b.funcs[name]
	return f, ok
}

// Names returns the catalog's names in sorted order.
func (b *Builtins) Names() []string {
	names := make([]string, 0, len(b.funcs))
	for name := range b.funcs {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func (b *Builtins) Call(name string, args []Value) (Value, error) {
	f, ok := b.funcs[name]
	if !ok {
		return nil, errors.Wrapf(ErrName, "undefined function: %s", name)
	}

	if len(args) != f.Arity {
		return nil, errors.Wrapf(ErrArity, "%s() expects %s, got %d", name, plural(f.Arity, "argument"), len(args))
	}

	return f.Fn(b.out, args)
}

func builtinPrint(out io.Writer, args []Value) (Value, error) {
	if _, err := fmt.Fprintln(out, Text(args[0])); err != nil {
		return nil, errors.Wrap(err, "print")
	}

	return IntValue{0}, nil
}

func numericToInt(name string, op func(float64) float64) BuiltinFunc {
	return func(_ io.Writer, args []Value) (Value, error) {
		switch v := args[0].(type) {
		case IntValue:
			return v, nil
		case FloatValue:
			return IntValue{int32(op(float64(v.Val)))}, nil
		default:
			return nil, numericArgError(name, args[0])
		}
	}
}

func builtinAbs(_ io.Writer, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case IntValue:
		if v.Val < 0 {
			return IntValue{-v.Val}, nil
		}
		return v, nil
	case FloatValue:
		return FloatValue{float32(math.Abs(float64(v.Val)))}, nil
	default:
		return nil, numericArgError("abs", args[0])
	}
}

// widenedPair builds a two-argument builtin that widens both operands to float.
func widenedPair(name string, op func(a, b float64) float64) BuiltinFunc {
	return func(_ io.Writer, args []Value) (Value, error) {
		a, ok := toFloat(args[0])
		if !ok {
			return nil, numericArgError(name, args[0])
		}

		b, ok := toFloat(args[1])
		if !ok {
			return nil, numericArgError(name, args[1])
		}

		return FloatValue{float32(op(float64(a), float64(b)))}, nil
	}
}

func builtinSqrt(_ io.Writer, args []Value) (Value, error) {
	f, ok := toFloat(args[0])
	if !ok {
		return nil, numericArgError("sqrt", args[0])
	}

	if f < 0 {
		return nil, errors.Wrapf(ErrDomain, "sqrt() requires a non-negative argument, got %s", Text(args[0]))
	}

	return FloatValue{float32(math.Sqrt(float64(f)))}, nil
}

func builtinLen(_ io.Writer, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case *RoomValue:
		return IntValue{int32(len(v.Elems))}, nil
	case StringValue:
		return IntValue{int32(utf8.RuneCountInString(v.Val))}, nil
	default:
		return nil, errors.Wrapf(ErrType, "len() requires a room or string argument, got %s", kindOf(args[0]))
	}
}

// builtinFrag copies the half-open range [start, end) out of a room.
func builtinFrag(_ io.Writer, args []Value) (Value, error) {
	r, ok := args[0].(*RoomValue)
	if !ok {
		return nil, errors.Wrapf(ErrType, "frag() requires a room as first argument, got %s", kindOf(args[0]))
	}

	start, ok := args[1].(IntValue)
	if !ok {
		return nil, errors.Wrapf(ErrType, "frag() requires an int start, got %s", kindOf(args[1]))
	}

	end, ok := args[2].(IntValue)
	if !ok {
		return nil, errors.Wrapf(ErrType, "frag() requires an int end, got %s", kindOf(args[2]))
	}

	s, e := int(start.Val), int(end.Val)
	if s < 0 || e < 0 || s >= e || e > len(r.Elems) {
		return nil, errors.Wrapf(ErrIndex, "frag() range [%d, %d) invalid for room of length %d", s, e, len(r.Elems))
	}

	out := &RoomValue{Elems: make([]Value, 0, e-s)}
	for _, elem := range r.Elems[s:e] {
		out.Elems = append(out.Elems, copyValue(elem))
	}

	return out, nil
}

func numericArgError(name string, got Value) error {
	return errors.Wrapf(ErrType, "%s() requires numeric arguments, got %s", name, kindOf(got))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}

	return fmt.Sprintf("%d %ss", n, word)
}
