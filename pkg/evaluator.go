package room

import (
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
	flowContinue
)

// flow is the outcome of executing a statement. Anything but flowNormal unwinds
// through blocks until a loop or a call boundary handles it.
type flow struct {
	kind  flowKind
	value Value
}

var normal = flow{kind: flowNormal}

func (i *Interpreter) eval(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *IntLiteral:
		return IntValue{e.Value}, nil
	case *FloatLiteral:
		return FloatValue{e.Value}, nil
	case *StringLiteral:
		return StringValue{e.Value}, nil
	case *BoolLiteral:
		return BoolValue{e.Value}, nil
	case *Identifier:
		val, ok := i.env.Get(e.Name)
		if !ok {
			return nil, errors.Wrapf(ErrName, "undefined variable: %s", e.Name)
		}
		return copyValue(val), nil
	case *BinaryExpr:
		return i.evalBinary(e)
	case *UnaryExpr:
		return i.evalUnary(e)
	case *ParenExpr:
		return i.eval(e.Inner)
	case *FuncCall:
		return i.evalCall(e)
	case *RoomLiteral:
		room := &RoomValue{Elems: make([]Value, 0, len(e.Elements))}
		for _, elem := range e.Elements {
			val, err := i.eval(elem)
			if err != nil {
				return nil, err
			}
			room.Elems = append(room.Elems, val)
		}
		return room, nil
	case *RoomAccess:
		return i.evalRoomAccess(e)
	default:
		return nil, errors.Wrapf(ErrInvalidOperation, "unknown expression %T", expr)
	}
}

func (i *Interpreter) evalBinary(e *BinaryExpr) (Value, error) {
	if e.Operation == BinaryAssignment {
		return nil, errors.Wrap(ErrInvalidOperation, "assignment is not supported in expressions")
	}

	lhs, err := i.eval(e.Op1)
	if err != nil {
		return nil, err
	}

	rhs, err := i.eval(e.Op2)
	if err != nil {
		return nil, err
	}

	return applyBinary(e.Operation, lhs, rhs)
}

// applyBinary performs arithmetic with the usual promotion: any float operand makes
// the result a float, '^' always yields a float.
func applyBinary(op BinaryOp, lhs, rhs Value) (Value, error) {
	if !isNumeric(lhs) || !isNumeric(rhs) {
		return nil, errors.Wrapf(ErrType, "invalid operands for %s: %s and %s", op, kindOf(lhs), kindOf(rhs))
	}

	if op == BinaryExponent {
		l, _ := toFloat(lhs)
		r, _ := toFloat(rhs)
		return FloatValue{float32(math.Pow(float64(l), float64(r)))}, nil
	}

	l, lInt := lhs.(IntValue)
	r, rInt := rhs.(IntValue)
	if lInt && rInt {
		switch op {
		case BinaryAddition:
			return IntValue{l.Val + r.Val}, nil
		case BinarySubtraction:
			return IntValue{l.Val - r.Val}, nil
		case BinaryMultiplication:
			return IntValue{l.Val * r.Val}, nil
		case BinaryDivision:
			if r.Val == 0 {
				return nil, errors.Wrapf(ErrDivisionByZero, "%s / %s", l, r)
			}
			return IntValue{l.Val / r.Val}, nil
		}
	} else {
		lf, _ := toFloat(lhs)
		rf, _ := toFloat(rhs)
		switch op {
		case BinaryAddition:
			return FloatValue{lf + rf}, nil
		case BinarySubtraction:
			return FloatValue{lf - rf}, nil
		case BinaryMultiplication:
			return FloatValue{lf * rf}, nil
		case BinaryDivision:
			if rf == 0 {
				return nil, errors.Wrapf(ErrDivisionByZero, "%s / %s", Text(lhs), Text(rhs))
			}
			return FloatValue{lf / rf}, nil
		}
	}

	return nil, errors.Wrapf(ErrInvalidOperation, "unknown binary operator %q", string(op))
}

func (i *Interpreter) evalUnary(e *UnaryExpr) (Value, error) {
	val, err := i.eval(e.Operand)
	if err != nil {
		return nil, err
	}

	switch v := val.(type) {
	case IntValue:
		if e.Operation == UnaryNegative {
			return IntValue{-v.Val}, nil
		}
		return v, nil
	case FloatValue:
		if e.Operation == UnaryNegative {
			return FloatValue{-v.Val}, nil
		}
		return v, nil
	default:
		return nil, errors.Wrapf(ErrType, "invalid operand for unary %s: %s", e.Operation, kindOf(val))
	}
}

// evalCall resolves the callee against user functions first, then builtins.
func (i *Interpreter) evalCall(e *FuncCall) (Value, error) {
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := i.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if f, ok := i.env.Function(e.Name); ok {
		return i.callUser(f, args)
	}

	if _, ok := i.builtins.Lookup(e.Name); ok {
		return i.builtins.Call(e.Name, args)
	}

	return nil, errors.Wrapf(ErrName, "undefined function: %s", e.Name)
}

// callUser runs f with checkpoint/restore semantics: every variable change the
// body makes is discarded once the call returns, including changes to names that
// are not parameters.
func (i *Interpreter) callUser(f *Function, args []Value) (Value, error) {
	if len(args) != len(f.Params) {
		return nil, errors.Wrapf(ErrArity, "function %s expects %s, got %d", f.Name, plural(len(f.Params), "argument"), len(args))
	}

	if i.opt.MaxCallDepth > 0 && i.depth >= i.opt.MaxCallDepth {
		return nil, errors.Wrapf(ErrRecursionLimit, "calling %s at depth %d", f.Name, i.depth)
	}

	i.log.Debug("call", "func", f.Name, "args", len(args), "depth", i.depth)

	cp := i.env.Checkpoint()
	for n, param := range f.Params {
		i.env.Set(param, args[n])
	}

	i.depth++
	fl, err := i.exec(f.Body)
	i.depth--
	i.env.Restore(cp)

	if err != nil {
		return nil, err
	}

	switch fl.kind {
	case flowReturn:
		return fl.value, nil
	case flowBreak, flowContinue:
		return nil, errors.Wrapf(ErrInvalidOperation, "%s outside of a loop in function %s", fl.kind, f.Name)
	default:
		return IntValue{0}, nil
	}
}

// lookupRoom fetches the room bound to name.
func (i *Interpreter) lookupRoom(name string) (*RoomValue, error) {
	val, ok := i.env.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrName, "undefined room: %s", name)
	}

	room, ok := val.(*RoomValue)
	if !ok {
		return nil, errors.Wrapf(ErrType, "not a room: %s holds %s", name, kindOf(val))
	}

	return room, nil
}

// index evaluates a room index, truncating floats toward zero.
func (i *Interpreter) index(expr Expr) (int, error) {
	val, err := i.eval(expr)
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case IntValue:
		return int(v.Val), nil
	case FloatValue:
		return int(v.Val), nil
	default:
		return 0, errors.Wrapf(ErrType, "room index must be numeric, got %s", kindOf(val))
	}
}

func checkBounds(name string, room *RoomValue, idx int) error {
	if idx < 0 || idx >= len(room.Elems) {
		return errors.Wrapf(ErrIndex, "index %d out of bounds for %s of length %d", idx, name, len(room.Elems))
	}

	return nil
}

func (i *Interpreter) evalRoomAccess(e *RoomAccess) (Value, error) {
	if _, err := i.lookupRoom(e.Name); err != nil {
		return nil, err
	}

	idx, err := i.index(e.Index)
	if err != nil {
		return nil, err
	}

	// A call inside the index swaps the variable map for a restored copy.
	room, err := i.lookupRoom(e.Name)
	if err != nil {
		return nil, err
	}

	if err := checkBounds(e.Name, room, idx); err != nil {
		return nil, err
	}

	return copyValue(room.Elems[idx]), nil
}

func (i *Interpreter) exec(stmt Stmt) (flow, error) {
	i.executed++

	switch s := stmt.(type) {
	case *VariableDecl:
		var val Value = IntValue{0}
		if s.Value != nil {
			var err error
			if val, err = i.eval(s.Value); err != nil {
				return normal, err
			}
		}
		i.env.Set(s.Name, val)
	case *FuncDecl:
		i.env.DefineFunction(&Function{Name: s.Name, Params: s.Params, Body: s.Body})
		i.log.Debug("declare function", "name", s.Name, "params", len(s.Params))
	case *Assignment:
		val, err := i.eval(s.Value)
		if err != nil {
			return normal, err
		}
		i.env.Set(s.Name, val)
	case *ExprStmt:
		if _, err := i.eval(s.Expr); err != nil {
			return normal, err
		}
	case *IfStmt:
		cond, err := i.eval(s.Cond)
		if err != nil {
			return normal, err
		}
		if Truthy(cond) {
			return i.exec(s.Then)
		}
		if s.Else != nil {
			return i.exec(s.Else)
		}
	case *WhileStmt:
		return i.execWhile(s)
	case *ForStmt:
		return i.execFor(s)
	case *BlockStmt:
		for _, child := range s.Statements {
			fl, err := i.exec(child)
			if err != nil || fl.kind != flowNormal {
				return fl, err
			}
		}
	case *ReturnStmt:
		var val Value = IntValue{0}
		if s.Value != nil {
			var err error
			if val, err = i.eval(s.Value); err != nil {
				return normal, err
			}
		}
		return flow{kind: flowReturn, value: val}, nil
	case *BreakStmt:
		return flow{kind: flowBreak}, nil
	case *ContinueStmt:
		return flow{kind: flowContinue}, nil
	case *RoomAssignment:
		return normal, i.execRoomAssignment(s)
	default:
		return normal, errors.Wrapf(ErrInvalidOperation, "unknown statement %T", stmt)
	}

	return normal, nil
}

func (i *Interpreter) execWhile(s *WhileStmt) (flow, error) {
	for {
		cond, err := i.eval(s.Cond)
		if err != nil {
			return normal, err
		}

		if !Truthy(cond) {
			return normal, nil
		}

		fl, err := i.exec(s.Body)
		if err != nil {
			return normal, err
		}

		switch fl.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return fl, nil
		}
	}
}

func (i *Interpreter) execFor(s *ForStmt) (flow, error) {
	iterable, err := i.eval(s.Iterable)
	if err != nil {
		return normal, err
	}

	var items []Value
	switch v := iterable.(type) {
	case *RoomValue:
		items = v.Elems
	case StringValue:
		items = make([]Value, 0, utf8.RuneCountInString(v.Val))
		for _, r := range v.Val {
			items = append(items, StringValue{string(r)})
		}
	default:
		return normal, errors.Wrapf(ErrType, "cannot iterate over %s", kindOf(iterable))
	}

	for _, item := range items {
		i.env.Set(s.Name, copyValue(item))

		fl, err := i.exec(s.Body)
		if err != nil {
			return normal, err
		}

		switch fl.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return fl, nil
		}
	}

	return normal, nil
}

func (i *Interpreter) execRoomAssignment(s *RoomAssignment) error {
	if _, err := i.lookupRoom(s.Name); err != nil {
		return err
	}

	idx, err := i.index(s.Index)
	if err != nil {
		return err
	}

	val, err := i.eval(s.Value)
	if err != nil {
		return err
	}

	// Fetch again: a call while evaluating index or value swaps the variable map.
	room, err := i.lookupRoom(s.Name)
	if err != nil {
		return err
	}

	if err := checkBounds(s.Name, room, idx); err != nil {
		return err
	}

	room.Elems[idx] = val
	return nil
}

func (k flowKind) String() string {
	switch k {
	case flowReturn:
		return "ret"
	case flowBreak:
		return "break"
	case flowContinue:
		return "continue"
	default:
		return "normal"
	}
}
