package room

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Every failure raised by the lexer, parser, evaluator or the builtin
// catalog wraps exactly one of these, so callers classify with errors.Is.
var (
	ErrLex              = errors.New("lex error")
	ErrParse            = errors.New("parse error")
	ErrName             = errors.New("name error")
	ErrType             = errors.New("type error")
	ErrArity            = errors.New("arity error")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrDomain           = errors.New("domain error")
	ErrIndex            = errors.New("index error")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrRecursionLimit   = errors.New("recursion limit exceeded")
)

// Location is a 1-based position inside the source text.
type Location struct {
	Line int
	Col  int
}

func (l *Location) String() string {
	if l == nil {
		return "?:?"
	}

	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}
