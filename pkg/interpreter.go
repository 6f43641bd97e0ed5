package room

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
)

// Result describes how a program finished. Returned is set when a top-level ret
// stopped execution early; Value then holds the returned value.
type Result struct {
	Returned bool
	Value    Value
}

// Interpreter executes programs by walking the tree directly. One Interpreter runs
// one program at a time; it is not safe for concurrent use.
type Interpreter struct {
	opt      Options
	log      *slog.Logger
	env      *Environment
	builtins *Builtins

	depth    int
	executed int
}

func NewInterpreter(opt *Options) *Interpreter {
	o := opt.normalize()

	return &Interpreter{
		opt:      o,
		log:      o.Logger,
		env:      NewEnvironment(),
		builtins: NewBuiltins(o.Stdout),
	}
}

// Run tokenizes, parses and executes src with a fresh interpreter.
func Run(src string, opt *Options) (Result, error) {
	return NewInterpreter(opt).RunString(src)
}

// RunFile is Run for a program stored on disk.
func RunFile(filename string, opt *Options) (Result, error) {
	return NewInterpreter(opt).RunFile(filename)
}

func (i *Interpreter) RunFile(filename string) (Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Result{}, errors.Wrap(err, "open source")
	}
	defer f.Close()

	return i.RunReader(f)
}

func (i *Interpreter) RunReader(reader io.Reader) (Result, error) {
	tokens, err := NewLexer(reader, &i.opt).Run()
	if err != nil {
		return Result{}, err
	}

	prog, err := Parse(tokens)
	if err != nil {
		return Result{}, err
	}

	return i.Execute(prog)
}

func (i *Interpreter) RunString(src string) (Result, error) {
	prog, err := ParseString(src, &i.opt)
	if err != nil {
		return Result{}, err
	}

	return i.Execute(prog)
}

// Execute runs prog top to bottom against a fresh environment. Output already
// written by print stays written when an error stops the run.
func (i *Interpreter) Execute(prog *Program) (Result, error) {
	i.env = NewEnvironment()
	i.depth = 0
	i.executed = 0

	defer func() {
		i.log.Debug("program finished", "statements", i.executed, "variables", len(i.env.vars))
	}()

	for _, stmt := range prog.Statements {
		fl, err := i.exec(stmt)
		if err != nil {
			return Result{}, err
		}

		switch fl.kind {
		case flowReturn:
			i.log.Debug("return at top level", "value", Text(fl.value))
			return Result{Returned: true, Value: fl.value}, nil
		case flowBreak, flowContinue:
			return Result{}, errors.Wrapf(ErrInvalidOperation, "%s outside of a loop", fl.kind)
		}
	}

	return Result{}, nil
}

// Variables returns the variable namespace left by the last run, sorted by name.
func (i *Interpreter) Variables() []Binding {
	return i.env.Variables()
}

func (i *Interpreter) Builtins() *Builtins {
	return i.builtins
}
