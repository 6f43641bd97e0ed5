package room

import "sort"

// Function is a user function definition. Body points into the Program that
// declared it and is never copied.
type Function struct {
	Name   string
	Params []string
	Body   Stmt
}

// Environment holds the two flat namespaces of one program run: variables and
// functions. A name may be bound in both at once.
type Environment struct {
	vars  map[string]Value
	funcs map[string]*Function
}

// Checkpoint is a saved copy of the variable namespace.
type Checkpoint struct {
	vars map[string]Value
}

// Binding is one entry of a variable dump.
type Binding struct {
	Name  string
	Value Value
}

func NewEnvironment() *Environment {
	return &Environment{
		vars:  make(map[string]Value),
		funcs: make(map[string]*Function),
	}
}

func (e *Environment) Get(name string) (Value, bool) {
	val, ok := e.vars[name]
	return val, ok
}

// Set binds or rebinds a variable.
func (e *Environment) Set(name string, val Value) {
	e.vars[name] = val
}

func (e *Environment) DefineFunction(f *Function) {
	e.funcs[f.Name] = f
}

func (e *Environment) Function(name string) (*Function, bool) {
	f, ok := e.funcs[name]
	return f, ok
}

// Checkpoint deep-copies the variable namespace. Rooms are cloned so that in-place
// element writes made after the checkpoint cannot reach it.
func (e *Environment) Checkpoint() Checkpoint {
	saved := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		saved[k] = copyValue(v)
	}

	return Checkpoint{vars: saved}
}

// Restore discards every variable change made since cp was taken. A checkpoint
// must be restored at most once.
func (e *Environment) Restore(cp Checkpoint) {
	e.vars = cp.vars
}

// Variables returns the variable namespace sorted by name.
func (e *Environment) Variables() []Binding {
	out := make([]Binding, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, Binding{Name: k, Value: v})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
