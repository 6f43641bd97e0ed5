package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentCheckpointRestore(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", IntValue{1})
	env.Set("R_ROOM", roomOf(IntValue{1}, IntValue{2}))

	cp := env.Checkpoint()

	env.Set("x", IntValue{99})
	env.Set("fresh", BoolValue{true})
	r, ok := env.Get("R_ROOM")
	require.True(t, ok)
	r.(*RoomValue).Elems[0] = IntValue{100}

	env.Restore(cp)

	assert.Equal(t, []Binding{
		{Name: "R_ROOM", Value: roomOf(IntValue{1}, IntValue{2})},
		{Name: "x", Value: IntValue{1}},
	}, env.Variables())

	_, ok = env.Get("fresh")
	assert.False(t, ok)
}

func TestEnvironmentNestedCheckpoints(t *testing.T) {
	env := NewEnvironment()
	env.Set("n", IntValue{0})

	outer := env.Checkpoint()
	env.Set("n", IntValue{1})

	inner := env.Checkpoint()
	env.Set("n", IntValue{2})
	env.Restore(inner)

	v, _ := env.Get("n")
	assert.Equal(t, IntValue{1}, v)

	env.Restore(outer)

	v, _ = env.Get("n")
	assert.Equal(t, IntValue{0}, v)
}

func TestEnvironmentFunctionsSurviveRestore(t *testing.T) {
	env := NewEnvironment()
	cp := env.Checkpoint()

	env.DefineFunction(&Function{Name: "f", Params: []string{"a"}})
	env.Set("f", IntValue{3})
	env.Restore(cp)

	f, ok := env.Function("f")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, f.Params)

	_, ok = env.Get("f")
	assert.False(t, ok)
}
