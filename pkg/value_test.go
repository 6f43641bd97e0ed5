package room

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		value  Value
		expect string
	}{
		{IntValue{42}, "42"},
		{IntValue{-3}, "-3"},
		{FloatValue{8}, "8.0"},
		{FloatValue{3.5}, "3.5"},
		{FloatValue{-0.25}, "-0.25"},
		{FloatValue{float32(math.Inf(1))}, "+Inf"},
		{StringValue{"hi"}, "\"hi\""},
		{StringValue{""}, "\"\""},
		{StringValue{"a\"b"}, "'a\"b'"},
		{StringValue{"it's"}, "\"it's\""},
		{StringValue{"\"it's\""}, "\"\"it's\"\""},
		{BoolValue{true}, "true"},
		{BoolValue{false}, "false"},
		{roomOf(), "[]"},
		{roomOf(IntValue{1}, FloatValue{2}, StringValue{"x"}, roomOf(BoolValue{true})), "[1, 2.0, \"x\", [true]]"},
		{nil, "<nil>"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, Text(c.value))
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(IntValue{0}))
	assert.True(t, Truthy(IntValue{-1}))
	assert.False(t, Truthy(FloatValue{0}))
	assert.True(t, Truthy(FloatValue{0.001}))
	assert.False(t, Truthy(StringValue{""}))
	assert.True(t, Truthy(StringValue{"0"}))
	assert.False(t, Truthy(BoolValue{false}))
	assert.False(t, Truthy(roomOf()))
	assert.True(t, Truthy(roomOf(IntValue{0})))
	assert.False(t, Truthy(nil))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IntValue{1}, IntValue{1}))
	assert.False(t, Equal(IntValue{1}, FloatValue{1}))
	assert.True(t, Equal(StringValue{"a"}, StringValue{"a"}))
	assert.True(t, Equal(roomOf(IntValue{1}, roomOf()), roomOf(IntValue{1}, roomOf())))
	assert.False(t, Equal(roomOf(IntValue{1}), roomOf(IntValue{2})))
	assert.False(t, Equal(roomOf(IntValue{1}), roomOf(IntValue{1}, IntValue{1})))
	assert.False(t, Equal(roomOf(), IntValue{0}))
	assert.False(t, Equal(nil, nil))
}

func TestRoomClone(t *testing.T) {
	inner := roomOf(IntValue{1})
	orig := roomOf(inner, StringValue{"s"})

	clone := orig.Clone()
	assert.True(t, Equal(orig, clone))

	inner.Elems[0] = IntValue{2}
	clone.Elems[1] = StringValue{"t"}

	assert.Equal(t, "[[2], \"s\"]", Text(orig))
	assert.Equal(t, "[[1], \"t\"]", Text(clone))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "room", roomOf().Kind().String())
	assert.Equal(t, "unknown_kind_9", Kind(9).String())
}
