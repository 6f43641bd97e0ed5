package room

import (
	"strings"
	"testing"

	"go.roomlang.dev/internal/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripLocs drops positions so cases only spell out types and values.
func stripLocs(toks []Token) []Token {
	if toks == nil {
		return nil
	}

	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = Token{Typ: t.Typ, Value: t.Value}
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"func main () {}",
			false,
			[]Token{
				{TokenFunc, "func", nil},
				{TokenIdentifier, "main", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenOpenCurly, "{", nil},
				{TokenCloseCurly, "}", nil},
			},
		},
		{
			"var x = 1 + 2.5 * 3f;",
			false,
			[]Token{
				{TokenVar, "var", nil},
				{TokenIdentifier, "x", nil},
				{TokenEquals, "=", nil},
				{TokenInt, "1", nil},
				{TokenPlus, "+", nil},
				{TokenFloat, "2.5", nil},
				{TokenStar, "*", nil},
				{TokenFloat, "3f", nil},
				{TokenSemicolon, ";", nil},
			},
		},
		{
			"1.2.3",
			false,
			[]Token{
				{TokenFloat, "1.2", nil},
				{TokenInt, "3", nil},
			},
		},
		{
			"NUMS_ROOM[0] _ROOM A_ROOMS",
			false,
			[]Token{
				{TokenRoomIdentifier, "NUMS_ROOM", nil},
				{TokenOpenBracket, "[", nil},
				{TokenInt, "0", nil},
				{TokenCloseBracket, "]", nil},
				{TokenIdentifier, "_ROOM", nil},
				{TokenIdentifier, "A_ROOMS", nil},
			},
		},
		{
			"if then else while for in ret room continue break true false",
			false,
			[]Token{
				{TokenIf, "if", nil},
				{TokenThen, "then", nil},
				{TokenElse, "else", nil},
				{TokenWhile, "while", nil},
				{TokenFor, "for", nil},
				{TokenIn, "in", nil},
				{TokenRet, "ret", nil},
				{TokenRoom, "room", nil},
				{TokenContinue, "continue", nil},
				{TokenBreak, "break", nil},
				{TokenBool, "true", nil},
				{TokenBool, "false", nil},
			},
		},
		{
			"print round floor ceil abs min max sqrt pow len frag printer",
			false,
			[]Token{
				{TokenPrint, "print", nil},
				{TokenRound, "round", nil},
				{TokenFloor, "floor", nil},
				{TokenCeil, "ceil", nil},
				{TokenAbs, "abs", nil},
				{TokenMin, "min", nil},
				{TokenMax, "max", nil},
				{TokenSqrt, "sqrt", nil},
				{TokenPow, "pow", nil},
				{TokenLen, "len", nil},
				{TokenFrag, "frag", nil},
				{TokenIdentifier, "printer", nil},
			},
		},
		{
			"identifier = \"string\"",
			false,
			[]Token{
				{TokenIdentifier, "identifier", nil},
				{TokenEquals, "=", nil},
				{TokenString, "\"string\"", nil},
			},
		},
		{
			"'c' \"\"",
			false,
			[]Token{
				{TokenChar, "'c'", nil},
				{TokenString, "\"\"", nil},
			},
		},
		{
			"a @ # b",
			false,
			[]Token{
				{TokenIdentifier, "a", nil},
				{TokenIdentifier, "b", nil},
			},
		},
		{
			"print(1);\x00print(2);",
			false,
			[]Token{
				{TokenPrint, "print", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenInt, "1", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenSemicolon, ";", nil},
				{TokenPrint, "print", nil},
				{TokenOpenParentheses, "(", nil},
				{TokenInt, "2", nil},
				{TokenCloseParentheses, ")", nil},
				{TokenSemicolon, ";", nil},
			},
		},
		{
			"\"a\x00b\"",
			false,
			[]Token{
				{TokenString, "\"a\x00b\"", nil},
			},
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"'x",
			true,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := Tokenize(c.data, nil)
		if c.fail {
			assert.ErrorIs(t, err, ErrLex, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, stripLocs(toks), c.data)
	}
}

func TestLexerUnterminatedAllowed(t *testing.T) {
	toks, err := Tokenize("print(\"abc", &Options{AllowUnterminatedStrings: true})
	require.NoError(t, err)

	assert.Equal(t, []Token{
		{TokenPrint, "print", nil},
		{TokenOpenParentheses, "(", nil},
		{TokenString, "\"abc", nil},
	}, stripLocs(toks))
}

func TestLexerLocations(t *testing.T) {
	toks, err := Tokenize("var x;\n  ret x;", nil)
	require.NoError(t, err)
	require.Len(t, toks, 6)

	assert.Equal(t, &Location{Line: 1, Col: 1}, toks[0].Loc)
	assert.Equal(t, &Location{Line: 1, Col: 5}, toks[1].Loc)
	assert.Equal(t, &Location{Line: 2, Col: 3}, toks[3].Loc)
	assert.Equal(t, "2:7", toks[4].Loc.String())
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "'('", TokenOpenParentheses.String())
	assert.Equal(t, "'while'", TokenWhile.String())
	assert.Equal(t, "'frag'", TokenFrag.String())
	assert.Equal(t, "RoomIdentifier", TokenRoomIdentifier.String())
	assert.True(t, TokenPrint.IsBuiltin())
	assert.False(t, TokenIdentifier.IsBuiltin())
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := NewLexer(strings.NewReader(data), &Options{AllowUnterminatedStrings: true})

		var err error
		b.StartTimer()

		benchResult, err = l.Run()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
