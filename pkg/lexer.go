package room

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	// EOF is what peek and next report once input runs out. No source rune has
	// this value, so a NUL byte is lexed like any other unknown character.
	EOF rune = -1

	TokenEOF TokenType = iota

	// Literals
	TokenInt
	TokenFloat
	TokenString
	TokenChar
	TokenBool

	TokenIdentifier
	TokenRoomIdentifier

	// Keywords
	TokenIf
	TokenThen
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenRet
	TokenRoom
	TokenVar
	TokenFunc
	TokenContinue
	TokenBreak

	// Operators
	TokenPlus
	TokenMinus
	TokenEquals
	TokenStar
	TokenSlash
	TokenCaret

	// Separators
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
	TokenComma
	TokenSemicolon
	TokenColon

	// Builtin function names
	TokenPrint
	TokenRound
	TokenFloor
	TokenCeil
	TokenAbs
	TokenMin
	TokenMax
	TokenSqrt
	TokenPow
	TokenLen
	TokenFrag
)

// roomSuffix marks identifiers that name rooms (arrays).
const roomSuffix = "_ROOM"

var keywordTable = map[string]TokenType{
	"if":       TokenIf,
	"then":     TokenThen,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"in":       TokenIn,
	"ret":      TokenRet,
	"room":     TokenRoom,
	"var":      TokenVar,
	"func":     TokenFunc,
	"continue": TokenContinue,
	"break":    TokenBreak,
	"true":     TokenBool,
	"false":    TokenBool,
}

var builtinTable = map[string]TokenType{
	"print": TokenPrint,
	"round": TokenRound,
	"floor": TokenFloor,
	"ceil":  TokenCeil,
	"abs":   TokenAbs,
	"min":   TokenMin,
	"max":   TokenMax,
	"sqrt":  TokenSqrt,
	"pow":   TokenPow,
	"len":   TokenLen,
	"frag":  TokenFrag,
}

var operatorTable = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'=': TokenEquals,
	'*': TokenStar,
	'/': TokenSlash,
	'^': TokenCaret,
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
	'{': TokenOpenCurly,
	'}': TokenCloseCurly,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	',': TokenComma,
	';': TokenSemicolon,
	':': TokenColon,
}

var tokenNames = map[TokenType]string{
	TokenEOF:              "EOF",
	TokenInt:              "Int",
	TokenFloat:            "Float",
	TokenString:           "String",
	TokenChar:             "Char",
	TokenBool:             "Bool",
	TokenIdentifier:       "Identifier",
	TokenRoomIdentifier:   "RoomIdentifier",
	TokenPlus:             "'+'",
	TokenMinus:            "'-'",
	TokenEquals:           "'='",
	TokenStar:             "'*'",
	TokenSlash:            "'/'",
	TokenCaret:            "'^'",
	TokenOpenParentheses:  "'('",
	TokenCloseParentheses: "')'",
	TokenOpenCurly:        "'{'",
	TokenCloseCurly:       "'}'",
	TokenOpenBracket:      "'['",
	TokenCloseBracket:     "']'",
	TokenComma:            "','",
	TokenSemicolon:        "';'",
	TokenColon:            "':'",
}

func init() {
	for word, typ := range keywordTable {
		if typ != TokenBool {
			tokenNames[typ] = "'" + word + "'"
		}
	}

	for word, typ := range builtinTable {
		tokenNames[typ] = "'" + word + "'"
	}
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Token(%d)", uint64(t))
}

// IsBuiltin reports whether t is one of the reserved builtin function names.
func (t TokenType) IsBuiltin() bool {
	return t >= TokenPrint && t <= TokenFrag
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

// Lexer turns source text into tokens in a single forward pass.
type Lexer struct {
	reader *bufio.Reader
	opt    Options

	line, col int
	start     *Location
	tokens    []Token
	err       error
}

func NewLexer(reader io.Reader, opt *Options) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		opt:    opt.normalize(),
		line:   1,
	}
}

// Tokenize lexes a whole source string.
func Tokenize(src string, opt *Options) ([]Token, error) {
	return NewLexer(strings.NewReader(src), opt).Run()
}

// Run drives the state machine until the input is exhausted. Characters that match no
// rule are skipped.
func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9':
			return numberState
		case r == '"':
			return stringState
		case r == '\'':
			return charState
		case unicode.IsLetter(r) || r == '_':
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	l.mark()

	var num strings.Builder
	hasDot := false
	for r := l.peek(); isDigit(r) || (r == '.' && !hasDot); r = l.peek() {
		if r == '.' {
			hasDot = true
		}

		num.WriteRune(l.next())
	}

	typ := TokenInt
	if hasDot {
		typ = TokenFloat
	}

	if l.peek() == 'f' {
		num.WriteRune(l.next())
		typ = TokenFloat
	}

	return l.emitValue(typ, num.String())
}

func stringState(l *Lexer) stateFunc {
	return l.quoted(TokenString, '"')
}

func charState(l *Lexer) stateFunc {
	return l.quoted(TokenChar, '\'')
}

// quoted scans a literal up to the matching closing quote. The lexeme keeps both quotes.
func (l *Lexer) quoted(typ TokenType, quote rune) stateFunc {
	l.mark()

	var str strings.Builder
	str.WriteRune(l.next()) // Opening quote

	for r := l.next(); r != quote; r = l.next() {
		if r == EOF {
			if l.opt.AllowUnterminatedStrings {
				return l.emitValue(typ, str.String())
			}

			return l.errorf("unterminated literal %s", str.String())
		}

		str.WriteRune(r)
	}

	str.WriteRune(quote)
	return l.emitValue(typ, str.String())
}

func identifierState(l *Lexer) stateFunc {
	l.mark()

	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	word := id.String()
	if len(word) > len(roomSuffix) && strings.HasSuffix(word, roomSuffix) {
		return l.emitValue(TokenRoomIdentifier, word)
	}

	if t, ok := keywordTable[word]; ok {
		return l.emitValue(t, word)
	}

	if t, ok := builtinTable[word]; ok {
		return l.emitValue(t, word)
	}

	return l.emitValue(TokenIdentifier, word)
}

func operatorState(l *Lexer) stateFunc {
	l.mark()

	r := l.next()
	if tok, ok := operatorTable[r]; ok {
		return l.emitValue(tok, string(r))
	}

	return defaultState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.err = errors.Wrapf(ErrLex, "%s: "+format, append([]interface{}{l.start}, args...)...)
	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.tokens = append(l.tokens, Token{
		Typ:   t,
		Value: val,
		Loc:   l.start,
	})

	return defaultState
}

// mark records the position of the token about to be scanned.
func (l *Lexer) mark() {
	l.start = &Location{Line: l.line, Col: l.col + 1}
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = errors.Wrap(err, "read source")
		}

		return EOF
	}

	_ = l.reader.UnreadRune()
	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = errors.Wrap(err, "read source")
		}

		return EOF
	}

	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
