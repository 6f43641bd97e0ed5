package room

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parser turns a token sequence into a Program. It keeps a single forward cursor
// and never backtracks; two tokens of lookahead are enough to tell assignments from
// expression statements.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse is shorthand for NewParser(tokens).Run().
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens).Run()
}

// ParseString tokenizes and parses src.
func ParseString(src string, opt *Options) (*Program, error) {
	tokens, err := Tokenize(src, opt)
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

// Run parses top-level statements until the tokens are exhausted. Stray statement
// terminators are skipped.
func (p *Parser) Run() (*Program, error) {
	prog := &Program{}

	for !p.check(TokenEOF) {
		if p.consume(TokenSemicolon) {
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		var loc *Location
		if len(p.tokens) > 0 {
			loc = p.tokens[len(p.tokens)-1].Loc
		}

		return Token{Typ: TokenEOF, Loc: loc}
	}

	return p.tokens[p.pos+offset]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.next()
	return true
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	tok := p.peek()
	if tok.Typ != typ {
		return tok, p.errorf(tok, "expected %s, got %s", typ, describe(tok))
	}

	return p.next(), nil
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return errors.Wrapf(ErrParse, "%s: %s", tok.Loc, fmt.Sprintf(format, args...))
}

func describe(tok Token) string {
	if tok.Typ == TokenEOF {
		return "end of input"
	}

	return strconv.Quote(tok.Value)
}

func isName(typ TokenType) bool {
	return typ == TokenIdentifier || typ == TokenRoomIdentifier
}

func (p *Parser) statement() (Stmt, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenVar, TokenRoom:
		return p.varDecl()
	case TokenFunc:
		return p.funcDecl()
	case TokenIf:
		return p.ifStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenFor:
		return p.forStmt()
	case TokenRet:
		return p.returnStmt()
	case TokenBreak:
		p.next()
		_, err := p.expect(TokenSemicolon)
		return &BreakStmt{}, err
	case TokenContinue:
		p.next()
		_, err := p.expect(TokenSemicolon)
		return &ContinueStmt{}, err
	case TokenOpenCurly:
		return p.blockStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) varDecl() (Stmt, error) {
	keyword := p.next() // var or room

	name := p.peek()
	if !isName(name.Typ) {
		return nil, p.errorf(name, "expected identifier after '%s', got %s", keyword.Value, describe(name))
	}
	p.next()

	decl := &VariableDecl{Name: name.Value}
	if p.consume(TokenEquals) {
		value, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		decl.Value = value
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *Parser) funcDecl() (Stmt, error) {
	p.next() // func keyword

	name := p.peek()
	if name.Typ != TokenIdentifier {
		return nil, p.errorf(name, "expected function name, got %s", describe(name))
	}
	p.next()

	if _, err := p.expect(TokenOpenParentheses); err != nil {
		return nil, err
	}

	var params []string
	if !p.check(TokenCloseParentheses) {
		for {
			param := p.peek()
			if !isName(param.Typ) {
				return nil, p.errorf(param, "expected parameter name, got %s", describe(param))
			}

			params = append(params, p.next().Value)

			if !p.consume(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenCloseParentheses); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Name:   name.Value,
		Params: params,
		Body:   body,
	}, nil
}

// parenthesizedCond parses `( expr )` after if/while.
func (p *Parser) parenthesizedCond() (Expr, error) {
	if _, err := p.expect(TokenOpenParentheses); err != nil {
		return nil, err
	}

	cond, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseParentheses); err != nil {
		return nil, err
	}

	return cond, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	p.next() // if keyword

	cond, err := p.parenthesizedCond()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenThen); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond, Then: then}
	if p.consume(TokenElse) {
		if stmt.Else, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	p.next() // while keyword

	cond, err := p.parenthesizedCond()
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) forStmt() (Stmt, error) {
	p.next() // for keyword

	name := p.peek()
	if !isName(name.Typ) {
		return nil, p.errorf(name, "expected loop variable after 'for', got %s", describe(name))
	}
	p.next()

	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}

	iterable, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &ForStmt{Name: name.Value, Iterable: iterable, Body: body}, nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	p.next() // ret keyword

	stmt := &ReturnStmt{}
	if !p.check(TokenSemicolon) {
		value, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		stmt.Value = value
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) blockStmt() (Stmt, error) {
	p.next() // {

	block := &BlockStmt{}
	for tok := p.peek(); tok.Typ != TokenCloseCurly && tok.Typ != TokenEOF; tok = p.peek() {
		if p.consume(TokenSemicolon) {
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	if _, err := p.expect(TokenCloseCurly); err != nil {
		return nil, err
	}

	return block, nil
}

// exprStmt handles `NAME = expr ;`, `ROOM[expr] = expr ;` and bare expression
// statements.
func (p *Parser) exprStmt() (Stmt, error) {
	tok := p.peek()

	if isName(tok.Typ) && p.peekAt(1).Typ == TokenEquals {
		p.next() // Name
		p.next() // =

		value, err := p.expression(0)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}

		return &Assignment{Name: tok.Value, Value: value}, nil
	}

	var expr Expr
	if tok.Typ == TokenRoomIdentifier && p.peekAt(1).Typ == TokenOpenBracket {
		access, err := p.roomAccess()
		if err != nil {
			return nil, err
		}

		if p.consume(TokenEquals) {
			value, err := p.expression(0)
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(TokenSemicolon); err != nil {
				return nil, err
			}

			return &RoomAssignment{Name: access.Name, Index: access.Index, Value: value}, nil
		}

		// Not an assignment after all: keep climbing from the access we already have.
		if expr, err = p.climb(access, 0); err != nil {
			return nil, err
		}
	} else {
		var err error
		if expr, err = p.expression(0); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}

	return &ExprStmt{Expr: expr}, nil
}

// bindingPower returns 0 for tokens that are not binary operators.
func bindingPower(typ TokenType) int {
	switch typ {
	case TokenEquals:
		return 1
	case TokenPlus, TokenMinus:
		return 2
	case TokenStar, TokenSlash:
		return 3
	case TokenCaret:
		return 4
	default:
		return 0
	}
}

func (p *Parser) expression(minPrec int) (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.climb(lhs, minPrec)
}

// climb folds binary operators binding tighter than minPrec onto lhs. Operators
// are left-associative except '^'.
func (p *Parser) climb(lhs Expr, minPrec int) (Expr, error) {
	for {
		op := p.peek()
		prec := bindingPower(op.Typ)
		if prec == 0 || prec <= minPrec {
			return lhs, nil
		}

		p.next()

		next := prec
		if op.Typ == TokenCaret {
			next = prec - 1
		}

		rhs, err := p.expression(next)
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Operation: BinaryOp(op.Value),
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

func (p *Parser) primary() (Expr, error) {
	tok := p.peek()

	switch {
	case tok.Typ == TokenInt:
		p.next()
		n, err := strconv.ParseInt(tok.Value, 10, 32)
		if err != nil {
			return nil, p.errorf(tok, "invalid int literal %s", describe(tok))
		}
		return &IntLiteral{Value: int32(n)}, nil
	case tok.Typ == TokenFloat:
		p.next()
		f, err := strconv.ParseFloat(strings.TrimSuffix(tok.Value, "f"), 32)
		if err != nil {
			return nil, p.errorf(tok, "invalid float literal %s", describe(tok))
		}
		return &FloatLiteral{Value: float32(f)}, nil
	case tok.Typ == TokenString:
		p.next()
		return &StringLiteral{Value: unquote(tok.Value, '"')}, nil
	case tok.Typ == TokenChar:
		p.next()
		return &StringLiteral{Value: unquote(tok.Value, '\'')}, nil
	case tok.Typ == TokenBool:
		p.next()
		return &BoolLiteral{Value: tok.Value == "true"}, nil
	case tok.Typ == TokenIdentifier:
		p.next()
		if p.check(TokenOpenParentheses) {
			return p.funcCall(tok.Value)
		}
		return &Identifier{Name: tok.Value}, nil
	case tok.Typ == TokenRoomIdentifier:
		if p.peekAt(1).Typ == TokenOpenBracket {
			return p.roomAccess()
		}
		p.next()
		return &Identifier{Name: tok.Value}, nil
	case tok.Typ.IsBuiltin():
		p.next()
		if !p.check(TokenOpenParentheses) {
			return nil, p.errorf(p.peek(), "expected '(' after builtin %s, got %s", tok.Value, describe(p.peek()))
		}
		return p.funcCall(tok.Value)
	case tok.Typ == TokenOpenParentheses:
		p.next()
		inner, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenCloseParentheses); err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil
	case tok.Typ == TokenOpenBracket:
		p.next()
		elems, err := p.list(TokenCloseBracket)
		if err != nil {
			return nil, err
		}
		return &RoomLiteral{Elements: elems}, nil
	case tok.Typ == TokenMinus && p.peekAt(1).Typ == TokenInt && p.peekAt(2).Typ != TokenCaret:
		// A negative int literal, so the lowest int32 reads back from its own text.
		p.next()
		digits := p.next()
		n, err := strconv.ParseInt("-"+digits.Value, 10, 32)
		if err != nil {
			return nil, p.errorf(digits, "invalid int literal %s", strconv.Quote("-"+digits.Value))
		}
		return &IntLiteral{Value: int32(n)}, nil
	case tok.Typ == TokenPlus || tok.Typ == TokenMinus:
		// Prefix signs bind at the additive level: -2^2 is -(2^2).
		p.next()
		operand, err := p.expression(bindingPower(tok.Typ))
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operation: UnaryOp(tok.Value), Operand: operand}, nil
	default:
		return nil, p.errorf(tok, "unexpected token %s in expression", describe(tok))
	}
}

func (p *Parser) funcCall(name string) (Expr, error) {
	p.next() // (

	args, err := p.list(TokenCloseParentheses)
	if err != nil {
		return nil, err
	}

	return &FuncCall{Name: name, Args: args}, nil
}

func (p *Parser) roomAccess() (*RoomAccess, error) {
	name := p.next()
	p.next() // [

	index, err := p.expression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenCloseBracket); err != nil {
		return nil, err
	}

	return &RoomAccess{Name: name.Value, Index: index}, nil
}

// list parses comma-separated expressions up to and including closer.
func (p *Parser) list(closer TokenType) ([]Expr, error) {
	var exprs []Expr

	if !p.check(closer) {
		for {
			expr, err := p.expression(0)
			if err != nil {
				return nil, err
			}

			exprs = append(exprs, expr)

			if !p.consume(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(closer); err != nil {
		return nil, err
	}

	return exprs, nil
}

// unquote strips the surrounding quotes of a literal lexeme. An unterminated
// lexeme only loses its opening quote.
func unquote(lexeme string, quote byte) string {
	if len(lexeme) == 0 || lexeme[0] != quote {
		return lexeme
	}

	lexeme = lexeme[1:]
	if len(lexeme) > 0 && lexeme[len(lexeme)-1] == quote {
		lexeme = lexeme[:len(lexeme)-1]
	}

	return lexeme
}
