package room

// Program is the root of the tree. It owns every node below it; function
// definitions recorded at run time only point into it.
type Program struct {
	Statements []Stmt
}

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
}

// Stmt is implemented by every node that produces an effect.
type Stmt interface {
	stmtNode()
}

type IntLiteral struct {
	Value int32
}

type FloatLiteral struct {
	Value float32
}

type StringLiteral struct {
	Value string
}

type BoolLiteral struct {
	Value bool
}

type Identifier struct {
	Name string
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryExponent       BinaryOp = "^"
	BinaryAssignment     BinaryOp = "="
)

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type UnaryOp string

const (
	UnaryPositive UnaryOp = "+"
	UnaryNegative UnaryOp = "-"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
}

type ParenExpr struct {
	Inner Expr
}

type FuncCall struct {
	Name string
	Args []Expr
}

type RoomLiteral struct {
	Elements []Expr
}

// RoomAccess reads one element of the room bound to Name.
type RoomAccess struct {
	Name  string
	Index Expr
}

func (*IntLiteral) exprNode()    {}
func (*FloatLiteral) exprNode()  {}
func (*StringLiteral) exprNode() {}
func (*BoolLiteral) exprNode()   {}
func (*Identifier) exprNode()    {}
func (*BinaryExpr) exprNode()    {}
func (*UnaryExpr) exprNode()     {}
func (*ParenExpr) exprNode()     {}
func (*FuncCall) exprNode()      {}
func (*RoomLiteral) exprNode()   {}
func (*RoomAccess) exprNode()    {}

// VariableDecl covers both `var` and `room` declarations. Value is nil when no
// initializer was given.
type VariableDecl struct {
	Name  string
	Value Expr
}

type Assignment struct {
	Name  string
	Value Expr
}

type ExprStmt struct {
	Expr Expr
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// ForStmt iterates the elements of a room or the runes of a string.
type ForStmt struct {
	Name     string
	Iterable Expr
	Body     Stmt
}

type BlockStmt struct {
	Statements []Stmt
}

type ReturnStmt struct {
	Value Expr
}

type BreakStmt struct{}

type ContinueStmt struct{}

type FuncDecl struct {
	Name   string
	Params []string
	Body   Stmt
}

type RoomAssignment struct {
	Name  string
	Index Expr
	Value Expr
}

func (*VariableDecl) stmtNode()   {}
func (*Assignment) stmtNode()     {}
func (*ExprStmt) stmtNode()       {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*ForStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*FuncDecl) stmtNode()       {}
func (*RoomAssignment) stmtNode() {}
