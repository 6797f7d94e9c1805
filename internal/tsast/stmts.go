package tsast

// Stmt is an executable statement.
type Stmt interface {
	Node
	stmtNode()
}

// VarKind is the declaration keyword of a variable statement.
type VarKind int

const (
	VarConst VarKind = iota
	VarLet
	VarVar
)

func (k VarKind) String() string {
	switch k {
	case VarConst:
		return "const"
	case VarLet:
		return "let"
	}
	return "var"
}

// Block is { ... }.
type Block struct {
	Pos
	Stmts []Stmt
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Pos
	X Expr
}

// VarDeclarator is one `name: Type = init` entry.
type VarDeclarator struct {
	Pos
	Name string
	Type Type
	Init Expr
}

// VarStmt is a const/let/var statement.
type VarStmt struct {
	Pos
	Kind  VarKind
	Decls []*VarDeclarator
}

// If is if/else.
type If struct {
	Pos
	Cond Expr
	Then Stmt
	Else Stmt
}

// For is a C-style for loop. Init is a *VarStmt, an *ExprStmt or nil.
type For struct {
	Pos
	Init   Stmt
	Cond   Expr
	Update Expr
	Body   Stmt
}

// ForOf is for (const x of xs).
type ForOf struct {
	Pos
	Kind VarKind
	Name string
	X    Expr
	Body Stmt
}

// ForIn is for (const k in obj).
type ForIn struct {
	Pos
	Kind VarKind
	Name string
	X    Expr
	Body Stmt
}

// While is while (cond) body.
type While struct {
	Pos
	Cond Expr
	Body Stmt
}

// DoWhile is do body while (cond).
type DoWhile struct {
	Pos
	Body Stmt
	Cond Expr
}

// Return is return [x].
type Return struct {
	Pos
	X Expr
}

// Break is break [label].
type Break struct {
	Pos
	Label string
}

// Continue is continue [label].
type Continue struct {
	Pos
	Label string
}

// Throw is throw x.
type Throw struct {
	Pos
	X Expr
}

// Try is try/catch/finally. Catch and Finally may be nil.
type Try struct {
	Pos
	Body       *Block
	CatchParam string
	CatchType  Type
	Catch      *Block
	Finally    *Block
}

// Case is one switch clause; Test is nil for default.
type Case struct {
	Pos
	Test Expr
	Body []Stmt
}

// Switch is switch (tag) { cases }.
type Switch struct {
	Pos
	Tag   Expr
	Cases []*Case
}

// FuncStmt is a function declaration nested in a block.
type FuncStmt struct {
	Pos
	Func *FunctionDecl
}

// Empty is a lone semicolon.
type Empty struct {
	Pos
}

// UnmodeledStmt keeps the text of a statement the tree does not model.
type UnmodeledStmt struct {
	Pos
	Kind string
	Text string
}

func (*Block) stmtNode()         {}
func (*ExprStmt) stmtNode()      {}
func (*VarStmt) stmtNode()       {}
func (*If) stmtNode()            {}
func (*For) stmtNode()           {}
func (*ForOf) stmtNode()         {}
func (*ForIn) stmtNode()         {}
func (*While) stmtNode()         {}
func (*DoWhile) stmtNode()       {}
func (*Return) stmtNode()        {}
func (*Break) stmtNode()         {}
func (*Continue) stmtNode()      {}
func (*Throw) stmtNode()         {}
func (*Try) stmtNode()           {}
func (*Switch) stmtNode()        {}
func (*FuncStmt) stmtNode()      {}
func (*Empty) stmtNode()         {}
func (*UnmodeledStmt) stmtNode() {}
