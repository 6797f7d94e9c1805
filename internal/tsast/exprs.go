package tsast

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Ident is an identifier reference.
type Ident struct {
	Pos
	Name string
}

// NumberLit is a numeric literal kept as written.
type NumberLit struct {
	Pos
	Text string
}

// StringLit is a string literal; Value is the decoded content.
type StringLit struct {
	Pos
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	Pos
	Value bool
}

// NullLit is null.
type NullLit struct{ Pos }

// UndefinedLit is undefined.
type UndefinedLit struct{ Pos }

// ThisExpr is this.
type ThisExpr struct{ Pos }

// SuperExpr is super.
type SuperExpr struct{ Pos }

// TemplateLit is `q0${e0}q1${e1}q2`; len(Quasis) == len(Exprs)+1 and quasis are decoded.
type TemplateLit struct {
	Pos
	Quasis []string
	Exprs  []Expr
}

// ArrayLit is [a, b, ...c].
type ArrayLit struct {
	Pos
	Elems []Expr
}

// ObjectProp is one entry of an object literal. Spread entries carry the
// spread operand in Value and an empty Key.
type ObjectProp struct {
	Pos
	Key       string
	Value     Expr
	Shorthand bool
	Spread    bool
}

// ObjectLit is { a: 1, b }.
type ObjectLit struct {
	Pos
	Props []*ObjectProp
}

// Binary is L op R, including comparison, logical and nullish operators.
type Binary struct {
	Pos
	Op string
	L  Expr
	R  Expr
}

// Unary is op X (!, -, +, ~, typeof, void, delete).
type Unary struct {
	Pos
	Op string
	X  Expr
}

// Update is ++/-- in prefix or postfix position.
type Update struct {
	Pos
	Op     string
	Prefix bool
	X      Expr
}

// Assign is L op R for =, +=, **=, ??= and friends.
type Assign struct {
	Pos
	Op string
	L  Expr
	R  Expr
}

// Conditional is cond ? then : else.
type Conditional struct {
	Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Call is callee<TypeArgs>(args); Optional marks callee?.(args).
type Call struct {
	Pos
	Callee   Expr
	TypeArgs []Type
	Args     []Expr
	Optional bool
}

// New is new Callee<TypeArgs>(args).
type New struct {
	Pos
	Callee   Expr
	TypeArgs []Type
	Args     []Expr
}

// Member is X.Name; Optional marks X?.Name.
type Member struct {
	Pos
	X        Expr
	Name     string
	Optional bool
}

// Index is X[Index]; Optional marks X?.[Index].
type Index struct {
	Pos
	X        Expr
	Index    Expr
	Optional bool
}

// Arrow is an arrow function; exactly one of BodyExpr and BodyBlock is set.
type Arrow struct {
	Pos
	Params    []*Param
	Returns   Type
	BodyExpr  Expr
	BodyBlock *Block
	Async     bool
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Pos
	Name    string
	Params  []*Param
	Returns Type
	Body    *Block
	Async   bool
}

// Paren is (X).
type Paren struct {
	Pos
	X Expr
}

// NonNull is X!.
type NonNull struct {
	Pos
	X Expr
}

// As is X as Type.
type As struct {
	Pos
	X    Expr
	Type Type
}

// Satisfies is X satisfies Type.
type Satisfies struct {
	Pos
	X    Expr
	Type Type
}

// Spread is ...X inside array literals and argument lists.
type Spread struct {
	Pos
	X Expr
}

// Await is await X.
type Await struct {
	Pos
	X Expr
}

// Unmodeled keeps the text of an expression the tree does not model.
type Unmodeled struct {
	Pos
	Kind string
	Text string
}

func (*Ident) exprNode()        {}
func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*UndefinedLit) exprNode() {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*TemplateLit) exprNode()  {}
func (*ArrayLit) exprNode()     {}
func (*ObjectLit) exprNode()    {}
func (*Binary) exprNode()       {}
func (*Unary) exprNode()        {}
func (*Update) exprNode()       {}
func (*Assign) exprNode()       {}
func (*Conditional) exprNode()  {}
func (*Call) exprNode()         {}
func (*New) exprNode()          {}
func (*Member) exprNode()       {}
func (*Index) exprNode()        {}
func (*Arrow) exprNode()        {}
func (*FuncExpr) exprNode()     {}
func (*Paren) exprNode()        {}
func (*NonNull) exprNode()      {}
func (*As) exprNode()           {}
func (*Satisfies) exprNode()    {}
func (*Spread) exprNode()       {}
func (*Await) exprNode()        {}
func (*Unmodeled) exprNode()    {}
