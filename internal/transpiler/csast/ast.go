package csast

// File is one generated C# compilation unit.
type File struct {
	Header    []string
	Usings    []string
	Namespace string
	Decls     []Decl
}

// Decl is a type declaration.
type Decl interface {
	declNode()
}

// Member is a member of a class, struct or interface.
type Member interface {
	memberNode()
}

// Attribute is [Name(args)].
type Attribute struct {
	Name string
	Args []Expr
}

// Modifiers are declaration modifiers, printed in C# conventional order.
type Modifiers struct {
	Access   string
	Static   bool
	Const    bool
	Abstract bool
	Virtual  bool
	Override bool
	Sealed   bool
	Readonly bool
	Async    bool
	Partial  bool
}

// TypeKind selects class, struct or interface.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindInterface
)

func (k TypeKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	}
	return "class"
}

// TypeDecl is a class, struct or interface declaration.
type TypeDecl struct {
	Attributes []*Attribute
	Modifiers  Modifiers
	Kind       TypeKind
	Name       string
	TypeParams []string
	Bases      []Type
	Members    []Member
}

// EnumMember is Name [= Value].
type EnumMember struct {
	Name  string
	Value Expr
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Attributes []*Attribute
	Modifiers  Modifiers
	Name       string
	Members    []*EnumMember
}

func (*TypeDecl) declNode() {}
func (*EnumDecl) declNode() {}

// FieldDecl is a field.
type FieldDecl struct {
	Attributes []*Attribute
	Modifiers  Modifiers
	Type       Type
	Name       string
	Init       Expr
}

// Accessor is a get or set accessor; a nil Body is an auto accessor.
type Accessor struct {
	Access string
	Body   *Block
}

// PropertyDecl is a property. ExprBody produces `=> expr;`; otherwise the
// accessors are printed, followed by an optional initializer.
type PropertyDecl struct {
	Attributes []*Attribute
	Modifiers  Modifiers
	Type       Type
	Name       string
	Getter     *Accessor
	Setter     *Accessor
	ExprBody   Expr
	Init       Expr
}

// Param is a method parameter; a nil Type is only valid in lambdas.
type Param struct {
	Type    Type
	Name    string
	Default Expr
	Params  bool
}

// MethodDecl is a method; a nil Body prints as a signature.
type MethodDecl struct {
	Attributes []*Attribute
	Modifiers  Modifiers
	Returns    Type
	Name       string
	TypeParams []string
	Params     []*Param
	Body       *Block
}

// CtorInitializer is `: base(args)` or `: this(args)`.
type CtorInitializer struct {
	Keyword string
	Args    []Expr
}

// CtorDecl is a constructor; static constructors set Modifiers.Static.
type CtorDecl struct {
	Modifiers   Modifiers
	Name        string
	Params      []*Param
	Initializer *CtorInitializer
	Body        *Block
}

// CommentMember is a line comment inside a type body.
type CommentMember struct {
	Text string
}

func (*FieldDecl) memberNode()     {}
func (*PropertyDecl) memberNode()  {}
func (*MethodDecl) memberNode()    {}
func (*CtorDecl) memberNode()      {}
func (*CommentMember) memberNode() {}
func (*TypeDecl) memberNode()      {}
func (*EnumDecl) memberNode()      {}

// Stmt is a statement.
type Stmt interface {
	stmtNode()
}

// Block is { stmts }.
type Block struct {
	Stmts []Stmt
}

// ExprStmt is expr;.
type ExprStmt struct {
	X Expr
}

// LocalDecl is `Type name = init;`; a nil Type prints as var.
type LocalDecl struct {
	Type Type
	Name string
	Init Expr
}

// If is if (cond) then [else ...]; Else is a *Block or *If.
type If struct {
	Cond Expr
	Then *Block
	Else Stmt
}

// While is while (cond) body.
type While struct {
	Cond Expr
	Body *Block
}

// DoWhile is do body while (cond);.
type DoWhile struct {
	Body *Block
	Cond Expr
}

// For is for (init; cond; updates) body.
type For struct {
	Init    Stmt
	Cond    Expr
	Updates []Expr
	Body    *Block
}

// Foreach is foreach (Type name in x) body; a nil Type prints as var.
type Foreach struct {
	Type Type
	Name string
	X    Expr
	Body *Block
}

// Return is return [x];.
type Return struct {
	X Expr
}

// Break is break;.
type Break struct{}

// Continue is continue;.
type Continue struct{}

// Throw is throw [x];.
type Throw struct {
	X Expr
}

// Catch is catch (Type name) body; a nil Type prints as a bare catch.
type Catch struct {
	Type Type
	Name string
	Body *Block
}

// Try is try/catch/finally.
type Try struct {
	Body    *Block
	Catches []*Catch
	Finally *Block
}

// SwitchSection groups case labels; a nil label is default.
type SwitchSection struct {
	Labels []Expr
	Body   []Stmt
}

// Switch is switch (tag) { sections }.
type Switch struct {
	Tag      Expr
	Sections []*SwitchSection
}

// LocalFunc is a local function.
type LocalFunc struct {
	Method *MethodDecl
}

// Comment is a line comment.
type Comment struct {
	Text string
}

// RawStmt is statement text passed through verbatim.
type RawStmt struct {
	Text string
}

func (*Block) stmtNode()     {}
func (*ExprStmt) stmtNode()  {}
func (*LocalDecl) stmtNode() {}
func (*If) stmtNode()        {}
func (*While) stmtNode()     {}
func (*DoWhile) stmtNode()   {}
func (*For) stmtNode()       {}
func (*Foreach) stmtNode()   {}
func (*Return) stmtNode()    {}
func (*Break) stmtNode()     {}
func (*Continue) stmtNode()  {}
func (*Throw) stmtNode()     {}
func (*Try) stmtNode()       {}
func (*Switch) stmtNode()    {}
func (*LocalFunc) stmtNode() {}
func (*Comment) stmtNode()   {}
func (*RawStmt) stmtNode()   {}

// Expr is an expression.
type Expr interface {
	exprNode()
}

// Ident is a name.
type Ident struct {
	Name string
}

// Literal is a token printed as-is: numerals, true, false, null, default.
type Literal struct {
	Text string
}

// StringLit is a regular string literal; Value is unescaped.
type StringLit struct {
	Value string
}

// InterpPart is literal text or a hole of an interpolated string.
type InterpPart struct {
	Text string
	X    Expr
}

// Interpolated is $"...{x}...".
type Interpolated struct {
	Parts []InterpPart
}

// Binary is L op R.
type Binary struct {
	Op string
	L  Expr
	R  Expr
}

// Unary is op X.
type Unary struct {
	Op string
	X  Expr
}

// Postfix is X op.
type Postfix struct {
	Op string
	X  Expr
}

// Assign is L op R.
type Assign struct {
	Op string
	L  Expr
	R  Expr
}

// Conditional is cond ? then : else.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Call is fun<TypeArgs>(args).
type Call struct {
	Fun      Expr
	TypeArgs []Type
	Args     []Expr
}

// Selector is X.Name or X?.Name.
type Selector struct {
	X           Expr
	Name        string
	Conditional bool
}

// Index is X[i] or X?[i].
type Index struct {
	X           Expr
	Index       Expr
	Conditional bool
}

// MemberInit is Name = Value inside an object initializer.
type MemberInit struct {
	Name  string
	Value Expr
}

// New is new Type(args) { inits }; a nil Type prints an anonymous object.
type New struct {
	Type  Type
	Args  []Expr
	Inits []*MemberInit
}

// Lambda is (params) => body; exactly one of BodyExpr and BodyBlock is set.
type Lambda struct {
	Params    []*Param
	BodyExpr  Expr
	BodyBlock *Block
	Async     bool
}

// Cast is (Type)X.
type Cast struct {
	Type Type
	X    Expr
}

// Is is X is Type.
type Is struct {
	X    Expr
	Type Type
}

// Paren is (X).
type Paren struct {
	X Expr
}

// SuppressNull is X!.
type SuppressNull struct {
	X Expr
}

// CollectionExpr is [a, ..b].
type CollectionExpr struct {
	Elems []Expr
}

// Spread is ..X inside a collection expression.
type Spread struct {
	X Expr
}

// Await is await X.
type Await struct {
	X Expr
}

// TypeRef uses a type in expression position (static member access, typeof).
type TypeRef struct {
	Type Type
}

// Raw is expression text passed through verbatim.
type Raw struct {
	Text string
}

func (*Ident) exprNode()          {}
func (*Literal) exprNode()        {}
func (*StringLit) exprNode()      {}
func (*Interpolated) exprNode()   {}
func (*Binary) exprNode()         {}
func (*Unary) exprNode()          {}
func (*Postfix) exprNode()        {}
func (*Assign) exprNode()         {}
func (*Conditional) exprNode()    {}
func (*Call) exprNode()           {}
func (*Selector) exprNode()       {}
func (*Index) exprNode()          {}
func (*New) exprNode()            {}
func (*Lambda) exprNode()         {}
func (*Cast) exprNode()           {}
func (*Is) exprNode()             {}
func (*Paren) exprNode()          {}
func (*SuppressNull) exprNode()   {}
func (*CollectionExpr) exprNode() {}
func (*Spread) exprNode()         {}
func (*Await) exprNode()          {}
func (*TypeRef) exprNode()        {}
func (*Raw) exprNode()            {}

// NewIdent returns an identifier expression.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// Sel builds a dotted member access chain: Sel("GD", "Print") is GD.Print.
func Sel(root string, names ...string) Expr {
	var x Expr = NewIdent(root)
	for _, n := range names {
		x = &Selector{X: x, Name: n}
	}
	return x
}
