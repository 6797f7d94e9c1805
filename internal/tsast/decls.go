package tsast

// File is one parsed TypeScript source file.
type File struct {
	Path  string
	Decls []Decl
}

// Decl is a top-level item of a file.
type Decl interface {
	Node
	declNode()
}

// ImportSpec is one `name as alias` entry of a named import.
type ImportSpec struct {
	Name  string
	Alias string
}

// ImportDecl is an import statement. An import with no default, namespace or
// named bindings is a side-effect-only import.
type ImportDecl struct {
	Pos
	Module    string
	Default   string
	Namespace string
	Named     []ImportSpec
	TypeOnly  bool
}

// IsSideEffect reports whether the import binds no names.
func (d *ImportDecl) IsSideEffect() bool {
	return d.Default == "" && d.Namespace == "" && len(d.Named) == 0
}

// Decorator is an @name or @name(args) annotation.
type Decorator struct {
	Pos
	Name string
	Args []Expr
}

// Access is a member accessibility modifier.
type Access int

const (
	AccessDefault Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// Modifiers are the modifiers of a class member.
type Modifiers struct {
	Access   Access
	Static   bool
	Readonly bool
	Abstract bool
	Override bool
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Extends    Type
	Implements []Type
	Members    []ClassMember
	Decorators []*Decorator
	Abstract   bool
	Exported   bool
}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Extends    []Type
	Properties []*PropertySig
	Methods    []*MethodSig
	Exported   bool
}

// EnumMember is one enum member; Init is nil for auto-numbered members.
type EnumMember struct {
	Pos
	Name string
	Init Expr
}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	Pos
	Name     string
	Members  []*EnumMember
	Const    bool
	Exported bool
}

// TypeAliasDecl is `type Name<T> = Type`.
type TypeAliasDecl struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Type       Type
	Exported   bool
}

// Param is a function or constructor parameter. A constructor parameter with
// an accessibility modifier or readonly is a parameter property.
type Param struct {
	Pos
	Name     string
	Type     Type
	Optional bool
	Default  Expr
	Rest     bool
	Access   Access
	Readonly bool
}

// IsParameterProperty reports whether p declares a class property.
func (p *Param) IsParameterProperty() bool {
	return p.Access != AccessDefault || p.Readonly
}

// FunctionDecl is a named function declaration.
type FunctionDecl struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	Returns    Type
	Body       *Block
	Async      bool
	Exported   bool
}

// StmtDecl wraps an executable statement appearing at file level, including
// module-level variable statements.
type StmtDecl struct {
	Pos
	Stmt     Stmt
	Exported bool
}

// UnmodeledDecl keeps the text of a top-level construct the tree does not model.
type UnmodeledDecl struct {
	Pos
	Kind string
	Text string
}

func (*ImportDecl) declNode()    {}
func (*ClassDecl) declNode()     {}
func (*InterfaceDecl) declNode() {}
func (*EnumDecl) declNode()      {}
func (*TypeAliasDecl) declNode() {}
func (*FunctionDecl) declNode()  {}
func (*StmtDecl) declNode()      {}
func (*UnmodeledDecl) declNode() {}

// ClassMember is a class member.
type ClassMember interface {
	Node
	memberNode()
}

// PropertyDecl is a class field.
type PropertyDecl struct {
	Pos
	Name       string
	Type       Type
	Init       Expr
	Modifiers  Modifiers
	Optional   bool
	Definite   bool
	Decorators []*Decorator
}

// MethodDecl is a class method; Body is nil for abstract methods.
type MethodDecl struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	Returns    Type
	Body       *Block
	Modifiers  Modifiers
	Async      bool
	Decorators []*Decorator
}

// ConstructorDecl is a class constructor.
type ConstructorDecl struct {
	Pos
	Params []*Param
	Body   *Block
	Access Access
}

// AccessorKind distinguishes getters from setters.
type AccessorKind int

const (
	Getter AccessorKind = iota
	Setter
)

// AccessorDecl is a get or set accessor.
type AccessorDecl struct {
	Pos
	Kind       AccessorKind
	Name       string
	Params     []*Param
	Returns    Type
	Body       *Block
	Modifiers  Modifiers
	Decorators []*Decorator
}

// UnmodeledMember keeps the text of a class member the tree does not model
// (index signatures, static blocks).
type UnmodeledMember struct {
	Pos
	Text string
}

func (*PropertyDecl) memberNode()    {}
func (*MethodDecl) memberNode()      {}
func (*ConstructorDecl) memberNode() {}
func (*AccessorDecl) memberNode()    {}
func (*UnmodeledMember) memberNode() {}
