// Package ast defines the syntax tree produced by internal/parser: the
// declaration, statement, expression, type, and pattern node set for a
// single bryc source file.
package ast

import "fmt"

// Pos is a single source position.
type Pos struct {
	Line, Col int
	File      string
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col) }

// Span is a start/end source range, attached to every node so
// diagnostics and the checker can point precisely at it.
type Span struct {
	Start, End Pos
}

func (s Span) String() string { return s.Start.String() }

// Node is the root interface every AST node implements.
type Node interface {
	Position() Span
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is a type expression (as written in source, not the
// resolved internal/types.Type).
type TypeExpr interface {
	Node
	typeNode()
}

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// Decl is any top-level declaration.
type Decl interface {
	Node
	declNode()
	DeclName() string
	IsPub() bool
}

// Attribute is an `@name`, `@name(args)`, or bracketed-group entry
// `@[a, b(v)]` annotation attached to a declaration. NameSpan covers
// just the name token; ValueSpan covers the parenthesized argument
// list when present, matching spec.md's (name-span, value,
// value-span) data model.
type Attribute struct {
	Name      string
	Args      []Expr
	NameSpan  Span
	ValueSpan Span
	Span      Span
}

// File is a single parsed source file.
type File struct {
	Path       string
	Directives []*Directive // top-level #if/#require that survived evaluation
	Imports    []*ImportDecl
	Decls      []Decl
	Span       Span
}

func (f *File) Position() Span { return f.Span }

// Directive is a preprocessor directive node retained in the AST for
// diagnostics (#require) or already-resolved conditional compilation
// bookkeeping (#if/#elif/#end branch selection happens in the parser;
// only #require survives as a node the checker inspects).
type Directive struct {
	Name string // "require", "if", "elif", "end"
	Expr Expr   // boolean/string expression, nil for #end
	Span Span
}

func (d *Directive) Position() Span { return d.Span }

// ImportDecl imports another module by path, optionally under an
// alias.
type ImportDecl struct {
	Path  string
	Alias string // "" if none given
	Span  Span
}

func (i *ImportDecl) Position() Span { return i.Span }

// ---- Declarations ----

type Param struct {
	Name string
	Type TypeExpr
	Span Span
}

func (p *Param) Position() Span { return p.Span }

// FuncDecl is a function or method declaration: `[pub] func name(params) [-> ret] { body }`.
type FuncDecl struct {
	Name       string
	Pub        bool
	Receiver   *Param // non-nil for methods bound to a named type
	Params     []*Param
	ReturnType TypeExpr // nil means unit
	Body       *BlockStmt
	Attrs      []*Attribute
	Span       Span
}

func (f *FuncDecl) Position() Span   { return f.Span }
func (f *FuncDecl) declNode()        {}
func (f *FuncDecl) DeclName() string { return f.Name }
func (f *FuncDecl) IsPub() bool      { return f.Pub }

// StructField is one field of a struct declaration.
type StructField struct {
	Name string
	Type TypeExpr
	Span Span
}

// StructDecl is `[pub] struct Name { fields }`.
type StructDecl struct {
	Name   string
	Pub    bool
	Fields []*StructField
	Attrs  []*Attribute
	Span   Span
}

func (s *StructDecl) Position() Span   { return s.Span }
func (s *StructDecl) declNode()        {}
func (s *StructDecl) DeclName() string { return s.Name }
func (s *StructDecl) IsPub() bool      { return s.Pub }

// EnumCase is one case of an enum declaration, optionally carrying a
// tuple of payload types.
type EnumCase struct {
	Name    string
	Payload []TypeExpr
	Span    Span
}

// EnumDecl is `[pub] enum Name { Case(Type, ...), ... }`.
type EnumDecl struct {
	Name  string
	Pub   bool
	Cases []*EnumCase
	Attrs []*Attribute
	Span  Span
}

func (e *EnumDecl) Position() Span   { return e.Span }
func (e *EnumDecl) declNode()        {}
func (e *EnumDecl) DeclName() string { return e.Name }
func (e *EnumDecl) IsPub() bool      { return e.Pub }

// TypeAliasDecl is `[pub] type Name = Type`.
type TypeAliasDecl struct {
	Name  string
	Pub   bool
	Alias TypeExpr
	Span  Span
}

func (t *TypeAliasDecl) Position() Span   { return t.Span }
func (t *TypeAliasDecl) declNode()        {}
func (t *TypeAliasDecl) DeclName() string { return t.Name }
func (t *TypeAliasDecl) IsPub() bool      { return t.Pub }

// ConstDecl is a top-level `[pub] const name [: Type] = expr`.
type ConstDecl struct {
	Name  string
	Pub   bool
	Type  TypeExpr // nil if inferred
	Value Expr
	Span  Span
}

func (c *ConstDecl) Position() Span   { return c.Span }
func (c *ConstDecl) declNode()        {}
func (c *ConstDecl) DeclName() string { return c.Name }
func (c *ConstDecl) IsPub() bool      { return c.Pub }

// LetDecl is a top-level global `[pub] let name [: Type] = expr`.
type LetDecl struct {
	Name  string
	Pub   bool
	Type  TypeExpr
	Value Expr
	Span  Span
}

func (l *LetDecl) Position() Span   { return l.Span }
func (l *LetDecl) declNode()        {}
func (l *LetDecl) DeclName() string { return l.Name }
func (l *LetDecl) IsPub() bool      { return l.Pub }

// FactoryDecl binds a construction function to a named type: a
// `factory Name(params) -> Name { body }` declaration callable via the
// `Name{...}` literal sugar.
type FactoryDecl struct {
	TypeName string
	Params   []*Param
	Body     *BlockStmt
	Span     Span
}

func (fd *FactoryDecl) Position() Span   { return fd.Span }
func (fd *FactoryDecl) declNode()        {}
func (fd *FactoryDecl) DeclName() string { return fd.TypeName }
func (fd *FactoryDecl) IsPub() bool      { return true }

// ---- Types ----

// NamedType is a reference to a declared or builtin type by name.
type NamedType struct {
	Name string
	Span Span
}

func (n *NamedType) Position() Span { return n.Span }
func (n *NamedType) typeNode()      {}

// PointerType is `*Elem`.
type PointerType struct {
	Elem TypeExpr
	Span Span
}

func (p *PointerType) Position() Span { return p.Span }
func (p *PointerType) typeNode()      {}

// SliceType is `[]Elem`.
type SliceType struct {
	Elem TypeExpr
	Span Span
}

func (s *SliceType) Position() Span { return s.Span }
func (s *SliceType) typeNode()      {}

// ArrayType is `[N]Elem`, where N is a constant expression evaluated
// by the comptime evaluator.
type ArrayType struct {
	Size Expr
	Elem TypeExpr
	Span Span
}

func (a *ArrayType) Position() Span { return a.Span }
func (a *ArrayType) typeNode()      {}

// FuncType is `func(params) -> ret`.
type FuncType struct {
	Params []TypeExpr
	Return TypeExpr // nil means unit
	Span   Span
}

func (f *FuncType) Position() Span { return f.Span }
func (f *FuncType) typeNode()      {}

// ---- Statements ----

type BlockStmt struct {
	Stmts []Stmt
	Span  Span
}

func (b *BlockStmt) Position() Span { return b.Span }
func (b *BlockStmt) stmtNode()      {}

type ExprStmt struct {
	X    Expr
	Span Span
}

func (e *ExprStmt) Position() Span { return e.Span }
func (e *ExprStmt) stmtNode()      {}

type LetStmt struct {
	Name  string
	Type  TypeExpr // nil if inferred
	Value Expr     // nil for `let x: T;` with no initializer
	Span  Span
}

func (l *LetStmt) Position() Span { return l.Span }
func (l *LetStmt) stmtNode()      {}

type ConstStmt struct {
	Name  string
	Type  TypeExpr
	Value Expr
	Span  Span
}

func (c *ConstStmt) Position() Span { return c.Span }
func (c *ConstStmt) stmtNode()      {}

// AssignStmt covers `=`, `+=`, `-=`, ... and `++`/`--` (Op holds the
// token text, e.g. "+=", "++"; RHS is nil for the increment/decrement
// forms).
type AssignStmt struct {
	Target Expr
	Op     string
	Value  Expr
	Span   Span
}

func (a *AssignStmt) Position() Span { return a.Span }
func (a *AssignStmt) stmtNode()      {}

type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Elif []*ElifClause
	Else *BlockStmt // nil if no else
	Span Span
}

type ElifClause struct {
	Cond Expr
	Body *BlockStmt
	Span Span
}

func (i *IfStmt) Position() Span { return i.Span }
func (i *IfStmt) stmtNode()      {}

// WhileStmt covers both `while cond { }` (IsDoWhile false) and
// `do { } while cond` (IsDoWhile true, condition checked after body).
// Else runs once, after the loop, only when the loop finished without
// a break (nil if no else clause was written).
type WhileStmt struct {
	Cond      Expr
	Body      *BlockStmt
	Else      *BlockStmt
	IsDoWhile bool
	Span      Span
}

func (w *WhileStmt) Position() Span { return w.Span }
func (w *WhileStmt) stmtNode()      {}

// ForStmt is the classic three-clause C-style for loop; any clause
// may be nil. Else runs once, after the loop, only when the loop
// finished without a break (nil if no else clause was written).
type ForStmt struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
	Else *BlockStmt
	Span Span
}

func (f *ForStmt) Position() Span { return f.Span }
func (f *ForStmt) stmtNode()      {}

type MatchCase struct {
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    *BlockStmt
	Span    Span
}

type MatchStmt struct {
	Subject Expr
	Cases   []*MatchCase
	Span    Span
}

func (m *MatchStmt) Position() Span { return m.Span }
func (m *MatchStmt) stmtNode()      {}

type ReturnStmt struct {
	Value Expr // nil for bare `return;`
	Span  Span
}

func (r *ReturnStmt) Position() Span { return r.Span }
func (r *ReturnStmt) stmtNode()      {}

type BreakStmt struct{ Span Span }

func (b *BreakStmt) Position() Span { return b.Span }
func (b *BreakStmt) stmtNode()      {}

type ContinueStmt struct{ Span Span }

func (c *ContinueStmt) Position() Span { return c.Span }
func (c *ContinueStmt) stmtNode()      {}

type FallthroughStmt struct{ Span Span }

func (f *FallthroughStmt) Position() Span { return f.Span }
func (f *FallthroughStmt) stmtNode()      {}

// UnsafeStmt is `unsafe { ... }`, raising the checker's unsafe-depth
// counter for every statement it contains.
type UnsafeStmt struct {
	Body *BlockStmt
	Span Span
}

func (u *UnsafeStmt) Position() Span { return u.Span }
func (u *UnsafeStmt) stmtNode()      {}

// ---- Expressions ----

type Ident struct {
	Name string
	Span Span
}

func (i *Ident) Position() Span { return i.Span }
func (i *Ident) exprNode()      {}
func (i *Ident) patternNode()   {} // a bare identifier can also bind in a pattern

type IntLit struct {
	Raw  string // original literal text, base prefix included
	Span Span
}

func (l *IntLit) Position() Span { return l.Span }
func (l *IntLit) exprNode()      {}
func (l *IntLit) patternNode()   {}

type FloatLit struct {
	Raw  string
	Span Span
}

func (l *FloatLit) Position() Span { return l.Span }
func (l *FloatLit) exprNode()      {}

type RuneLit struct {
	Value rune
	Span  Span
}

func (l *RuneLit) Position() Span { return l.Span }
func (l *RuneLit) exprNode()      {}
func (l *RuneLit) patternNode()   {}

type StringLit struct {
	Value string
	Span  Span
}

func (l *StringLit) Position() Span { return l.Span }
func (l *StringLit) exprNode()      {}
func (l *StringLit) patternNode()   {}

type BoolLit struct {
	Value bool
	Span  Span
}

func (l *BoolLit) Position() Span { return l.Span }
func (l *BoolLit) exprNode()      {}

// BinaryExpr is any of spec.md §4.6's binary operators: arithmetic,
// comparison, logical, and bitwise.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  Span
}

func (b *BinaryExpr) Position() Span { return b.Span }
func (b *BinaryExpr) exprNode()      {}

// UnaryExpr covers prefix `-`, `!`, `~`, `&` (address-of), `*`
// (deref-as-prefix is handled via DerefExpr instead; this is for
// numeric/logical/bitwise negation and address-of).
type UnaryExpr struct {
	Op   string
	X    Expr
	Span Span
}

func (u *UnaryExpr) Position() Span { return u.Span }
func (u *UnaryExpr) exprNode()      {}

// DerefExpr is `*ptr`, reading through a pointer.
type DerefExpr struct {
	X    Expr
	Span Span
}

func (d *DerefExpr) Position() Span { return d.Span }
func (d *DerefExpr) exprNode()      {}

// CallExpr is `fn(args...)`.
type CallExpr struct {
	Fn   Expr
	Args []Expr
	Span Span
}

func (c *CallExpr) Position() Span { return c.Span }
func (c *CallExpr) exprNode()      {}

// IndexExpr is `x[i]`.
type IndexExpr struct {
	X     Expr
	Index Expr
	Span  Span
}

func (i *IndexExpr) Position() Span { return i.Span }
func (i *IndexExpr) exprNode()      {}

// SliceExpr is `x[lo:hi]`, either bound may be nil.
type SliceExpr struct {
	X      Expr
	Lo, Hi Expr
	Span   Span
}

func (s *SliceExpr) Position() Span { return s.Span }
func (s *SliceExpr) exprNode()      {}

// FieldExpr is `x.field`.
type FieldExpr struct {
	X     Expr
	Field string
	Span  Span
}

func (f *FieldExpr) Position() Span { return f.Span }
func (f *FieldExpr) exprNode()      {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	X    Expr
	Type TypeExpr
	Span Span
}

func (c *CastExpr) Position() Span { return c.Span }
func (c *CastExpr) exprNode()      {}

// NewExpr is `new Type` / `new Type(args)`, a heap allocation.
type NewExpr struct {
	Type TypeExpr
	Args []Expr
	Span Span
}

func (n *NewExpr) Position() Span { return n.Span }
func (n *NewExpr) exprNode()      {}

// NewArrayExpr is `new Type[size]`, a heap allocation of size
// contiguous elements of Type — distinct from NewExpr's single-value
// `new Type`, not sugar for indexing into one.
type NewArrayExpr struct {
	Type TypeExpr
	Size Expr
	Span Span
}

func (n *NewArrayExpr) Position() Span { return n.Span }
func (n *NewArrayExpr) exprNode()      {}

type StructLitField struct {
	Name  string
	Value Expr
	Span  Span
}

// StructLit is `Type{ field: value, ... }`, also used as sugar for a
// call into that type's FactoryDecl when one is declared.
type StructLit struct {
	Type   TypeExpr
	Fields []*StructLitField
	Span   Span
}

func (s *StructLit) Position() Span { return s.Span }
func (s *StructLit) exprNode()      {}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Elems []Expr
	Span  Span
}

func (a *ArrayLit) Position() Span { return a.Span }
func (a *ArrayLit) exprNode()      {}

// UnsafeExpr is `unsafe(expr)`: a single expression evaluated in an
// unsafe context without wrapping a whole block.
type UnsafeExpr struct {
	X    Expr
	Span Span
}

func (u *UnsafeExpr) Position() Span { return u.Span }
func (u *UnsafeExpr) exprNode()      {}

// ---- Patterns ----

// WildcardPattern is `_`, matching anything and binding nothing.
type WildcardPattern struct{ Span Span }

func (w *WildcardPattern) Position() Span { return w.Span }
func (w *WildcardPattern) patternNode()   {}

// EnumCasePattern matches `EnumName.CaseName(sub patterns...)` or
// bare `CaseName` when the enum is unambiguous from context.
type EnumCasePattern struct {
	EnumName string // "" if elided
	CaseName string
	Payload  []Pattern
	Span     Span
}

func (e *EnumCasePattern) Position() Span { return e.Span }
func (e *EnumCasePattern) patternNode()   {}

// OrPattern is `p1|p2|...`: matches if any alternative matches. Per
// spec.md §4.7.6 no alternative may bind a new name; the checker
// rejects one that would, since only it can tell a binder from a
// nullary enum case.
type OrPattern struct {
	Alts []Pattern
	Span Span
}

func (o *OrPattern) Position() Span { return o.Span }
func (o *OrPattern) patternNode()   {}
