// Package hir defines the checker's output tree: structurally a
// mirror of internal/ast, but every expression carries a resolved
// internal/types.Type, an assignable flag, and — for
// allocation-producing constructs — an AllocMode. Identifier nodes
// reference bound *Symbol values directly rather than names, and
// field accesses carry integer indices rather than names, so no
// downstream phase needs to re-resolve anything.
//
// Grounded on internal/typedast/typed_ast.go's pattern of a shared
// embedded header (Span/Type) on every typed node plus kind-specific
// payload structs, adapted from AILANG's effect-row-carrying design
// to spec.md §3's simpler (type, assignable, alloc-mode) header.
package hir

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/types"
)

// AllocMode records where an allocation-producing expression's
// storage lives, per spec.md §4.7.4.
type AllocMode int

const (
	AllocNone AllocMode = iota // not an allocation site
	AllocStack
	AllocHeap
	AllocGlobal
)

// Symbol is a checker-bound name: a resolved counterpart of
// ast.Ident/ast.Param carrying its type and mutability.
type Symbol struct {
	Name       string
	ModuleID   int
	Span       ast.Span
	Type       types.Type
	Immutable  bool
	IsFunc     bool
	IsType     bool
	IsConst    bool
	Exported   bool
	DeclIndex  int
}

// Node is the root interface for every HIR node.
type Node interface {
	Position() ast.Span
}

// Expr is any typed expression.
type Expr interface {
	Node
	ExprType() types.Type
	Assignable() bool
}

// exprHeader is embedded by every concrete Expr to supply the common
// type/assignable/alloc-mode fields in one place.
type exprHeader struct {
	Span  ast.Span
	Type  types.Type
	Assn  bool
	Alloc AllocMode
}

func (h exprHeader) Position() ast.Span   { return h.Span }
func (h exprHeader) ExprType() types.Type { return h.Type }
func (h exprHeader) Assignable() bool     { return h.Assn }

// Stmt is any statement.
type Stmt interface {
	Node
	stmtNode()
}

type stmtHeader struct{ Span ast.Span }

func (h stmtHeader) Position() ast.Span { return h.Span }
func (h stmtHeader) stmtNode()          {}

// ---- Expressions ----

// Ident references a resolved Symbol.
type Ident struct {
	exprHeader
	Sym *Symbol
}

// Literal carries a folded ConstValue-shaped scalar for int/float/
// rune/bool/string literals; the raw interface{} payload is one of
// int64, float64, rune, bool, or string.
type Literal struct {
	exprHeader
	Value any
}

// Binary is a binary operator expression.
type Binary struct {
	exprHeader
	Op          string
	Left, Right Expr
}

// Unary is a prefix unary operator expression (-, !, ~, &).
type Unary struct {
	exprHeader
	Op string
	X  Expr
}

// Deref is `*ptr`.
type Deref struct {
	exprHeader
	X Expr
}

// Call is a function/method/factory call.
type Call struct {
	exprHeader
	Fn   Expr
	Args []Expr
}

// Index is `x[i]`.
type Index struct {
	exprHeader
	X, Idx Expr
}

// SliceExpr is `x[lo:hi]`; Lo/Hi may be nil, meaning 0/len(X).
type SliceExpr struct {
	exprHeader
	X, Lo, Hi Expr
}

// Field is `x.field`, resolved to an integer index into x's struct
// type (spec.md §3: "Field accesses carry integer field indices").
type Field struct {
	exprHeader
	X     Expr
	Index int
	Name  string // retained for diagnostics/pretty-printing only
}

// Cast is `x as T`.
type Cast struct {
	exprHeader
	X Expr
}

// New is `new T` / `new T(args)`, always a heap allocation.
type New struct {
	exprHeader
	Args []Expr
}

// NewArray is `new T[size]`, always a heap allocation of size
// contiguous elements of T. Type is *types.Pointer{Elem: T}, matching
// New's own pointer-valued result.
type NewArray struct {
	exprHeader
	Size Expr
}

// StructLitField is one `name: value` entry of a StructLit, in the
// order the literal writes them; Index is the field's position in the
// struct type. Only named entries occur: there is no positional form.
type StructLitField struct {
	Index int
	Value Expr
}

// StructLit is `T{...}`, or — when T has a FactoryDecl — a call into
// that factory (spec.md's FactoryDecl semantics, see SPEC_FULL.md).
type StructLit struct {
	exprHeader
	Fields      []StructLitField
	FactoryCall *Call // non-nil when T{...} sugars a factory call instead
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	exprHeader
	Elems []Expr
}

// EnumLit is a bare enum-variant reference, e.g. `E.B`, carrying its
// resolved numeric tag (spec.md §3: "Enum literals carry numeric
// tags").
type EnumLit struct {
	exprHeader
	Tag int64
}

// StaticGet is a cross-module reference (a `mod.name` selector, or a
// bare name found among the core module's exports) rewritten by the
// checker to point directly at the imported Symbol.
type StaticGet struct {
	exprHeader
	Sym *Symbol
}

// ---- Statements ----

type Block struct {
	stmtHeader
	Stmts []Stmt
}

type ExprStmt struct {
	stmtHeader
	X Expr
}

type LocalVar struct {
	stmtHeader
	Sym  *Symbol
	Init Expr // nil if uninitialized
}

type LocalConst struct {
	stmtHeader
	Sym  *Symbol
	Init Expr
}

// Assign's Op is one of "=", "+=", "-=", ..., "++", "--".
type Assign struct {
	stmtHeader
	Target Expr
	Op     string
	Value  Expr // nil for ++/--
}

type If struct {
	stmtHeader
	Cond Expr
	Then *Block
	Else Stmt // *If (elif chain) or *Block or nil
}

type While struct {
	stmtHeader
	Cond      Expr
	Body      *Block
	Else      *Block
	IsDoWhile bool
}

type For struct {
	stmtHeader
	Init Stmt
	Cond Expr
	Post Stmt
	Body *Block
	Else *Block
}

// Pattern is a typed match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

type patternHeader struct{ Span ast.Span }

func (h patternHeader) Position() ast.Span { return h.Span }
func (h patternHeader) patternNode()       {}

type WildcardPattern struct{ patternHeader }

type LiteralPattern struct {
	patternHeader
	Value any
}

type BindPattern struct {
	patternHeader
	Sym *Symbol
}

type EnumCasePattern struct {
	patternHeader
	Tag     int64
	Payload []Pattern
}

type OrPattern struct {
	patternHeader
	Alts []Pattern
}

type MatchCase struct {
	Pattern Pattern
	Guard   Expr
	Body    *Block
}

type Match struct {
	stmtHeader
	Subject    Expr
	Cases      []MatchCase
	Exhaustive bool
}

type Return struct {
	stmtHeader
	Value Expr // nil for bare return
}

type Break struct{ stmtHeader }
type Continue struct{ stmtHeader }
type Fallthrough struct{ stmtHeader }

type Unsafe struct {
	stmtHeader
	Body *Block
}

// ---- Declarations ----

type Attribute struct {
	Name      string
	Value     string
	HasValue  bool
	Span      ast.Span
	ValueSpan ast.Span
}

// Decl is any top-level, checked declaration.
type Decl interface {
	Node
	declNode()
	Symbol() *Symbol
}

type declHeader struct {
	Span  ast.Span
	Attrs []Attribute
	Sym   *Symbol
}

func (h declHeader) Position() ast.Span { return h.Span }
func (h declHeader) declNode()          {}
func (h declHeader) Symbol() *Symbol    { return h.Sym }

// FuncDecl covers plain functions, methods (Receiver != nil), and
// extern functions (Body == nil).
type FuncDecl struct {
	declHeader
	Receiver *Symbol
	Params   []*Symbol
	Return   types.Type
	Body     *Block
}

// FactoryDecl is `factory T(params) { body }`, bound to T's
// construction site per SPEC_FULL.md's supplemented factory semantics.
type FactoryDecl struct {
	declHeader
	TypeName string
	Params   []*Symbol
	Body     *Block
}

type StructDecl struct {
	declHeader
	Type *types.Struct
}

type EnumDecl struct {
	declHeader
	Type *types.Enum
}

type AliasDecl struct {
	declHeader
	Type types.Type
}

// GlobalConst carries a folded ConstValue when comptime-foldable
// (always true for `const`, per spec.md §4.7.7).
type GlobalConst struct {
	declHeader
	Value any // a comptime.ConstValue
}

// GlobalVar carries either a folded Value (when comptime-foldable) or
// a HIR initializer expression, per spec.md §6.
type GlobalVar struct {
	declHeader
	Value Expr
	Init  any // comptime.ConstValue, non-nil when foldable
}
