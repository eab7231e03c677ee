package hir

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/types"
)

// The constructors below are the checker's (and tests') only way to
// populate exprHeader, since its embedded fields aren't settable from
// outside the package via a struct literal. Each mirrors one
// production the checker emits once it has resolved a type.

func NewLiteral(span ast.Span, t types.Type, v any) *Literal {
	return &Literal{exprHeader: exprHeader{Span: span, Type: t}, Value: v}
}

func NewIdent(span ast.Span, sym *Symbol) *Ident {
	return &Ident{exprHeader: exprHeader{Span: span, Type: sym.Type, Assn: !sym.Immutable}, Sym: sym}
}

func NewStaticGet(span ast.Span, sym *Symbol) *StaticGet {
	return &StaticGet{exprHeader: exprHeader{Span: span, Type: sym.Type}, Sym: sym}
}

func NewBinary(span ast.Span, t types.Type, op string, l, r Expr) *Binary {
	return &Binary{exprHeader: exprHeader{Span: span, Type: t}, Op: op, Left: l, Right: r}
}

func NewUnary(span ast.Span, t types.Type, op string, x Expr) *Unary {
	return &Unary{exprHeader: exprHeader{Span: span, Type: t}, Op: op, X: x}
}

func NewDeref(span ast.Span, t types.Type, assn bool, x Expr) *Deref {
	return &Deref{exprHeader: exprHeader{Span: span, Type: t, Assn: assn}, X: x}
}

func NewCall(span ast.Span, t types.Type, fn Expr, args []Expr) *Call {
	return &Call{exprHeader: exprHeader{Span: span, Type: t}, Fn: fn, Args: args}
}

func NewIndex(span ast.Span, t types.Type, assn bool, x, idx Expr) *Index {
	return &Index{exprHeader: exprHeader{Span: span, Type: t, Assn: assn}, X: x, Idx: idx}
}

func NewSlice(span ast.Span, t types.Type, x, lo, hi Expr) *SliceExpr {
	return &SliceExpr{exprHeader: exprHeader{Span: span, Type: t}, X: x, Lo: lo, Hi: hi}
}

func NewField(span ast.Span, t types.Type, assn bool, x Expr, idx int, name string) *Field {
	return &Field{exprHeader: exprHeader{Span: span, Type: t, Assn: assn}, X: x, Index: idx, Name: name}
}

func NewCast(span ast.Span, t types.Type, x Expr) *Cast {
	return &Cast{exprHeader: exprHeader{Span: span, Type: t}, X: x}
}

func NewNew(span ast.Span, t types.Type, mode AllocMode, args []Expr) *New {
	return &New{exprHeader: exprHeader{Span: span, Type: t, Alloc: mode}, Args: args}
}

func NewNewArray(span ast.Span, t types.Type, size Expr) *NewArray {
	return &NewArray{exprHeader: exprHeader{Span: span, Type: t, Alloc: AllocHeap}, Size: size}
}

func NewStructLit(span ast.Span, t types.Type, mode AllocMode, fields []StructLitField) *StructLit {
	return &StructLit{exprHeader: exprHeader{Span: span, Type: t, Alloc: mode}, Fields: fields}
}

// NewFactoryStructLit builds the `T{...}` sugar form that resolves to
// a call into T's FactoryDecl instead of a plain field initializer.
func NewFactoryStructLit(span ast.Span, t types.Type, call *Call) *StructLit {
	return &StructLit{exprHeader: exprHeader{Span: span, Type: t, Alloc: AllocHeap}, FactoryCall: call}
}

func NewArrayLit(span ast.Span, t types.Type, mode AllocMode, elems []Expr) *ArrayLit {
	return &ArrayLit{exprHeader: exprHeader{Span: span, Type: t, Alloc: mode}, Elems: elems}
}

func NewEnumLit(span ast.Span, t types.Type, tag int64) *EnumLit {
	return &EnumLit{exprHeader: exprHeader{Span: span, Type: t}, Tag: tag}
}

// ---- Statements ----

func NewBlock(span ast.Span, stmts []Stmt) *Block {
	return &Block{stmtHeader: stmtHeader{Span: span}, Stmts: stmts}
}

func NewExprStmt(span ast.Span, x Expr) *ExprStmt {
	return &ExprStmt{stmtHeader: stmtHeader{Span: span}, X: x}
}

func NewLocalVar(span ast.Span, sym *Symbol, init Expr) *LocalVar {
	return &LocalVar{stmtHeader: stmtHeader{Span: span}, Sym: sym, Init: init}
}

func NewLocalConst(span ast.Span, sym *Symbol, init Expr) *LocalConst {
	return &LocalConst{stmtHeader: stmtHeader{Span: span}, Sym: sym, Init: init}
}

func NewAssign(span ast.Span, target Expr, op string, value Expr) *Assign {
	return &Assign{stmtHeader: stmtHeader{Span: span}, Target: target, Op: op, Value: value}
}

func NewIf(span ast.Span, cond Expr, then *Block, els Stmt) *If {
	return &If{stmtHeader: stmtHeader{Span: span}, Cond: cond, Then: then, Else: els}
}

func NewWhile(span ast.Span, cond Expr, body, els *Block, isDoWhile bool) *While {
	return &While{stmtHeader: stmtHeader{Span: span}, Cond: cond, Body: body, Else: els, IsDoWhile: isDoWhile}
}

func NewFor(span ast.Span, init Stmt, cond Expr, post Stmt, body, els *Block) *For {
	return &For{stmtHeader: stmtHeader{Span: span}, Init: init, Cond: cond, Post: post, Body: body, Else: els}
}

func NewMatch(span ast.Span, subject Expr, cases []MatchCase, exhaustive bool) *Match {
	return &Match{stmtHeader: stmtHeader{Span: span}, Subject: subject, Cases: cases, Exhaustive: exhaustive}
}

func NewReturn(span ast.Span, value Expr) *Return {
	return &Return{stmtHeader: stmtHeader{Span: span}, Value: value}
}

func NewBreak(span ast.Span) *Break             { return &Break{stmtHeader{Span: span}} }
func NewContinue(span ast.Span) *Continue       { return &Continue{stmtHeader{Span: span}} }
func NewFallthrough(span ast.Span) *Fallthrough { return &Fallthrough{stmtHeader{Span: span}} }

func NewUnsafe(span ast.Span, body *Block) *Unsafe {
	return &Unsafe{stmtHeader: stmtHeader{Span: span}, Body: body}
}

// ---- Patterns ----

func NewWildcardPattern(span ast.Span) *WildcardPattern {
	return &WildcardPattern{patternHeader{Span: span}}
}

func NewLiteralPattern(span ast.Span, v any) *LiteralPattern {
	return &LiteralPattern{patternHeader: patternHeader{Span: span}, Value: v}
}

func NewBindPattern(span ast.Span, sym *Symbol) *BindPattern {
	return &BindPattern{patternHeader: patternHeader{Span: span}, Sym: sym}
}

func NewEnumCasePattern(span ast.Span, tag int64, payload []Pattern) *EnumCasePattern {
	return &EnumCasePattern{patternHeader: patternHeader{Span: span}, Tag: tag, Payload: payload}
}

func NewOrPattern(span ast.Span, alts []Pattern) *OrPattern {
	return &OrPattern{patternHeader: patternHeader{Span: span}, Alts: alts}
}

// ---- Declarations ----

func NewStructDecl(span ast.Span, attrs []Attribute, sym *Symbol, t *types.Struct) *StructDecl {
	return &StructDecl{declHeader: declHeader{Span: span, Attrs: attrs, Sym: sym}, Type: t}
}

func NewEnumDecl(span ast.Span, attrs []Attribute, sym *Symbol, t *types.Enum) *EnumDecl {
	return &EnumDecl{declHeader: declHeader{Span: span, Attrs: attrs, Sym: sym}, Type: t}
}

func NewAliasDecl(span ast.Span, sym *Symbol, t types.Type) *AliasDecl {
	return &AliasDecl{declHeader: declHeader{Span: span, Sym: sym}, Type: t}
}

func NewGlobalConst(span ast.Span, sym *Symbol, value any) *GlobalConst {
	return &GlobalConst{declHeader: declHeader{Span: span, Sym: sym}, Value: value}
}

func NewGlobalVar(span ast.Span, sym *Symbol, value Expr, init any) *GlobalVar {
	return &GlobalVar{declHeader: declHeader{Span: span, Sym: sym}, Value: value, Init: init}
}

func NewFuncDecl(span ast.Span, attrs []Attribute, sym *Symbol, recv *Symbol, params []*Symbol, ret types.Type, body *Block) *FuncDecl {
	return &FuncDecl{
		declHeader: declHeader{Span: span, Attrs: attrs, Sym: sym},
		Receiver:   recv, Params: params, Return: ret, Body: body,
	}
}

func NewFactoryDecl(span ast.Span, sym *Symbol, typeName string, params []*Symbol, body *Block) *FactoryDecl {
	return &FactoryDecl{
		declHeader: declHeader{Span: span, Sym: sym},
		TypeName:   typeName, Params: params, Body: body,
	}
}
