// Package parser implements a recursive-descent, Pratt-style parser
// that turns a token stream from internal/lexer into an internal/ast
// tree for one source file.
package parser

import (
	"fmt"

	"github.com/brylang/bryc/internal/arena"
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/target"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Precedence levels, lowest to highest. Matches spec.md §4.3's
// operator-precedence table.
const (
	LOWEST int = iota
	OR         // ||
	AND        // &&
	BITOR      // |
	BITXOR     // ^
	BITAND     // &
	EQUALITY   // == !=
	RELATIONAL // < > <= >=
	SHIFT      // << >>
	SUM        // + -
	PRODUCT    // * / %
	PREFIX     // unary - ! ~ & *
	CALL       // f(x), x[i], x.field, x as T
)

var precedences = map[lexer.Kind]int{
	lexer.LOR: OR,
	lexer.LAND: AND,
	lexer.PIPE: BITOR,
	lexer.CARET: BITXOR,
	lexer.AMP: BITAND,
	lexer.EQ: EQUALITY, lexer.NEQ: EQUALITY,
	lexer.LT: RELATIONAL, lexer.GT: RELATIONAL, lexer.LTE: RELATIONAL, lexer.GTE: RELATIONAL,
	lexer.SHL: SHIFT, lexer.SHR: SHIFT,
	lexer.PLUS: SUM, lexer.MINUS: SUM,
	lexer.STAR: PRODUCT, lexer.SLASH: PRODUCT, lexer.PERCENT: PRODUCT,
	lexer.LPAREN: CALL, lexer.LBRACKET: CALL, lexer.DOT: CALL, lexer.AS: CALL,
}

// Parser consumes a Lexer's token stream and produces an *ast.File.
// allowStructLit tracks whether `{` should be parsed as a struct
// literal or as a block/statement opener: spec.md §4.3 requires this
// to be false while parsing an `if`/`while`/`for`/`match` header
// expression, and restored afterward.
type Parser struct {
	l *lexer.Lexer

	cur, peek lexer.Token
	file      string

	allowStructLit []bool

	errs *errors.Counter
	env  target.Platform

	// ar backs own(): the declaration, type, expression, pattern and
	// import strings the AST retains are copied through it so a single
	// long-lived identifier doesn't keep the whole source buffer
	// reachable. Let/const statement names and directive operands are
	// not copied. Released at the end of ParseFile.
	ar *arena.Arena

	prefixFns map[lexer.Kind]prefixParseFn
	infixFns  map[lexer.Kind]infixParseFn
}

// New creates a Parser reading from l, evaluating #if/#elif
// directives against the host platform. Use WithTarget to
// cross-compile.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file, errs: &errors.Counter{}, allowStructLit: []bool{true}, env: target.Host(), ar: arena.New(0)}

	p.prefixFns = map[lexer.Kind]prefixParseFn{
		lexer.IDENT:    p.parseIdent,
		lexer.INT:      p.parseIntLit,
		lexer.FLOAT:    p.parseFloatLit,
		lexer.STRING:   p.parseStringLit,
		lexer.RUNE:     p.parseRuneLit,
		lexer.TRUE:     p.parseBoolLit,
		lexer.FALSE:    p.parseBoolLit,
		lexer.LPAREN:   p.parseGroupedExpr,
		lexer.LBRACKET: p.parseArrayLit,
		lexer.MINUS:    p.parsePrefixExpr,
		lexer.BANG:     p.parsePrefixExpr,
		lexer.TILDE:    p.parsePrefixExpr,
		lexer.AMP:      p.parsePrefixExpr,
		lexer.STAR:     p.parseDerefExpr,
		lexer.NEW:      p.parseNewExpr,
		lexer.UNSAFE:   p.parseUnsafeExpr,
	}

	p.infixFns = map[lexer.Kind]infixParseFn{
		lexer.PLUS: p.parseBinaryExpr, lexer.MINUS: p.parseBinaryExpr,
		lexer.STAR: p.parseBinaryExpr, lexer.SLASH: p.parseBinaryExpr, lexer.PERCENT: p.parseBinaryExpr,
		lexer.AMP: p.parseBinaryExpr, lexer.PIPE: p.parseBinaryExpr, lexer.CARET: p.parseBinaryExpr,
		lexer.SHL: p.parseBinaryExpr, lexer.SHR: p.parseBinaryExpr,
		lexer.LAND: p.parseBinaryExpr, lexer.LOR: p.parseBinaryExpr,
		lexer.EQ: p.parseBinaryExpr, lexer.NEQ: p.parseBinaryExpr,
		lexer.LT: p.parseBinaryExpr, lexer.GT: p.parseBinaryExpr, lexer.LTE: p.parseBinaryExpr, lexer.GTE: p.parseBinaryExpr,
		lexer.LPAREN:   p.parseCallExpr,
		lexer.LBRACKET: p.parseIndexOrSliceExpr,
		lexer.DOT:      p.parseFieldExpr,
		lexer.AS:       p.parseCastExpr,
	}

	p.next()
	p.next()
	return p
}

// Errors returns every diagnostic recorded while parsing.
func (p *Parser) Errors() *errors.Counter { return p.errs }

// WithTarget overrides the platform #if/#elif meta-variables resolve
// against. Must be called before ParseFile.
func (p *Parser) WithTarget(env target.Platform) *Parser {
	p.env = env
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
	if lerr := p.l.Err(); lerr != nil {
		p.errs.Add(lerr)
	}
}

func (p *Parser) curIs(k lexer.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k lexer.Kind) bool { return p.peek.Kind == k }

func (p *Parser) span(start lexer.Token) ast.Span {
	return ast.Span{
		Start: ast.Pos{Line: start.Line, Col: start.Col, File: start.File},
		End:   ast.Pos{Line: p.cur.EndLine, Col: p.cur.EndCol, File: p.cur.File},
	}
}

func (p *Parser) pos(t lexer.Token) ast.Pos {
	return ast.Pos{Line: t.Line, Col: t.Col, File: t.File}
}

// own copies s into the parser's arena so the AST node that keeps it
// doesn't pin the rest of the source file in memory.
func (p *Parser) own(s string) string {
	return p.ar.MoveString(s)
}

// expect advances past cur if it has kind k, else records PAR001 and
// does not advance.
func (p *Parser) expect(k lexer.Kind) bool {
	if p.curIs(k) {
		p.next()
		return true
	}
	p.errorf(errors.PAR001, "expected %s, got %s", k, p.cur.Kind)
	return false
}

func (p *Parser) errorf(code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sp := &errors.Span{File: p.cur.File, StartLine: p.cur.Line, StartCol: p.cur.Col, EndLine: p.cur.EndLine, EndCol: p.cur.EndCol}
	p.errs.Add(errors.New(code, msg, sp))
}

func (p *Parser) pushAllowStructLit(v bool) {
	p.allowStructLit = append(p.allowStructLit, v)
}

func (p *Parser) popAllowStructLit() {
	p.allowStructLit = p.allowStructLit[:len(p.allowStructLit)-1]
}

func (p *Parser) structLitAllowed() bool {
	return p.allowStructLit[len(p.allowStructLit)-1]
}

// synchronize skips tokens until a likely declaration or statement
// boundary, so one syntax error doesn't cascade into unrelated ones.
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMI) {
			p.next()
			return
		}
		switch p.cur.Kind {
		case lexer.FUNC, lexer.STRUCT, lexer.ENUM, lexer.TYPE, lexer.CONST, lexer.LET,
			lexer.FACTORY, lexer.PUB, lexer.IF, lexer.WHILE, lexer.FOR, lexer.MATCH, lexer.RETURN:
			return
		}
		p.next()
	}
}

// ParseFile parses a complete source file into an *ast.File. The
// strings own() handed to the tree share no memory with the arena's
// chunks (see arena.MoveString), so the arena is released here:
// this is the per-file phase boundary spec.md's arena-owned storage
// is scoped to.
func (p *Parser) ParseFile() *ast.File {
	start := p.cur
	file := &ast.File{Path: p.file}
	file.Decls = p.parseDeclsUntil(file, lexer.EOF)

	file.Span = p.span(start)
	p.ar.Release()
	return file
}

// tryParseImport parses `import "path";` or `import "path" as alias;`.
func (p *Parser) tryParseImport() *ast.ImportDecl {
	if !p.curIs(lexer.IMPORT) {
		return nil
	}
	start := p.cur
	p.next()
	pathTok := p.cur
	p.expect(lexer.STRING)
	imp := &ast.ImportDecl{Path: p.own(pathTok.Value)}
	if p.curIs(lexer.AS) {
		p.next()
		imp.Alias = p.own(p.cur.Value)
		p.expect(lexer.IDENT)
	}
	if p.curIs(lexer.SEMI) {
		p.next()
	}
	imp.Span = p.span(start)
	return imp
}
