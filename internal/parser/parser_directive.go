package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/target"
)

// directive condition precedence: || lowest, && next, ! highest (unary).
const (
	dirLowest int = iota
	dirOr
	dirAnd
	dirEquality
	dirPrefix
)

func dirPrecedence(k lexer.Kind) int {
	switch k {
	case lexer.LOR:
		return dirOr
	case lexer.LAND:
		return dirAnd
	case lexer.EQ, lexer.NEQ:
		return dirEquality
	}
	return dirLowest
}

// parseDirectiveExpr parses the tiny boolean/string expression grammar
// that #if/#elif conditions use: identifiers (meta-variables),
// string literals, ==, !=, &&, ||, ! and parentheses. No arithmetic,
// no calls: this is deliberately smaller than the full expression
// grammar.
func (p *Parser) parseDirectiveExpr(minPrec int) ast.Expr {
	left := p.parseDirectiveUnary()
	for {
		prec := dirPrecedence(p.cur.Kind)
		if prec <= minPrec || prec == dirLowest {
			break
		}
		op := p.cur
		p.next()
		right := p.parseDirectiveExpr(prec)
		left = &ast.BinaryExpr{Op: op.Value, Left: left, Right: right, Span: ast.Span{Start: left.Position().Start, End: right.Position().End}}
	}
	return left
}

func (p *Parser) parseDirectiveUnary() ast.Expr {
	start := p.cur
	switch p.cur.Kind {
	case lexer.BANG:
		p.next()
		x := p.parseDirectiveUnary()
		return &ast.UnaryExpr{Op: "!", X: x, Span: p.span(start)}
	case lexer.LPAREN:
		p.next()
		x := p.parseDirectiveExpr(dirLowest)
		p.expect(lexer.RPAREN)
		return x
	case lexer.IDENT:
		p.next()
		return &ast.Ident{Name: start.Value, Span: p.span(start)}
	case lexer.STRING:
		p.next()
		return &ast.StringLit{Value: start.Value, Span: p.span(start)}
	case lexer.TRUE, lexer.FALSE:
		p.next()
		return &ast.BoolLit{Value: start.Kind == lexer.TRUE, Span: p.span(start)}
	}
	p.errorf(errors.PAR007, "invalid directive expression near %s", p.cur.Kind)
	p.next()
	return &ast.BoolLit{Value: false, Span: p.span(start)}
}

// evalDirective evaluates a directive condition against env, the
// active target's meta-variables.
func evalDirective(expr ast.Expr, env target.Platform) bool {
	switch e := expr.(type) {
	case *ast.BoolLit:
		return e.Value
	case *ast.Ident:
		v, ok := env.Meta(e.Name)
		return ok && v != "false" && v != ""
	case *ast.StringLit:
		return e.Value != ""
	case *ast.UnaryExpr:
		if e.Op == "!" {
			return !evalDirective(e.X, env)
		}
	case *ast.BinaryExpr:
		switch e.Op {
		case "&&":
			return evalDirective(e.Left, env) && evalDirective(e.Right, env)
		case "||":
			return evalDirective(e.Left, env) || evalDirective(e.Right, env)
		case "==", "!=":
			l := directiveValue(e.Left, env)
			r := directiveValue(e.Right, env)
			if e.Op == "==" {
				return l == r
			}
			return l != r
		}
	}
	return false
}

func directiveValue(expr ast.Expr, env target.Platform) string {
	switch e := expr.(type) {
	case *ast.Ident:
		v, _ := env.Meta(e.Name)
		return v
	case *ast.StringLit:
		return e.Value
	case *ast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	}
	return ""
}

// parseTopDirective parses a single #require directive, the only
// directive kind that survives as an AST node: #if/#elif/#else/#end
// are consumed entirely by parseConditionalBlock and never appear in
// the tree.
func (p *Parser) parseTopDirective() *ast.Directive {
	start := p.cur
	name := p.cur.Value
	p.next()
	d := &ast.Directive{Name: name}
	if name == "require" {
		d.Expr = p.parseDirectiveExpr(dirLowest)
	}
	if p.curIs(lexer.SEMI) {
		p.next()
	}
	d.Span = p.span(start)
	return d
}

// parseDeclsUntil parses a sequence of imports and declarations,
// honoring #if/#elif/#else/#end conditional compilation, until the
// current token has kind until.
func (p *Parser) parseDeclsUntil(file *ast.File, until lexer.Kind) []ast.Decl {
	var decls []ast.Decl
	for !p.curIs(until) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DIRECTIVE) && (p.cur.Value == "elif" || p.cur.Value == "else" || p.cur.Value == "end") {
			return decls
		}
		if p.curIs(lexer.DIRECTIVE) && (p.cur.Value == "if" || p.cur.Value == "require") {
			if p.cur.Value == "require" {
				file.Directives = append(file.Directives, p.parseTopDirective())
				continue
			}
			decls = append(decls, p.parseConditionalDecls(file, until)...)
			continue
		}
		if imp := p.tryParseImport(); imp != nil {
			file.Imports = append(file.Imports, imp)
			continue
		}
		if decl := p.parseDecl(); decl != nil {
			decls = append(decls, decl)
		} else {
			p.synchronize()
		}
	}
	return decls
}

// parseConditionalDecls parses one #if ... (#elif ...)* (#else ...)? #end
// chain and returns only the declarations of the branch selected by
// evaluating each condition against p.env.
func (p *Parser) parseConditionalDecls(file *ast.File, until lexer.Kind) []ast.Decl {
	taken := false
	var result []ast.Decl
	for {
		name := p.cur.Value // "if" or "elif" or "else"
		p.next()
		var cond ast.Expr
		if name != "else" {
			cond = p.parseDirectiveExpr(dirLowest)
		}
		if p.curIs(lexer.SEMI) {
			p.next()
		}
		selected := !taken && (name == "else" || evalDirective(cond, p.env))
		if selected {
			taken = true
			result = p.parseDeclsUntil(file, until)
		} else {
			p.skipToNextDirectiveOrEnd(0)
		}
		if p.curIs(lexer.DIRECTIVE) && p.cur.Value == "end" {
			p.next()
			return result
		}
		if !p.curIs(lexer.DIRECTIVE) || (p.cur.Value != "elif" && p.cur.Value != "else") {
			p.errorf(errors.PAR007, "unterminated #if: expected #elif, #else, or #end")
			return result
		}
	}
}

// skipToNextDirectiveOrEnd skips an untaken branch's tokens, counting
// nested #if/#end pairs, until the #elif, #else or #end that closes
// the branch at depth 0 (or EOF). The skipped text is never parsed,
// just like the original compiler's preprocessor: this frontend never
// type-checks code that isn't part of the chosen target.
func (p *Parser) skipToNextDirectiveOrEnd(depth int) {
	for !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DIRECTIVE) {
			switch p.cur.Value {
			case "if":
				depth++
			case "end":
				if depth == 0 {
					return
				}
				depth--
			case "elif", "else":
				if depth == 0 {
					return
				}
			}
		}
		p.next()
	}
}
