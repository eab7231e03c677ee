package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
)

// parseExpr is the Pratt-parser core: spec.md §4.3's operator
// precedence climbing loop.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errorf(errors.PAR001, "unexpected token in expression: %s", p.cur.Kind)
		tok := p.cur
		p.next()
		return &ast.Ident{Name: "<error>", Span: p.span(tok)}
	}
	left := prefix()

	for !p.curIs(lexer.SEMI) && minPrec < precedences[p.cur.Kind] {
		infix, ok := p.infixFns[p.cur.Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.cur
	p.next()
	name := p.own(tok.Value)
	ident := &ast.Ident{Name: name, Span: p.span(tok)}
	if p.structLitAllowed() && p.curIs(lexer.LBRACE) {
		return p.parseStructLit(&ast.NamedType{Name: name, Span: ident.Span})
	}
	return ident
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.IntLit{Raw: p.own(tok.Value), Span: p.span(tok)}
}

func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.FloatLit{Raw: p.own(tok.Value), Span: p.span(tok)}
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.StringLit{Value: p.own(tok.Value), Span: p.span(tok)}
}

func (p *Parser) parseRuneLit() ast.Expr {
	tok := p.cur
	p.next()
	r := []rune(tok.Value)
	var v rune
	if len(r) > 0 {
		v = r[0]
	}
	return &ast.RuneLit{Value: v, Span: p.span(tok)}
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.cur
	p.next()
	return &ast.BoolLit{Value: tok.Kind == lexer.TRUE, Span: p.span(tok)}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.next() // (
	p.pushAllowStructLit(true)
	x := p.parseExpr(LOWEST)
	p.popAllowStructLit()
	p.expect(lexer.RPAREN)
	return x
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.cur
	p.next() // [
	lit := &ast.ArrayLit{}
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		lit.Elems = append(lit.Elems, p.parseExpr(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	lit.Span = p.span(start)
	return lit
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	start := p.cur
	op := p.cur.Kind.String()
	p.next()
	x := p.parseExpr(PREFIX)
	return &ast.UnaryExpr{Op: op, X: x, Span: p.span(start)}
}

func (p *Parser) parseDerefExpr() ast.Expr {
	start := p.cur
	p.next() // *
	x := p.parseExpr(PREFIX)
	return &ast.DerefExpr{X: x, Span: p.span(start)}
}

func (p *Parser) parseNewExpr() ast.Expr {
	start := p.cur
	p.next() // new
	typ := p.parseType()
	if p.curIs(lexer.LBRACKET) {
		p.next() // [
		size := p.parseExpr(LOWEST)
		p.expect(lexer.RBRACKET)
		return &ast.NewArrayExpr{Type: typ, Size: size, Span: p.span(start)}
	}
	n := &ast.NewExpr{Type: typ}
	if p.curIs(lexer.LPAREN) {
		p.next()
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			n.Args = append(n.Args, p.parseExpr(LOWEST))
			if p.curIs(lexer.COMMA) {
				p.next()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
	}
	n.Span = p.span(start)
	return n
}

func (p *Parser) parseUnsafeExpr() ast.Expr {
	start := p.cur
	p.next() // unsafe
	p.expect(lexer.LPAREN)
	x := p.parseExpr(LOWEST)
	p.expect(lexer.RPAREN)
	return &ast.UnsafeExpr{X: x, Span: p.span(start)}
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	op := p.cur
	prec := precedences[p.cur.Kind]
	p.next()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{Op: op.Value, Left: left, Right: right, Span: ast.Span{Start: left.Position().Start, End: right.Position().End}}
}

func (p *Parser) parseCallExpr(fn ast.Expr) ast.Expr {
	p.next() // (
	call := &ast.CallExpr{Fn: fn}
	p.pushAllowStructLit(true)
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		call.Args = append(call.Args, p.parseExpr(LOWEST))
		if p.curIs(lexer.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.popAllowStructLit()
	end := p.cur
	p.expect(lexer.RPAREN)
	call.Span = ast.Span{Start: fn.Position().Start, End: p.pos(end)}
	return call
}

func (p *Parser) parseIndexOrSliceExpr(x ast.Expr) ast.Expr {
	p.next() // [
	p.pushAllowStructLit(true)
	var lo ast.Expr
	if !p.curIs(lexer.COLON) {
		lo = p.parseExpr(LOWEST)
	}
	if p.curIs(lexer.COLON) {
		p.next()
		var hi ast.Expr
		if !p.curIs(lexer.RBRACKET) {
			hi = p.parseExpr(LOWEST)
		}
		p.popAllowStructLit()
		end := p.cur
		p.expect(lexer.RBRACKET)
		return &ast.SliceExpr{X: x, Lo: lo, Hi: hi, Span: ast.Span{Start: x.Position().Start, End: p.pos(end)}}
	}
	p.popAllowStructLit()
	end := p.cur
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpr{X: x, Index: lo, Span: ast.Span{Start: x.Position().Start, End: p.pos(end)}}
}

func (p *Parser) parseFieldExpr(x ast.Expr) ast.Expr {
	p.next() // .
	name := p.own(p.cur.Value)
	end := p.cur
	p.expect(lexer.IDENT)
	return &ast.FieldExpr{X: x, Field: name, Span: ast.Span{Start: x.Position().Start, End: p.pos(end)}}
}

func (p *Parser) parseCastExpr(x ast.Expr) ast.Expr {
	p.next() // as
	typ := p.parseType()
	return &ast.CastExpr{X: x, Type: typ, Span: ast.Span{Start: x.Position().Start, End: typ.Position().End}}
}

func (p *Parser) parseStructLit(typ ast.TypeExpr) ast.Expr {
	start := p.cur
	p.next() // {
	lit := &ast.StructLit{Type: typ}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		fs := p.cur
		name := p.own(p.cur.Value)
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		val := p.parseExpr(LOWEST)
		lit.Fields = append(lit.Fields, &ast.StructLitField{Name: name, Value: val, Span: p.span(fs)})
		if p.curIs(lexer.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACE)
	lit.Span = ast.Span{Start: typ.Position().Start, End: p.span(start).End}
	return lit
}
