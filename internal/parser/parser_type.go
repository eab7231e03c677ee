package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
)

// parseType parses a type expression: named types, pointers, slices,
// fixed-size arrays, and function types.
func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur
	switch p.cur.Kind {
	case lexer.STAR:
		p.next()
		elem := p.parseType()
		return &ast.PointerType{Elem: elem, Span: ast.Span{Start: p.pos(start), End: elem.Position().End}}

	case lexer.LBRACKET:
		p.next() // [
		if p.curIs(lexer.RBRACKET) {
			p.next()
			elem := p.parseType()
			return &ast.SliceType{Elem: elem, Span: ast.Span{Start: p.pos(start), End: elem.Position().End}}
		}
		size := p.parseExpr(LOWEST)
		p.expect(lexer.RBRACKET)
		elem := p.parseType()
		return &ast.ArrayType{Size: size, Elem: elem, Span: ast.Span{Start: p.pos(start), End: elem.Position().End}}

	case lexer.FUNC:
		p.next() // func
		p.expect(lexer.LPAREN)
		ft := &ast.FuncType{}
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			ft.Params = append(ft.Params, p.parseType())
			if p.curIs(lexer.COMMA) {
				p.next()
			} else {
				break
			}
		}
		end := p.cur
		p.expect(lexer.RPAREN)
		if p.curIs(lexer.MINUS) && p.peekIs(lexer.GT) {
			p.next()
			p.next()
			ft.Return = p.parseType()
		}
		ft.Span = ast.Span{Start: p.pos(start), End: p.pos(end)}
		return ft

	case lexer.IDENT:
		name := p.own(p.cur.Value)
		p.next()
		return &ast.NamedType{Name: name, Span: p.span(start)}
	}

	p.errorf(errors.PAR006, "invalid type syntax near %s", p.cur.Kind)
	p.next()
	return &ast.NamedType{Name: "<error>", Span: p.span(start)}
}
