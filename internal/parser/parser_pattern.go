package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
)

// parsePattern parses a match-arm pattern, including the alternated
// form `p1|p2|...`. Per spec.md §4.7.6 no alternative may bind a new
// name; that restriction is enforced by the checker, which is the
// only phase that can tell a binder from a nullary enum case.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur
	first := p.parseSinglePattern()
	if !p.curIs(lexer.PIPE) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.curIs(lexer.PIPE) {
		p.next()
		alts = append(alts, p.parseSinglePattern())
	}
	return &ast.OrPattern{Alts: alts, Span: p.span(start)}
}

// parseSinglePattern parses one non-alternated pattern: `_`, a
// literal, a plain identifier (binds the matched value), or an enum
// case constructor pattern `[EnumName.]CaseName[(sub, sub, ...)]`.
func (p *Parser) parseSinglePattern() ast.Pattern {
	start := p.cur
	switch p.cur.Kind {
	case lexer.IDENT:
		if p.cur.Value == "_" {
			p.next()
			return &ast.WildcardPattern{Span: p.span(start)}
		}
		first := p.own(p.cur.Value)
		p.next()
		enumName := ""
		caseName := first
		if p.curIs(lexer.DOT) {
			p.next()
			enumName = first
			caseName = p.own(p.cur.Value)
			p.expect(lexer.IDENT)
		}
		if p.curIs(lexer.LPAREN) {
			p.next()
			var payload []ast.Pattern
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				payload = append(payload, p.parsePattern())
				if p.curIs(lexer.COMMA) {
					p.next()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
			return &ast.EnumCasePattern{EnumName: enumName, CaseName: caseName, Payload: payload, Span: p.span(start)}
		}
		if enumName == "" {
			// A bare identifier with no following call syntax stays an
			// Ident whatever its case; the checker decides whether it
			// binds the scrutinee or names a nullary case.
			return &ast.Ident{Name: first, Span: p.span(start)}
		}
		return &ast.EnumCasePattern{EnumName: enumName, CaseName: caseName, Span: p.span(start)}

	case lexer.INT:
		v := p.own(p.cur.Value)
		p.next()
		return &ast.IntLit{Raw: v, Span: p.span(start)}

	case lexer.STRING:
		v := p.own(p.cur.Value)
		p.next()
		return &ast.StringLit{Value: v, Span: p.span(start)}

	case lexer.RUNE:
		r := []rune(p.cur.Value)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		p.next()
		return &ast.RuneLit{Value: v, Span: p.span(start)}
	}

	p.errorf(errors.PAR005, "invalid pattern syntax near %s", p.cur.Kind)
	p.next()
	return &ast.WildcardPattern{Span: p.span(start)}
}
