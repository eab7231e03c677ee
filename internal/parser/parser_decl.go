package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
)

// parseDecl parses one top-level declaration, including any leading
// `@attr(...)` annotations and an optional `pub` modifier.
func (p *Parser) parseDecl() ast.Decl {
	attrs := p.parseAttributes()
	pub := false
	if p.curIs(lexer.PUB) {
		pub = true
		p.next()
	}

	switch p.cur.Kind {
	case lexer.FUNC:
		return p.parseFuncDecl(pub, attrs)
	case lexer.STRUCT:
		return p.parseStructDecl(pub, attrs)
	case lexer.ENUM:
		return p.parseEnumDecl(pub, attrs)
	case lexer.TYPE:
		return p.parseTypeAliasDecl(pub)
	case lexer.CONST:
		return p.parseConstDecl(pub)
	case lexer.LET:
		return p.parseLetDecl(pub)
	case lexer.FACTORY:
		return p.parseFactoryDecl()
	}

	p.errorf(errors.PAR003, "invalid declaration syntax near %s", p.cur.Kind)
	p.next()
	return nil
}

// parseAttributes parses the leading `@name`/`@name(args)` run before
// a declaration, including the bracketed multi-attribute form
// `@[a, b(v)]` (sugar for `@a @b(v)`).
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.curIs(lexer.AT) {
		p.next() // @
		if p.curIs(lexer.LBRACKET) {
			p.next()
			for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
				attrs = append(attrs, p.parseOneAttribute())
				if p.curIs(lexer.COMMA) {
					p.next()
				} else {
					break
				}
			}
			p.expect(lexer.RBRACKET)
			continue
		}
		attrs = append(attrs, p.parseOneAttribute())
	}
	return attrs
}

// parseOneAttribute parses a single `name[(args)]` entry, standalone
// after `@` or as one element of a bracketed group.
func (p *Parser) parseOneAttribute() *ast.Attribute {
	start := p.cur
	nameTok := p.cur
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	a := &ast.Attribute{Name: name, NameSpan: ast.Span{Start: p.pos(nameTok), End: ast.Pos{Line: nameTok.EndLine, Col: nameTok.EndCol, File: nameTok.File}}}
	if p.curIs(lexer.LPAREN) {
		valStart := p.cur
		p.next()
		for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
			a.Args = append(a.Args, p.parseExpr(LOWEST))
			if p.curIs(lexer.COMMA) {
				p.next()
			} else {
				break
			}
		}
		p.expect(lexer.RPAREN)
		a.ValueSpan = p.span(valStart)
	}
	a.Span = p.span(start)
	return a
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
		start := p.cur
		name := p.own(p.cur.Value)
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		typ := p.parseType()
		params = append(params, &ast.Param{Name: name, Type: typ, Span: p.span(start)})
		if p.curIs(lexer.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseArrowReturnType() ast.TypeExpr {
	if p.curIs(lexer.MINUS) && p.peekIs(lexer.GT) {
		p.next()
		p.next()
		return p.parseType()
	}
	return nil
}

func (p *Parser) parseFuncDecl(pub bool, attrs []*ast.Attribute) ast.Decl {
	start := p.cur
	p.next() // func

	var recv *ast.Param
	if p.curIs(lexer.LPAREN) {
		p.next()
		rs := p.cur
		rname := p.own(p.cur.Value)
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		rtype := p.parseType()
		recv = &ast.Param{Name: rname, Type: rtype, Span: p.span(rs)}
		p.expect(lexer.RPAREN)
	}

	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	params := p.parseParamList()
	ret := p.parseArrowReturnType()
	body := p.parseBlockStmt()

	return &ast.FuncDecl{
		Name: name, Pub: pub, Receiver: recv, Params: params,
		ReturnType: ret, Body: body, Attrs: attrs, Span: p.span(start),
	}
}

func (p *Parser) parseStructDecl(pub bool, attrs []*ast.Attribute) ast.Decl {
	start := p.cur
	p.next() // struct
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)
	d := &ast.StructDecl{Name: name, Pub: pub, Attrs: attrs}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		fs := p.cur
		fname := p.own(p.cur.Value)
		p.expect(lexer.IDENT)
		p.expect(lexer.COLON)
		ftype := p.parseType()
		d.Fields = append(d.Fields, &ast.StructField{Name: fname, Type: ftype, Span: p.span(fs)})
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	d.Span = p.span(start)
	return d
}

func (p *Parser) parseEnumDecl(pub bool, attrs []*ast.Attribute) ast.Decl {
	start := p.cur
	p.next() // enum
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	p.expect(lexer.LBRACE)
	d := &ast.EnumDecl{Name: name, Pub: pub, Attrs: attrs}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		cs := p.cur
		cname := p.own(p.cur.Value)
		p.expect(lexer.IDENT)
		c := &ast.EnumCase{Name: cname}
		if p.curIs(lexer.LPAREN) {
			p.next()
			for !p.curIs(lexer.RPAREN) && !p.curIs(lexer.EOF) {
				c.Payload = append(c.Payload, p.parseType())
				if p.curIs(lexer.COMMA) {
					p.next()
				} else {
					break
				}
			}
			p.expect(lexer.RPAREN)
		}
		c.Span = p.span(cs)
		d.Cases = append(d.Cases, c)
		if p.curIs(lexer.COMMA) {
			p.next()
		}
	}
	p.expect(lexer.RBRACE)
	d.Span = p.span(start)
	return d
}

func (p *Parser) parseTypeAliasDecl(pub bool) ast.Decl {
	start := p.cur
	p.next() // type
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	alias := p.parseType()
	p.consumeSemi()
	return &ast.TypeAliasDecl{Name: name, Pub: pub, Alias: alias, Span: p.span(start)}
}

func (p *Parser) parseConstDecl(pub bool) ast.Decl {
	start := p.cur
	p.next() // const
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	d := &ast.ConstDecl{Name: name, Pub: pub}
	if p.curIs(lexer.COLON) {
		p.next()
		d.Type = p.parseType()
	}
	p.expect(lexer.ASSIGN)
	d.Value = p.parseExpr(LOWEST)
	p.consumeSemi()
	d.Span = p.span(start)
	return d
}

func (p *Parser) parseLetDecl(pub bool) ast.Decl {
	start := p.cur
	p.next() // let
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	d := &ast.LetDecl{Name: name, Pub: pub}
	if p.curIs(lexer.COLON) {
		p.next()
		d.Type = p.parseType()
	}
	if p.curIs(lexer.ASSIGN) {
		p.next()
		d.Value = p.parseExpr(LOWEST)
	}
	p.consumeSemi()
	d.Span = p.span(start)
	return d
}

func (p *Parser) parseFactoryDecl() ast.Decl {
	start := p.cur
	p.next() // factory
	name := p.own(p.cur.Value)
	p.expect(lexer.IDENT)
	params := p.parseParamList()
	p.parseArrowReturnType() // the return type is always the factory's own type; discarded
	body := p.parseBlockStmt()
	return &ast.FactoryDecl{TypeName: name, Params: params, Body: body, Span: p.span(start)}
}
