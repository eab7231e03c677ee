package parser

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
)

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.cur
	p.expect(lexer.LBRACE)
	stmts := p.parseStmtsUntil(lexer.RBRACE)
	p.expect(lexer.RBRACE)
	return &ast.BlockStmt{Stmts: stmts, Span: p.span(start)}
}

// parseStmtsUntil mirrors parseDeclsUntil: it honors #if/#elif/#else/#end
// conditional compilation inside a statement sequence.
func (p *Parser) parseStmtsUntil(until lexer.Kind) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.curIs(until) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.DIRECTIVE) && (p.cur.Value == "elif" || p.cur.Value == "else" || p.cur.Value == "end") {
			return stmts
		}
		if p.curIs(lexer.DIRECTIVE) && p.cur.Value == "if" {
			stmts = append(stmts, p.parseConditionalStmts(until)...)
			continue
		}
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) parseConditionalStmts(until lexer.Kind) []ast.Stmt {
	taken := false
	var result []ast.Stmt
	for {
		name := p.cur.Value
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
			result = p.parseStmtsUntil(until)
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

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.CONST:
		return p.parseConstStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.MATCH:
		return p.parseMatchStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		start := p.cur
		p.next()
		p.consumeSemi()
		return &ast.BreakStmt{Span: p.span(start)}
	case lexer.CONTINUE:
		start := p.cur
		p.next()
		p.consumeSemi()
		return &ast.ContinueStmt{Span: p.span(start)}
	case lexer.FALLTHROUGH:
		start := p.cur
		p.next()
		p.consumeSemi()
		return &ast.FallthroughStmt{Span: p.span(start)}
	case lexer.UNSAFE:
		if p.peekIs(lexer.LBRACE) {
			start := p.cur
			p.next()
			body := p.parseBlockStmt()
			return &ast.UnsafeStmt{Body: body, Span: p.span(start)}
		}
	case lexer.SEMI:
		p.next()
		return nil
	}
	return p.parseSimpleStmt()
}

func (p *Parser) consumeSemi() {
	if p.curIs(lexer.SEMI) {
		p.next()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.cur
	p.next() // let
	name := p.cur.Value
	p.expect(lexer.IDENT)
	l := &ast.LetStmt{Name: name}
	if p.curIs(lexer.COLON) {
		p.next()
		l.Type = p.parseType()
	}
	if p.curIs(lexer.ASSIGN) {
		p.next()
		l.Value = p.parseExpr(LOWEST)
	}
	p.consumeSemi()
	l.Span = p.span(start)
	return l
}

func (p *Parser) parseConstStmt() ast.Stmt {
	start := p.cur
	p.next() // const
	name := p.cur.Value
	p.expect(lexer.IDENT)
	c := &ast.ConstStmt{Name: name}
	if p.curIs(lexer.COLON) {
		p.next()
		c.Type = p.parseType()
	}
	p.expect(lexer.ASSIGN)
	c.Value = p.parseExpr(LOWEST)
	p.consumeSemi()
	c.Span = p.span(start)
	return c
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.cur
	p.next() // if
	p.pushAllowStructLit(false)
	cond := p.parseExpr(LOWEST)
	p.popAllowStructLit()
	then := p.parseBlockStmt()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	for p.curIs(lexer.ELIF) {
		es := p.cur
		p.next()
		p.pushAllowStructLit(false)
		ec := p.parseExpr(LOWEST)
		p.popAllowStructLit()
		eb := p.parseBlockStmt()
		stmt.Elif = append(stmt.Elif, &ast.ElifClause{Cond: ec, Body: eb, Span: p.span(es)})
	}
	if p.curIs(lexer.ELSE) {
		p.next()
		stmt.Else = p.parseBlockStmt()
	}
	stmt.Span = p.span(start)
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.cur
	p.next() // while
	p.pushAllowStructLit(false)
	cond := p.parseExpr(LOWEST)
	p.popAllowStructLit()
	body := p.parseBlockStmt()
	w := &ast.WhileStmt{Cond: cond, Body: body}
	if p.curIs(lexer.ELSE) {
		p.next()
		w.Else = p.parseBlockStmt()
	}
	w.Span = p.span(start)
	return w
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	start := p.cur
	p.next() // do
	body := p.parseBlockStmt()
	p.expect(lexer.WHILE)
	p.pushAllowStructLit(false)
	cond := p.parseExpr(LOWEST)
	p.popAllowStructLit()
	p.consumeSemi()
	return &ast.WhileStmt{Cond: cond, Body: body, IsDoWhile: true, Span: p.span(start)}
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.cur
	p.next() // for
	f := &ast.ForStmt{}
	if p.curIs(lexer.LET) {
		f.Init = p.parseLetStmt()
	} else if !p.curIs(lexer.SEMI) {
		f.Init = p.parseSimpleStmt()
	} else {
		p.next()
	}
	if !p.curIs(lexer.SEMI) {
		p.pushAllowStructLit(false)
		f.Cond = p.parseExpr(LOWEST)
		p.popAllowStructLit()
	}
	p.expect(lexer.SEMI)
	if !p.curIs(lexer.LBRACE) {
		p.pushAllowStructLit(false)
		f.Post = p.parseSimpleStmt()
		p.popAllowStructLit()
	}
	f.Body = p.parseBlockStmt()
	if p.curIs(lexer.ELSE) {
		p.next()
		f.Else = p.parseBlockStmt()
	}
	f.Span = p.span(start)
	return f
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.cur
	p.next() // match
	p.pushAllowStructLit(false)
	subject := p.parseExpr(LOWEST)
	p.popAllowStructLit()
	p.expect(lexer.LBRACE)
	m := &ast.MatchStmt{Subject: subject}
	for p.curIs(lexer.CASE) {
		cs := p.cur
		p.next()
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curIs(lexer.IF) {
			p.next()
			guard = p.parseExpr(LOWEST)
		}
		p.expect(lexer.COLON)
		var caseStmts []ast.Stmt
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			if s := p.parseStmt(); s != nil {
				caseStmts = append(caseStmts, s)
			}
		}
		body := &ast.BlockStmt{Stmts: caseStmts, Span: p.span(cs)}
		m.Cases = append(m.Cases, &ast.MatchCase{Pattern: pat, Guard: guard, Body: body, Span: p.span(cs)})
	}
	p.expect(lexer.RBRACE)
	m.Span = p.span(start)
	return m
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur
	p.next() // return
	r := &ast.ReturnStmt{}
	if !p.curIs(lexer.SEMI) && !p.curIs(lexer.RBRACE) {
		r.Value = p.parseExpr(LOWEST)
	}
	p.consumeSemi()
	r.Span = p.span(start)
	return r
}

// parseSimpleStmt parses an expression statement or an assignment:
// the common case of a for loop's init/post clause and ordinary
// statement-position expressions.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	start := p.cur
	x := p.parseExpr(LOWEST)

	switch p.cur.Kind {
	case lexer.ASSIGN, lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ,
		lexer.PERCENTEQ, lexer.AMPEQ, lexer.PIPEEQ, lexer.CARETEQ, lexer.SHLEQ, lexer.SHREQ:
		op := p.cur.Kind.String()
		p.next()
		rhs := p.parseExpr(LOWEST)
		p.consumeSemi()
		return &ast.AssignStmt{Target: x, Op: op, Value: rhs, Span: p.span(start)}
	case lexer.INC, lexer.DEC:
		op := p.cur.Kind.String()
		p.next()
		p.consumeSemi()
		return &ast.AssignStmt{Target: x, Op: op, Span: p.span(start)}
	}
	p.consumeSemi()
	return &ast.ExprStmt{X: x, Span: p.span(start)}
}
