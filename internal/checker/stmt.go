package checker

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/types"
)

func (c *Checker) checkBlock(b *ast.BlockStmt) *hir.Block {
	c.scopes.push()
	stmts := make([]hir.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		if hs := c.checkStmt(s); hs != nil {
			stmts = append(stmts, hs)
		}
	}
	c.scopes.pop()
	return hir.NewBlock(b.Span, stmts)
}

func (c *Checker) checkStmt(s ast.Stmt) hir.Stmt {
	switch ss := s.(type) {
	case *ast.BlockStmt:
		return c.checkBlock(ss)
	case *ast.ExprStmt:
		c.isComptime = false // bare expression statements (e.g. calls) are not constant contexts
		tctx := types.NewTypeContext()
		x := c.checkExpr(ss.X, tctx, nil)
		tctx.FinishExpr()
		return hir.NewExprStmt(ss.Span, x)
	case *ast.LetStmt:
		return c.checkLocalLet(ss)
	case *ast.ConstStmt:
		return c.checkLocalConst(ss)
	case *ast.AssignStmt:
		return c.checkAssign(ss)
	case *ast.IfStmt:
		return c.checkIf(ss)
	case *ast.WhileStmt:
		return c.checkWhile(ss)
	case *ast.ForStmt:
		return c.checkFor(ss)
	case *ast.MatchStmt:
		return c.checkMatch(ss)
	case *ast.ReturnStmt:
		return c.checkReturn(ss)
	case *ast.BreakStmt:
		return hir.NewBreak(ss.Span)
	case *ast.ContinueStmt:
		return hir.NewContinue(ss.Span)
	case *ast.FallthroughStmt:
		return hir.NewFallthrough(ss.Span)
	case *ast.UnsafeStmt:
		c.unsafeDepth++
		body := c.checkBlock(ss.Body)
		c.unsafeDepth--
		return hir.NewUnsafe(ss.Span, body)
	}
	return nil
}

func (c *Checker) checkLocalLet(s *ast.LetStmt) hir.Stmt {
	tctx := types.NewTypeContext()
	var expected types.Type
	if s.Type != nil {
		expected = c.resolveType(s.Type)
	}
	var init hir.Expr
	if s.Value != nil {
		init = c.checkExpr(s.Value, tctx, expected)
		tctx.FinishExpr()
	}
	finalType := expected
	if finalType == nil && init != nil {
		finalType = init.ExprType()
	}
	if finalType == nil {
		finalType = placeholderType
	}
	if init != nil && expected != nil {
		if res := types.Subtype(tctx, init.ExprType(), expected); res == types.SubFail {
			c.errAt(errors.TYP004, s.Span, "initializer type %s is not assignable to declared type %s", init.ExprType().String(), expected.String())
		}
	}
	sym := &hir.Symbol{Name: s.Name, ModuleID: c.moduleID, Span: s.Span, Type: finalType}
	if !c.scopes.define(s.Name, sym) {
		c.errAt(errors.PAR003, s.Span, "redeclaration of %q in this scope", s.Name)
	}
	return hir.NewLocalVar(s.Span, sym, init)
}

func (c *Checker) checkLocalConst(s *ast.ConstStmt) hir.Stmt {
	c.isComptime = true
	tctx := types.NewTypeContext()
	var expected types.Type
	if s.Type != nil {
		expected = c.resolveType(s.Type)
	}
	init := c.checkExpr(s.Value, tctx, expected)
	tctx.FinishExpr()
	finalType := init.ExprType()
	if expected != nil {
		finalType = expected
	}
	if !c.isComptime {
		c.errAt(errors.CMT005, s.Span, "local const %q initializer is not a constant expression", s.Name)
	}
	c.isComptime = false
	sym := &hir.Symbol{Name: s.Name, ModuleID: c.moduleID, Span: s.Span, Type: finalType, Immutable: true}
	if !c.scopes.define(s.Name, sym) {
		c.errAt(errors.PAR003, s.Span, "redeclaration of %q in this scope", s.Name)
	}
	return hir.NewLocalConst(s.Span, sym, init)
}

func (c *Checker) checkAssign(s *ast.AssignStmt) hir.Stmt {
	tctx := types.NewTypeContext()
	target := c.checkExpr(s.Target, tctx, nil)
	if !target.Assignable() {
		c.errAt(errors.TYP002, s.Span, "left-hand side of assignment is not assignable")
	}
	var value hir.Expr
	if s.Value != nil {
		value = c.checkExpr(s.Value, tctx, target.ExprType())
		if res := types.Subtype(tctx, value.ExprType(), target.ExprType()); res == types.SubFail {
			c.errAt(errors.TYP004, s.Span, "cannot assign %s to %s", value.ExprType().String(), target.ExprType().String())
		}
	}
	tctx.FinishExpr()
	return hir.NewAssign(s.Span, target, s.Op, value)
}

func (c *Checker) checkIf(s *ast.IfStmt) hir.Stmt {
	tctx := types.NewTypeContext()
	cond := c.checkExpr(s.Cond, tctx, types.BoolT)
	tctx.FinishExpr()
	then := c.checkBlock(s.Then)

	var elseStmt hir.Stmt
	if len(s.Elif) > 0 {
		elseStmt = c.buildElifChain(s.Elif, s.Else)
	} else if s.Else != nil {
		elseStmt = c.checkBlock(s.Else)
	}
	return hir.NewIf(s.Span, cond, then, elseStmt)
}

func (c *Checker) buildElifChain(elifs []*ast.ElifClause, finalElse *ast.BlockStmt) hir.Stmt {
	head := elifs[0]
	tctx := types.NewTypeContext()
	cond := c.checkExpr(head.Cond, tctx, types.BoolT)
	tctx.FinishExpr()
	body := c.checkBlock(head.Body)

	var rest hir.Stmt
	if len(elifs) > 1 {
		rest = c.buildElifChain(elifs[1:], finalElse)
	} else if finalElse != nil {
		rest = c.checkBlock(finalElse)
	}
	return hir.NewIf(head.Span, cond, body, rest)
}

func (c *Checker) checkWhile(s *ast.WhileStmt) hir.Stmt {
	tctx := types.NewTypeContext()
	cond := c.checkExpr(s.Cond, tctx, types.BoolT)
	tctx.FinishExpr()
	body := c.checkBlock(s.Body)
	var els *hir.Block
	if s.Else != nil {
		els = c.checkBlock(s.Else)
	}
	return hir.NewWhile(s.Span, cond, body, els, s.IsDoWhile)
}

func (c *Checker) checkFor(s *ast.ForStmt) hir.Stmt {
	c.scopes.push()
	defer c.scopes.pop()

	var init hir.Stmt
	if s.Init != nil {
		init = c.checkStmt(s.Init)
	}
	var cond hir.Expr
	if s.Cond != nil {
		tctx := types.NewTypeContext()
		cond = c.checkExpr(s.Cond, tctx, types.BoolT)
		tctx.FinishExpr()
	}
	var post hir.Stmt
	if s.Post != nil {
		post = c.checkStmt(s.Post)
	}
	body := c.checkBlock(s.Body)
	var els *hir.Block
	if s.Else != nil {
		els = c.checkBlock(s.Else)
	}
	return hir.NewFor(s.Span, init, cond, post, body, els)
}

func (c *Checker) checkReturn(s *ast.ReturnStmt) hir.Stmt {
	var value hir.Expr
	if s.Value != nil {
		tctx := types.NewTypeContext()
		expected := c.curReturn
		value = c.checkExpr(s.Value, tctx, expected)
		tctx.FinishExpr()
		if expected != nil {
			if res := types.Subtype(tctx, value.ExprType(), expected); res == types.SubFail {
				c.errAt(errors.TYP004, s.Span, "return type %s does not match function return type %s", value.ExprType().String(), expected.String())
			}
		}
	}
	return hir.NewReturn(s.Span, value)
}
