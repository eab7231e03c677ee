package checker

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/comptime"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/types"
)

func (c *Checker) defineSymbol(name string, span ast.Span, t types.Type, immutable bool, pub bool) *hir.Symbol {
	sym := &hir.Symbol{
		Name: name, ModuleID: c.moduleID, Span: span, Type: t,
		Immutable: immutable, Exported: pub, DeclIndex: c.declIndex[name],
	}
	c.symbols[name] = sym
	return sym
}

func (c *Checker) checkStructDecl(d *ast.StructDecl) hir.Decl {
	named := c.namedTypes[d.Name].(*types.Named)
	st := named.Underlying.(*types.Struct)

	// Finite-representation invariant (spec.md §3): a struct whose
	// own fields directly contain itself by value (no pointer/slice
	// indirection) is infinitely sized.
	for _, f := range st.Fields {
		if f.Type.Equals(named) {
			c.errAt(errors.TYP006, d.Span, "struct %q is infinitely sized: field %q contains it by value", d.Name, f.Name)
			break
		}
	}

	sym := c.defineSymbol(d.Name, d.Span, named, true, d.Pub)
	sym.IsType = true
	return hir.NewStructDecl(d.Span, attrsFromAST(d.Attrs), sym, st)
}

func (c *Checker) checkEnumDecl(d *ast.EnumDecl) hir.Decl {
	named := c.namedTypes[d.Name].(*types.Named)
	et := named.Underlying.(*types.Enum)

	sym := c.defineSymbol(d.Name, d.Span, named, true, d.Pub)
	sym.IsType = true
	return hir.NewEnumDecl(d.Span, attrsFromAST(d.Attrs), sym, et)
}

func (c *Checker) checkAliasDecl(d *ast.TypeAliasDecl) hir.Decl {
	t := c.namedTypes[d.Name]
	sym := c.defineSymbol(d.Name, d.Span, t, true, d.Pub)
	sym.IsType = true
	return hir.NewAliasDecl(d.Span, sym, t)
}

func (c *Checker) checkConstDecl(d *ast.ConstDecl) hir.Decl {
	c.isComptime = true
	tctx := types.NewTypeContext()
	var expected types.Type
	if d.Type != nil {
		expected = c.resolveType(d.Type)
	}
	valueExpr := c.checkExpr(d.Value, tctx, expected)
	tctx.FinishExpr()

	finalType := valueExpr.ExprType()
	if expected != nil {
		if res := types.Subtype(tctx, finalType, expected); res == types.SubFail {
			c.errAt(errors.TYP004, d.Span, "const %q initializer type %s is not assignable to declared type %s", d.Name, finalType.String(), expected.String())
		} else {
			finalType = expected
		}
	}

	sym := c.defineSymbol(d.Name, d.Span, finalType, true, d.Pub)
	sym.IsConst = true

	var cv comptime.Value
	if !c.isComptime {
		c.errAt(errors.CMT005, d.Span, "const %q initializer is not a constant expression", d.Name)
	} else {
		v, err := c.ev.Eval(valueExpr)
		if err != nil {
			if rep, ok := errors.As(err); ok {
				c.errs.Add(rep)
			}
		} else {
			cv = v
			c.constVals[sym] = v
			c.ev.Consts[sym] = v
		}
	}
	c.isComptime = false

	return hir.NewGlobalConst(d.Span, sym, cv)
}

func (c *Checker) checkLetDecl(d *ast.LetDecl) hir.Decl {
	c.isComptime = true
	tctx := types.NewTypeContext()
	var expected types.Type
	if d.Type != nil {
		expected = c.resolveType(d.Type)
	}

	var valueExpr hir.Expr
	if d.Value != nil {
		valueExpr = c.checkExpr(d.Value, tctx, expected)
		tctx.FinishExpr()
	}

	finalType := expected
	if finalType == nil && valueExpr != nil {
		finalType = valueExpr.ExprType()
	}
	if finalType == nil {
		finalType = placeholderType
	}
	if valueExpr != nil && expected != nil {
		if res := types.Subtype(tctx, valueExpr.ExprType(), expected); res == types.SubFail {
			c.errAt(errors.TYP004, d.Span, "global %q initializer type %s is not assignable to declared type %s", d.Name, valueExpr.ExprType().String(), expected.String())
		}
	}

	sym := c.defineSymbol(d.Name, d.Span, finalType, false, d.Pub)

	gv := hir.NewGlobalVar(d.Span, sym, valueExpr, nil)
	if valueExpr != nil && c.isComptime {
		if v, err := c.ev.Eval(valueExpr); err == nil {
			gv.Init = v
			c.ev.Consts[sym] = v
		}
	}
	c.isComptime = false
	return gv
}

func (c *Checker) checkFuncDecl(d *ast.FuncDecl) hir.Decl {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.resolveType(p.Type)
	}
	ret := types.Type(types.UnitT)
	if d.ReturnType != nil {
		ret = c.resolveType(d.ReturnType)
	}
	fnType := &types.Function{Params: params, Return: ret}

	var recvSym *hir.Symbol
	if d.Receiver != nil {
		recvType := c.resolveType(d.Receiver.Type)
		recvSym = &hir.Symbol{Name: d.Receiver.Name, ModuleID: c.moduleID, Span: d.Receiver.Span, Type: recvType}
		if named, ok := recvType.(*types.Named); ok {
			named.Methods = append(named.Methods, types.Method{Name: d.Name, Func: fnType})
		}
	}

	sym := c.defineSymbol(d.Name, d.Span, fnType, true, d.Pub)
	sym.IsFunc = true

	extern := hasAttr(d.Attrs, "extern")
	abientry := hasAttr(d.Attrs, "abientry")
	if extern && abientry {
		c.errAt(errors.PAR004, d.Span, "@extern and @abientry are mutually exclusive")
	}

	var body *hir.Block
	if d.Body != nil && !extern {
		c.scopes.push()
		if recvSym != nil {
			c.scopes.define(recvSym.Name, recvSym)
		}
		paramSyms := make([]*hir.Symbol, len(d.Params))
		for i, p := range d.Params {
			psym := &hir.Symbol{Name: p.Name, ModuleID: c.moduleID, Span: p.Span, Type: params[i]}
			paramSyms[i] = psym
			c.scopes.define(p.Name, psym)
		}
		savedReturn := c.curReturn
		c.curReturn = ret
		body = c.checkBlock(d.Body)
		c.curReturn = savedReturn
		c.scopes.pop()

		return hir.NewFuncDecl(d.Span, attrsFromAST(d.Attrs), sym, recvSym, paramSyms, ret, body)
	}

	paramSyms := make([]*hir.Symbol, len(d.Params))
	for i, p := range d.Params {
		paramSyms[i] = &hir.Symbol{Name: p.Name, ModuleID: c.moduleID, Span: p.Span, Type: params[i]}
	}
	return hir.NewFuncDecl(d.Span, attrsFromAST(d.Attrs), sym, recvSym, paramSyms, ret, nil)
}

func (c *Checker) checkFactoryDecl(d *ast.FactoryDecl) hir.Decl {
	named, ok := c.namedTypes[d.TypeName].(*types.Named)
	if !ok {
		c.errAt(errors.RES001, d.Span, "factory declared for undefined type %q", d.TypeName)
		named = &types.Named{Name: d.TypeName, Underlying: placeholderType}
	}

	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.resolveType(p.Type)
	}
	named.Factory = &types.Function{Params: params, Return: named}

	sym := c.defineSymbol(d.TypeName+"#factory", d.Span, named.Factory, true, true)
	sym.IsFunc = true

	c.scopes.push()
	paramSyms := make([]*hir.Symbol, len(d.Params))
	for i, p := range d.Params {
		psym := &hir.Symbol{Name: p.Name, ModuleID: c.moduleID, Span: p.Span, Type: params[i]}
		paramSyms[i] = psym
		c.scopes.define(p.Name, psym)
	}
	savedReturn := c.curReturn
	c.curReturn = named
	body := c.checkBlock(d.Body)
	c.curReturn = savedReturn
	c.scopes.pop()

	return hir.NewFactoryDecl(d.Span, sym, d.TypeName, paramSyms, body)
}
