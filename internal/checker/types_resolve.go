package checker

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/comptime"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/types"
)

// resolveType turns an ast.TypeExpr into a types.Type, consulting
// the builtin scalar table first, then this module's own
// declarations, then its core dependency, per spec.md §4.7.1/§4.7.5.
func (c *Checker) resolveType(t ast.TypeExpr) types.Type {
	if t == nil {
		return types.UnitT
	}
	switch tt := t.(type) {
	case *ast.NamedType:
		if builtin, ok := types.Lookup(tt.Name, c.platform.ArchBits); ok {
			return builtin
		}
		if local, ok := c.namedTypes[tt.Name]; ok {
			return local
		}
		if c.core != nil {
			if coreType, ok := c.lookupCoreType(tt.Name); ok {
				return coreType
			}
		}
		c.errAt(errors.RES001, tt.Span, "undefined type %q", tt.Name)
		return placeholderType
	case *ast.PointerType:
		return &types.Pointer{Elem: c.resolveType(tt.Elem)}
	case *ast.SliceType:
		return &types.Slice{Elem: c.resolveType(tt.Elem)}
	case *ast.ArrayType:
		n := c.evalArraySize(tt.Size)
		return &types.Array{Elem: c.resolveType(tt.Elem), Len: n}
	case *ast.FuncType:
		params := make([]types.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = c.resolveType(p)
		}
		ret := types.Type(types.UnitT)
		if tt.Return != nil {
			ret = c.resolveType(tt.Return)
		}
		return &types.Function{Params: params, Return: ret}
	}
	return placeholderType
}

// lookupCoreType looks up a struct/enum/alias name among the core
// module's exported declarations (spec.md §4.4.4: the core module is
// implicitly imported last and satisfies otherwise-unresolved
// lookups). Since the checker runs module-at-a-time, the type is
// rebuilt structurally from the core module's AST on every lookup; no
// cache of already-checked core types is consulted.
func (c *Checker) lookupCoreType(name string) (types.Type, bool) {
	decl, ok := c.core.Exports[name]
	if !ok {
		return nil, false
	}
	switch dd := decl.(type) {
	case *ast.StructDecl:
		return c.buildStructType(dd), true
	case *ast.EnumDecl:
		return c.buildEnumType(dd), true
	case *ast.TypeAliasDecl:
		return &types.Alias{Name: dd.Name, Target: c.resolveType(dd.Alias)}, true
	}
	return nil, false
}

func (c *Checker) buildStructType(d *ast.StructDecl) *types.Named {
	fields := make([]types.StructField, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = types.StructField{Name: f.Name, Type: c.resolveType(f.Type), Exported: true}
	}
	return &types.Named{
		ModuleID: c.moduleID, ModuleName: c.moduleName, Name: d.Name,
		Underlying: &types.Struct{Fields: fields},
	}
}

func (c *Checker) buildEnumType(d *ast.EnumDecl) *types.Named {
	variants := make([]string, len(d.Cases))
	tags := make(map[string]int64, len(d.Cases))
	for i, cs := range d.Cases {
		variants[i] = cs.Name
		tags[cs.Name] = int64(i)
	}
	return &types.Named{
		ModuleID: c.moduleID, ModuleName: c.moduleName, Name: d.Name,
		Underlying: &types.Enum{Variants: variants, Tags: tags},
	}
}

// evalArraySize folds an array-type's size expression at compile
// time; a non-constant size is a comptime error (CMT005) and the
// array degrades to length 0 so checking can continue.
func (c *Checker) evalArraySize(sizeExpr ast.Expr) int64 {
	tctx := types.NewTypeContext()
	hirExpr := c.checkExpr(sizeExpr, tctx, nil)
	tctx.FinishExpr()
	v, err := c.ev.Eval(hirExpr)
	if err != nil {
		if rep, ok := errors.As(err); ok {
			c.errs.Add(rep)
		}
		return 0
	}
	if v.Kind != comptime.KInt {
		c.errAt(errors.CMT005, sizeExpr.Position(), "array size must be a constant integer")
		return 0
	}
	return v.Int
}
