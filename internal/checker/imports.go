package checker

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/loader"
	"github.com/brylang/bryc/internal/types"
)

// checkStaticGet resolves `alias.name`, a cross-module reference into
// an already-loaded dependency's exported declarations, per
// spec.md §4.4.4.
func (c *Checker) checkStaticGet(span ast.Span, alias, name string) hir.Expr {
	mod := c.imports[alias]
	decl, ok := mod.Exports[name]
	if !ok {
		c.errAt(errors.RES001, span, "module %q exports no symbol %q", alias, name)
		return hir.NewStaticGet(span, &hir.Symbol{Name: name, Type: placeholderType})
	}
	sym := c.foreignSymbol(mod, alias, name, decl)
	return hir.NewStaticGet(span, sym)
}

// foreignSymbol builds (and caches) the *hir.Symbol standing in for
// one exported declaration of an imported module.
func (c *Checker) foreignSymbol(mod *loader.Module, alias, name string, decl ast.Decl) *hir.Symbol {
	byName, ok := c.foreignSyms[alias]
	if !ok {
		byName = make(map[string]*hir.Symbol)
		c.foreignSyms[alias] = byName
	}
	if sym, ok := byName[name]; ok {
		return sym
	}

	modID := c.importModuleIDs[alias]
	var sym *hir.Symbol
	switch d := decl.(type) {
	case *ast.StructDecl:
		sym = &hir.Symbol{
			Name: name, ModuleID: modID, Span: d.Span, Exported: true,
			Immutable: true, IsType: true,
			Type: c.buildForeignStructType(modID, alias, d),
		}
	case *ast.EnumDecl:
		sym = &hir.Symbol{
			Name: name, ModuleID: modID, Span: d.Span, Exported: true,
			Immutable: true, IsType: true,
			Type: c.buildForeignEnumType(modID, alias, d),
		}
	case *ast.TypeAliasDecl:
		sym = &hir.Symbol{
			Name: name, ModuleID: modID, Span: d.Span, Exported: true,
			Immutable: true, IsType: true,
			Type: &types.Alias{ModuleID: modID, ModuleName: alias, Name: name, Target: c.resolveType(d.Alias)},
		}
	case *ast.FuncDecl:
		params := make([]types.Type, len(d.Params))
		for i, p := range d.Params {
			params[i] = c.resolveType(p.Type)
		}
		ret := types.Type(types.UnitT)
		if d.ReturnType != nil {
			ret = c.resolveType(d.ReturnType)
		}
		sym = &hir.Symbol{
			Name: name, ModuleID: modID, Span: d.Span, Exported: true,
			Immutable: true, IsFunc: true,
			Type: &types.Function{Params: params, Return: ret},
		}
	default:
		// const/let exports: the initializer's type would require
		// re-running that module's checker, which the single-module
		// Checker does not have access to; callers still get a bound
		// symbol, just with a placeholder type.
		sym = &hir.Symbol{Name: name, ModuleID: modID, Span: decl.Position(), Exported: true, Immutable: true, Type: placeholderType}
	}
	byName[name] = sym
	return sym
}

func (c *Checker) buildForeignStructType(modID int, modName string, d *ast.StructDecl) *types.Named {
	fields := make([]types.StructField, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = types.StructField{Name: f.Name, Type: c.resolveType(f.Type), Exported: true}
	}
	return &types.Named{ModuleID: modID, ModuleName: modName, Name: d.Name, Underlying: &types.Struct{Fields: fields}}
}

func (c *Checker) buildForeignEnumType(modID int, modName string, d *ast.EnumDecl) *types.Named {
	variants := make([]string, len(d.Cases))
	tags := make(map[string]int64, len(d.Cases))
	for i, cs := range d.Cases {
		variants[i] = cs.Name
		tags[cs.Name] = int64(i)
	}
	return &types.Named{ModuleID: modID, ModuleName: modName, Name: d.Name, Underlying: &types.Enum{Variants: variants, Tags: tags}}
}
