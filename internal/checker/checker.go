package checker

import (
	"fmt"
	"sort"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/comptime"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/loader"
	"github.com/brylang/bryc/internal/target"
	"github.com/brylang/bryc/internal/types"
)

// Checker binds and type-checks one module's sorted declarations,
// producing HIR, per spec.md §4.7.
type Checker struct {
	moduleID   int
	moduleName string
	platform   target.Platform
	errs       *errors.Counter

	// namedTypes holds this module's struct/enum/alias declarations,
	// keyed by name, populated as each is checked (so later decls in
	// the resolver's order can reference earlier ones).
	namedTypes map[string]types.Type
	// symbols holds every top-level symbol this module declares
	// (functions, factories, globals, types treated as compile-time
	// symbols), keyed by name.
	symbols map[string]*hir.Symbol

	imports map[string]*loader.Module // alias -> loaded dependency
	core    *loader.Module

	scopes      *scopeStack
	unsafeDepth int
	isComptime  bool
	curReturn   types.Type

	ev        *comptime.Evaluator
	constVals map[*hir.Symbol]comptime.Value

	declIndex map[string]int // stable index per spec.md's Symbol.decl_index

	// importModuleIDs assigns each import alias a stable synthetic
	// module id (sorted by alias, offset away from this module's own
	// id) so cross-module Named types compare equal across repeated
	// uses within one Checker. foreignSyms caches the *hir.Symbol built
	// for each alias.name pair the first time it is referenced.
	importModuleIDs map[string]int
	foreignSyms     map[string]map[string]*hir.Symbol
}

// New creates a Checker for moduleID/moduleName, targeting platform.
// imports maps each local import alias to its already-checked
// loader.Module; core is the implicit last-resort dependency (may be
// nil for the core module's own compilation).
func New(moduleID int, moduleName string, platform target.Platform, imports map[string]*loader.Module, core *loader.Module) *Checker {
	ev := comptime.New(platform)
	return &Checker{
		moduleID:   moduleID,
		moduleName: moduleName,
		platform:   platform,
		errs:       &errors.Counter{},
		namedTypes: make(map[string]types.Type),
		symbols:    make(map[string]*hir.Symbol),
		imports:    imports,
		core:       core,
		scopes:     newScopeStack(),
		ev:         ev,
		constVals:  make(map[*hir.Symbol]comptime.Value),
		declIndex:  make(map[string]int),

		importModuleIDs: assignImportIDs(imports, moduleID),
		foreignSyms:     make(map[string]map[string]*hir.Symbol),
	}
}

// assignImportIDs hands every import alias a distinct id, ordered by
// alias name for determinism and offset past ownID so it never
// collides with the module being checked.
func assignImportIDs(imports map[string]*loader.Module, ownID int) map[string]int {
	aliases := make([]string, 0, len(imports))
	for a := range imports {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	ids := make(map[string]int, len(aliases))
	for i, a := range aliases {
		ids[a] = ownID + 1000 + i
	}
	return ids
}

// Errors returns every diagnostic recorded while checking.
func (c *Checker) Errors() *errors.Counter { return c.errs }

func (c *Checker) errAt(code string, span ast.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sp := &errors.Span{
		File: span.Start.File, StartLine: span.Start.Line, StartCol: span.Start.Col,
		EndLine: span.End.Line, EndCol: span.End.Col,
	}
	c.errs.Add(errors.New(code, msg, sp))
}

// placeholderType stands in for a type the checker could not resolve,
// so sibling declarations keep checking per spec.md §4.7's
// declaration-granularity recovery.
var placeholderType types.Type = &types.Struct{}

// CheckDecls checks file's declarations in the given order (the
// resolver's sorted type/const names followed by the remaining
// function/global decls in source order — see OrderDecls) and
// returns their HIR form. No HIR is meaningful if c.Errors().Count()
// is non-zero when this returns, per spec.md §4.7's fatal-error rule,
// but recoverable per-declaration errors still yield best-effort HIR
// for the rest.
func (c *Checker) CheckDecls(order []ast.Decl) []hir.Decl {
	// Pass 1: register every named type (struct/enum/alias) so
	// forward references within the same pass resolve, since the
	// resolver has already ordered them dependency-first.
	for i, d := range order {
		c.declIndex[d.DeclName()] = i
		switch dd := d.(type) {
		case *ast.StructDecl:
			c.namedTypes[dd.Name] = c.buildStructType(dd)
		case *ast.EnumDecl:
			c.namedTypes[dd.Name] = c.buildEnumType(dd)
		case *ast.TypeAliasDecl:
			c.namedTypes[dd.Name] = &types.Alias{ModuleID: c.moduleID, ModuleName: c.moduleName, Name: dd.Name, Target: c.resolveType(dd.Alias)}
		}
	}

	out := make([]hir.Decl, 0, len(order))
	for _, d := range order {
		if hd := c.checkDecl(d); hd != nil {
			out = append(out, hd)
		}
	}
	return out
}

func (c *Checker) checkDecl(d ast.Decl) hir.Decl {
	switch dd := d.(type) {
	case *ast.StructDecl:
		return c.checkStructDecl(dd)
	case *ast.EnumDecl:
		return c.checkEnumDecl(dd)
	case *ast.TypeAliasDecl:
		return c.checkAliasDecl(dd)
	case *ast.ConstDecl:
		return c.checkConstDecl(dd)
	case *ast.LetDecl:
		return c.checkLetDecl(dd)
	case *ast.FuncDecl:
		return c.checkFuncDecl(dd)
	case *ast.FactoryDecl:
		return c.checkFactoryDecl(dd)
	}
	return nil
}

func attrsFromAST(in []*ast.Attribute) []hir.Attribute {
	out := make([]hir.Attribute, len(in))
	for i, a := range in {
		out[i] = hir.Attribute{Name: a.Name, Span: a.Span, ValueSpan: a.ValueSpan}
		if v, ok := attrValue(a); ok {
			out[i].Value = v
			out[i].HasValue = true
		}
	}
	return out
}

// attrValue extracts a single scalar attribute argument as a string,
// matching spec.md's Attribute (name, value) data model. Attributes
// with zero or more than one argument carry no Value.
func attrValue(a *ast.Attribute) (string, bool) {
	if len(a.Args) != 1 {
		return "", false
	}
	switch v := a.Args[0].(type) {
	case *ast.StringLit:
		return v.Value, true
	case *ast.IntLit:
		return v.Raw, true
	case *ast.Ident:
		return v.Name, true
	}
	return "", false
}

func hasAttr(attrs []*ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
