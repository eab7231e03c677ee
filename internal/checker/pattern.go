package checker

import (
	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/types"
)

// checkMatch type-checks a match statement's subject and cases,
// reporting TYP005 (informational, non-fatal) when an enum subject's
// variant set is not fully covered and no wildcard/else arm is
// present, per spec.md §4.7.6.
func (c *Checker) checkMatch(s *ast.MatchStmt) hir.Stmt {
	tctx := types.NewTypeContext()
	subject := c.checkExpr(s.Subject, tctx, nil)
	tctx.FinishExpr()

	subjectType := subject.ExprType()
	et, isEnum := types.FullUnwrap(subjectType).(*types.Enum)

	covered := make(map[int64]bool)
	hasWildcard := false
	cases := make([]hir.MatchCase, 0, len(s.Cases))

	for _, cs := range s.Cases {
		c.scopes.push()
		pat := c.checkPattern(cs.Pattern, subjectType, covered)
		if _, ok := pat.(*hir.WildcardPattern); ok {
			hasWildcard = true
		}
		var guard hir.Expr
		if cs.Guard != nil {
			gtctx := types.NewTypeContext()
			guard = c.checkExpr(cs.Guard, gtctx, types.BoolT)
			gtctx.FinishExpr()
		}
		body := c.checkBlock(cs.Body)
		c.scopes.pop()
		cases = append(cases, hir.MatchCase{Pattern: pat, Guard: guard, Body: body})
	}

	exhaustive := hasWildcard
	if isEnum && !hasWildcard {
		exhaustive = len(covered) == len(et.Variants)
		if !exhaustive {
			c.errAt(errors.TYP005, s.Span, "match on %s is not exhaustive and has no wildcard arm", subjectType.String())
		}
	}

	return hir.NewMatch(s.Span, subject, cases, exhaustive)
}

// checkPattern type-checks one match-arm pattern against subjectType,
// recording the enum tags it covers in covered.
func (c *Checker) checkPattern(p ast.Pattern, subjectType types.Type, covered map[int64]bool) hir.Pattern {
	switch pp := p.(type) {
	case *ast.WildcardPattern:
		return hir.NewWildcardPattern(pp.Span)

	case *ast.Ident:
		if pp.Name == "_" {
			return hir.NewWildcardPattern(pp.Span)
		}
		// The parser cannot tell a binder from a nullary enum case with
		// no EnumName prefix (e.g. `None`); a name matching one of the
		// subject enum's own variants names that case instead of
		// binding, per spec.md §4.7.6.
		if et, ok := types.FullUnwrap(subjectType).(*types.Enum); ok {
			if tag, ok := et.Tag(pp.Name); ok {
				covered[tag] = true
				return hir.NewEnumCasePattern(pp.Span, tag, nil)
			}
		}
		sym := &hir.Symbol{Name: pp.Name, ModuleID: c.moduleID, Span: pp.Span, Type: subjectType}
		c.scopes.define(pp.Name, sym)
		return hir.NewBindPattern(pp.Span, sym)

	case *ast.IntLit:
		n, _ := parseIntRaw(pp.Raw)
		return hir.NewLiteralPattern(pp.Span, n)
	case *ast.RuneLit:
		return hir.NewLiteralPattern(pp.Span, int64(pp.Value))
	case *ast.StringLit:
		return hir.NewLiteralPattern(pp.Span, pp.Value)

	case *ast.EnumCasePattern:
		return c.checkEnumCasePattern(pp, subjectType, covered)

	case *ast.OrPattern:
		return c.checkOrPattern(pp, subjectType, covered)
	}
	c.errAt(errors.PAR005, p.Position(), "unsupported pattern kind %T", p)
	return hir.NewWildcardPattern(p.Position())
}

func (c *Checker) checkEnumCasePattern(p *ast.EnumCasePattern, subjectType types.Type, covered map[int64]bool) hir.Pattern {
	et, ok := types.FullUnwrap(subjectType).(*types.Enum)
	if !ok {
		c.errAt(errors.TYP002, p.Span, "enum-case pattern used against non-enum type %s", subjectType.String())
		return hir.NewEnumCasePattern(p.Span, 0, nil)
	}
	tag, ok := et.Tag(p.CaseName)
	if !ok {
		c.errAt(errors.RES001, p.Span, "enum %s has no case %q", subjectType.String(), p.CaseName)
		return hir.NewEnumCasePattern(p.Span, 0, nil)
	}
	covered[tag] = true

	payload := make([]hir.Pattern, len(p.Payload))
	for i, sub := range p.Payload {
		// Payload field types are not tracked per-variant in this
		// enum representation (spec.md's Enum carries tags only, no
		// per-case field list beyond what the declaration already
		// folded into Underlying); binder patterns degrade to the
		// subject's own type, which is sound for the common
		// bind-the-whole-payload case and for wildcards/literals.
		payload[i] = c.checkPattern(sub, subjectType, covered)
	}
	return hir.NewEnumCasePattern(p.Span, tag, payload)
}

// checkOrPattern type-checks `p1|p2|...`. No alternative may bind a
// new name, since the alternatives aren't guaranteed to agree on what
// it would bind; the parser can't enforce this itself because it
// can't distinguish a binder from a nullary enum-case name.
func (c *Checker) checkOrPattern(p *ast.OrPattern, subjectType types.Type, covered map[int64]bool) hir.Pattern {
	alts := make([]hir.Pattern, 0, len(p.Alts))
	for _, sub := range p.Alts {
		pat := c.checkPattern(sub, subjectType, covered)
		if _, ok := pat.(*hir.BindPattern); ok {
			c.errAt(errors.TYP008, sub.Position(), "alternated pattern arm must not bind a new name")
		}
		alts = append(alts, pat)
	}
	return hir.NewOrPattern(p.Span, alts)
}
