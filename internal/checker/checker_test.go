package checker

import (
	"testing"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/loader"
	"github.com/brylang/bryc/internal/parser"
	"github.com/brylang/bryc/internal/resolver"
	"github.com/brylang/bryc/internal/target"
)

// parseAndCheck parses src as a standalone file and runs it through
// the resolver and checker, returning the checked HIR declarations.
func parseAndCheck(t *testing.T, src string) ([]hir.Decl, *errors.Counter) {
	t.Helper()
	lx := lexer.New(src, "test.bry")
	p := parser.New(lx, "test.bry")
	file := p.ParseFile()
	if p.Errors().Count() > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	order, err := resolver.New(file).Resolve()
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	decls := OrderDecls(file, order)

	c := New(0, "test", target.Host(), map[string]*loader.Module{}, nil)
	hirDecls := c.CheckDecls(decls)
	return hirDecls, c.Errors()
}

func findFunc(decls []hir.Decl, name string) *hir.FuncDecl {
	for _, d := range decls {
		if fd, ok := d.(*hir.FuncDecl); ok && fd.Symbol().Name == name {
			return fd
		}
	}
	return nil
}

func TestCheck_MainLocalVarIsI32(t *testing.T) {
	decls, errs := parseAndCheck(t, `func main() -> i32 {
  let x: i32 = 1 + 2;
  return x;
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
	fn := findFunc(decls, "main")
	if fn == nil {
		t.Fatalf("main not found in %v", decls)
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements in main's body, got %d", len(fn.Body.Stmts))
	}
	letStmt, ok := fn.Body.Stmts[0].(*hir.LocalVar)
	if !ok {
		t.Fatalf("expected a LocalVar, got %T", fn.Body.Stmts[0])
	}
	if letStmt.Sym.Type.String() != "i32" {
		t.Fatalf("expected x: i32, got %s", letStmt.Sym.Type.String())
	}
}

func TestCheck_StructFieldAccess(t *testing.T) {
	_, errs := parseAndCheck(t, `struct Point { x: i32, y: i32 }

func sum(p: Point) -> i32 {
  return p.x + p.y;
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
}

func TestCheck_LetInitializerTypeMismatch(t *testing.T) {
	_, errs := parseAndCheck(t, `func f() {
  let x: i32 = "not a number";
}
`)
	if errs.Count() == 0 {
		t.Fatalf("expected a TYP004 diagnostic for the string-to-i32 initializer")
	}
	found := false
	for _, r := range errs.Reports() {
		if r.Code == errors.TYP004 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYP004 among %v", errs.Reports())
	}
}

func TestCheck_NonExhaustiveMatchWarns(t *testing.T) {
	_, errs := parseAndCheck(t, `enum Color { Red, Green, Blue }

func name(c: Color) -> i32 {
  match c {
    case Red:
      return 0;
    case Green:
      return 1;
  }
  return -1;
}
`)
	found := false
	for _, r := range errs.Reports() {
		if r.Code == errors.TYP005 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYP005 among %v", errs.Reports())
	}
}

func TestCheck_ExhaustiveMatchNoWarning(t *testing.T) {
	_, errs := parseAndCheck(t, `enum Color { Red, Green, Blue }

func name(c: Color) -> i32 {
  match c {
    case Red:
      return 0;
    case Green:
      return 1;
    case Blue:
      return 2;
  }
}
`)
	for _, r := range errs.Reports() {
		if r.Code == errors.TYP005 {
			t.Fatalf("unexpected TYP005 for an exhaustive match: %v", errs.Reports())
		}
	}
}

func TestCheck_ConstFoldsArrayBound(t *testing.T) {
	_, errs := parseAndCheck(t, `const N: i32 = 2 + 2;

func f() {
  let xs: [N]i32;
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
}

func TestCheck_NewArrayAllocatesPointer(t *testing.T) {
	_, errs := parseAndCheck(t, `func f() -> *i32 {
  let p: *i32 = new i32[4];
  return p;
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
}

func TestCheck_NewArraySizeMustBeInteger(t *testing.T) {
	_, errs := parseAndCheck(t, `func f() -> *i32 {
  return new i32["nope"];
}
`)
	found := false
	for _, r := range errs.Reports() {
		if r.Code == errors.TYP001 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYP001 among %v", errs.Reports())
	}
}

func TestCheck_OrPatternMatchesEitherCase(t *testing.T) {
	_, errs := parseAndCheck(t, `enum Color { Red, Green, Blue }

func warm(c: Color) -> i32 {
  match c {
    case Red|Green:
      return 1;
    case Blue:
      return 0;
  }
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
}

func TestCheck_OrPatternRejectsBindingAlternative(t *testing.T) {
	_, errs := parseAndCheck(t, `enum Color { Red, Green, Blue }

func warm(c: Color) -> i32 {
  match c {
    case Red|x:
      return 1;
    case Blue:
      return 0;
  }
}
`)
	found := false
	for _, r := range errs.Reports() {
		if r.Code == errors.TYP008 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected TYP008 among %v", errs.Reports())
	}
}

func TestCheck_WhileElseRuns(t *testing.T) {
	_, errs := parseAndCheck(t, `func f(n: i32) -> i32 {
  while n > 0 {
    n = n - 1;
  } else {
    return -1;
  }
  return n;
}
`)
	if errs.Count() != 0 {
		t.Fatalf("unexpected checker errors: %v", errs.Reports())
	}
}

var _ ast.Node // keep ast imported for future expansion of these tests
