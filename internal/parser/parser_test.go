package parser

import (
	"testing"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New(src, "test.bry")
	p := New(l, "test.bry")
	file := p.ParseFile()
	if p.Errors().Count() > 0 {
		for _, r := range p.Errors().Reports() {
			t.Errorf("parse error: %s: %s", r.Code, r.Message)
		}
		t.FailNow()
	}
	return file
}

func TestParseFuncDecl(t *testing.T) {
	file := parse(t, `
		pub func add(a: i64, b: i64) -> i64 {
			return a + b;
		}
	`)
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", file.Decls[0])
	}
	if fn.Name != "add" || !fn.Pub || len(fn.Params) != 2 {
		t.Fatalf("unexpected func decl: %+v", fn)
	}
	ret, ok := fn.ReturnType.(*ast.NamedType)
	if !ok || ret.Name != "i64" {
		t.Fatalf("expected return type i64, got %+v", fn.ReturnType)
	}
}

func TestParseStructAndFactory(t *testing.T) {
	file := parse(t, `
		pub struct Point { x: i64, y: i64 }
		factory Point(x: i64, y: i64) -> Point {
			return Point{ x: x, y: y };
		}
	`)
	if len(file.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(file.Decls))
	}
	sd, ok := file.Decls[0].(*ast.StructDecl)
	if !ok || sd.Name != "Point" || len(sd.Fields) != 2 {
		t.Fatalf("unexpected struct decl: %+v", file.Decls[0])
	}
	fd, ok := file.Decls[1].(*ast.FactoryDecl)
	if !ok || fd.TypeName != "Point" {
		t.Fatalf("unexpected factory decl: %+v", file.Decls[1])
	}
}

func TestParseEnumDecl(t *testing.T) {
	file := parse(t, `
		enum Option {
			Some(i64),
			None
		}
	`)
	ed, ok := file.Decls[0].(*ast.EnumDecl)
	if !ok || len(ed.Cases) != 2 {
		t.Fatalf("unexpected enum decl: %+v", file.Decls[0])
	}
	if ed.Cases[0].Name != "Some" || len(ed.Cases[0].Payload) != 1 {
		t.Fatalf("unexpected case: %+v", ed.Cases[0])
	}
	if ed.Cases[1].Name != "None" || len(ed.Cases[1].Payload) != 0 {
		t.Fatalf("unexpected case: %+v", ed.Cases[1])
	}
}

func TestParseMatchStmt(t *testing.T) {
	file := parse(t, `
		func f(o: Option) -> i64 {
			match o {
			case Option.Some(n): return n;
			case Option.None: return 0;
			}
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	m, ok := fn.Body.Stmts[0].(*ast.MatchStmt)
	if !ok || len(m.Cases) != 2 {
		t.Fatalf("unexpected match stmt: %+v", fn.Body.Stmts[0])
	}
	pat, ok := m.Cases[0].Pattern.(*ast.EnumCasePattern)
	if !ok || pat.EnumName != "Option" || pat.CaseName != "Some" || len(pat.Payload) != 1 {
		t.Fatalf("unexpected pattern: %+v", m.Cases[0].Pattern)
	}
}

func TestStructLitDisambiguationInIfHeader(t *testing.T) {
	file := parse(t, `
		func f(cond: bool) -> i64 {
			if cond {
				return 1;
			}
			return 0;
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	ifs, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", fn.Body.Stmts[0])
	}
	if _, ok := ifs.Cond.(*ast.Ident); !ok {
		t.Fatalf("expected condition to parse as bare Ident, not struct literal: %+v", ifs.Cond)
	}
}

func TestStructLitAllowedInAssignment(t *testing.T) {
	file := parse(t, `
		struct P { x: i64 }
		func f() -> P {
			let p = P{ x: 1 };
			return p;
		}
	`)
	fn := file.Decls[1].(*ast.FuncDecl)
	let := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.StructLit); !ok {
		t.Fatalf("expected StructLit, got %T", let.Value)
	}
}

func TestParseForLoop(t *testing.T) {
	file := parse(t, `
		func f() {
			for let i = 0; i < 10; i++ {
			}
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	fs, ok := fn.Body.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", fn.Body.Stmts[0])
	}
	if fs.Init == nil || fs.Cond == nil || fs.Post == nil {
		t.Fatalf("expected all three for-clauses populated: %+v", fs)
	}
}

func TestParseImport(t *testing.T) {
	file := parse(t, `import "std/io" as io;`)
	if len(file.Imports) != 1 || file.Imports[0].Path != "std/io" || file.Imports[0].Alias != "io" {
		t.Fatalf("unexpected imports: %+v", file.Imports)
	}
}

func TestParsePointerAndSliceTypes(t *testing.T) {
	file := parse(t, `
		func f(p: *i64, s: []i64, a: [4]i64) {
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	if _, ok := fn.Params[0].Type.(*ast.PointerType); !ok {
		t.Fatalf("expected PointerType, got %+v", fn.Params[0].Type)
	}
	if _, ok := fn.Params[1].Type.(*ast.SliceType); !ok {
		t.Fatalf("expected SliceType, got %+v", fn.Params[1].Type)
	}
	if _, ok := fn.Params[2].Type.(*ast.ArrayType); !ok {
		t.Fatalf("expected ArrayType, got %+v", fn.Params[2].Type)
	}
}

func TestParseUnsafeBlock(t *testing.T) {
	file := parse(t, `
		func f(p: *i64) -> i64 {
			unsafe {
				return *p;
			}
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	if _, ok := fn.Body.Stmts[0].(*ast.UnsafeStmt); !ok {
		t.Fatalf("expected UnsafeStmt, got %T", fn.Body.Stmts[0])
	}
}

func TestParseAttribute(t *testing.T) {
	file := parse(t, `
		@packed
		struct Raw { b: i64 }
	`)
	sd := file.Decls[0].(*ast.StructDecl)
	if len(sd.Attrs) != 1 || sd.Attrs[0].Name != "packed" {
		t.Fatalf("unexpected attrs: %+v", sd.Attrs)
	}
}

func TestParseBracketedAttributeGroup(t *testing.T) {
	file := parse(t, `
		@[packed, align(4)]
		struct Raw { b: i64 }
	`)
	sd := file.Decls[0].(*ast.StructDecl)
	if len(sd.Attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %+v", sd.Attrs)
	}
	if sd.Attrs[0].Name != "packed" || sd.Attrs[0].NameSpan.Start.Line == 0 {
		t.Fatalf("unexpected first attr: %+v", sd.Attrs[0])
	}
	if sd.Attrs[1].Name != "align" || len(sd.Attrs[1].Args) != 1 {
		t.Fatalf("unexpected second attr: %+v", sd.Attrs[1])
	}
	if sd.Attrs[1].ValueSpan.Start.Line == 0 {
		t.Fatalf("expected populated value span on align(4): %+v", sd.Attrs[1].ValueSpan)
	}
}

func TestParseNewArrayExpr(t *testing.T) {
	file := parse(t, `
		func f() -> *i64 {
			return new i64[10];
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	na, ok := ret.Value.(*ast.NewArrayExpr)
	if !ok {
		t.Fatalf("expected NewArrayExpr, got %T", ret.Value)
	}
	if _, ok := na.Size.(*ast.IntLit); !ok {
		t.Fatalf("expected integer size, got %T", na.Size)
	}
}

func TestParseNewExprStillPlainAllocation(t *testing.T) {
	file := parse(t, `
		func f() -> *i64 {
			return new i64;
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.NewExpr); !ok {
		t.Fatalf("expected NewExpr, got %T", ret.Value)
	}
}

func TestParseOrPattern(t *testing.T) {
	file := parse(t, `
		func f(o: Option) -> i64 {
			match o {
			case Option.Some(n): return n;
			case Option.None|Option.Other: return 0;
			}
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	m := fn.Body.Stmts[0].(*ast.MatchStmt)
	or, ok := m.Cases[1].Pattern.(*ast.OrPattern)
	if !ok || len(or.Alts) != 2 {
		t.Fatalf("expected 2-alt OrPattern, got %+v", m.Cases[1].Pattern)
	}
}

func TestParseWhileElse(t *testing.T) {
	file := parse(t, `
		func f(n: i64) -> i64 {
			while n > 0 {
				n = n - 1;
			} else {
				return -1;
			}
			return n;
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	w, ok := fn.Body.Stmts[0].(*ast.WhileStmt)
	if !ok || w.Else == nil {
		t.Fatalf("expected while with Else clause, got %+v", fn.Body.Stmts[0])
	}
}

func TestParseForElse(t *testing.T) {
	file := parse(t, `
		func f() -> i64 {
			for let i = 0; i < 10; i++ {
			} else {
				return -1;
			}
			return 0;
		}
	`)
	fn := file.Decls[0].(*ast.FuncDecl)
	fs, ok := fn.Body.Stmts[0].(*ast.ForStmt)
	if !ok || fs.Else == nil {
		t.Fatalf("expected for with Else clause, got %+v", fn.Body.Stmts[0])
	}
}
