package parser

import (
	"testing"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/target"
)

func parseWithTarget(t *testing.T, src string, env target.Platform) *ast.File {
	t.Helper()
	l := lexer.New(src, "test.bry")
	p := New(l, "test.bry").WithTarget(env)
	file := p.ParseFile()
	if p.Errors().Count() > 0 {
		for _, r := range p.Errors().Reports() {
			t.Errorf("parse error: %s: %s", r.Code, r.Message)
		}
		t.FailNow()
	}
	return file
}

func TestIfDirectiveSelectsTakenBranch(t *testing.T) {
	env := target.Platform{OS: "linux", Arch: "x86_64", ArchBits: 64}
	file := parseWithTarget(t, `
		#if OS == "linux"
		func onLinux() {}
		#elif OS == "darwin"
		func onDarwin() {}
		#else
		func onOther() {}
		#end
	`, env)
	if len(file.Decls) != 1 {
		t.Fatalf("expected exactly 1 decl selected, got %d", len(file.Decls))
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	if fn.Name != "onLinux" {
		t.Fatalf("expected onLinux selected, got %s", fn.Name)
	}
}

func TestIfDirectiveElseBranch(t *testing.T) {
	env := target.Platform{OS: "windows", Arch: "x86_64", ArchBits: 64}
	file := parseWithTarget(t, `
		#if OS == "linux"
		func onLinux() {}
		#else
		func onOther() {}
		#end
	`, env)
	fn := file.Decls[0].(*ast.FuncDecl)
	if fn.Name != "onOther" {
		t.Fatalf("expected onOther selected, got %s", fn.Name)
	}
}

func TestIfDirectiveWithLogicalOperators(t *testing.T) {
	env := target.Platform{OS: "linux", Arch: "x86_64", ArchBits: 64, Debug: true}
	file := parseWithTarget(t, `
		#if OS == "linux" && DEBUG == "true"
		func debugLinux() {}
		#end
	`, env)
	if len(file.Decls) != 1 {
		t.Fatalf("expected condition to hold and select 1 decl, got %d", len(file.Decls))
	}
}

func TestRequireDirectiveSurvivesAsNode(t *testing.T) {
	env := target.Host()
	file := parseWithTarget(t, `#require ARCH_SIZE == "64";`, env)
	if len(file.Directives) != 1 || file.Directives[0].Name != "require" {
		t.Fatalf("expected a require directive node, got %+v", file.Directives)
	}
}
