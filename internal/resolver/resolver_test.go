package resolver

import (
	"testing"

	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/parser"
)

func parseFile(t *testing.T, src string) *parser.Parser {
	t.Helper()
	lx := lexer.New(src, "test.bry")
	return parser.New(lx, "test.bry")
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestResolve_FieldDependencyOrdersEarlier(t *testing.T) {
	p := parseFile(t, `struct B { x: A }
struct A { y: i32 }
`)
	file := p.ParseFile()
	if p.Errors().Count() != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	order, err := New(file).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if indexOf(order, "A") > indexOf(order, "B") {
		t.Fatalf("expected A before B in %v", order)
	}
}

func TestResolve_SelfReferentialPointerIsNotACycle(t *testing.T) {
	p := parseFile(t, `struct Node { next: *Node, value: i32 }
`)
	file := p.ParseFile()
	if p.Errors().Count() != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	order, err := New(file).Resolve()
	if err != nil {
		t.Fatalf("expected a pointer self-reference to resolve cleanly, got %v", err)
	}
	if len(order) != 1 || order[0] != "Node" {
		t.Fatalf("expected [Node], got %v", order)
	}
}

func TestResolve_HardValueCycleIsInfiniteType(t *testing.T) {
	p := parseFile(t, `struct A { b: B }
struct B { a: A }
`)
	file := p.ParseFile()
	if p.Errors().Count() != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	_, err := New(file).Resolve()
	if err == nil {
		t.Fatalf("expected an infinite-type cycle error")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if cycleErr.Code != "RES004" {
		t.Fatalf("expected RES004, got %s", cycleErr.Code)
	}
}

func TestResolve_ConstInitCycleIsInitializationCycle(t *testing.T) {
	p := parseFile(t, `const N: i32 = M;
const M: i32 = N;
`)
	file := p.ParseFile()
	if p.Errors().Count() != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	_, err := New(file).Resolve()
	if err == nil {
		t.Fatalf("expected an initialization-cycle error")
	}
	cycleErr, ok := err.(*CycleError)
	if !ok {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if cycleErr.Code != "RES005" {
		t.Fatalf("expected RES005, got %s", cycleErr.Code)
	}
}

func TestResolve_ArraySizeDependsOnConstOrdersConstFirst(t *testing.T) {
	p := parseFile(t, `struct Buf { data: [N]i32 }
const N: i32 = 8;
`)
	file := p.ParseFile()
	if p.Errors().Count() != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors().Reports())
	}

	order, err := New(file).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if indexOf(order, "N") > indexOf(order, "Buf") {
		t.Fatalf("expected N before Buf in %v", order)
	}
}
