// Package resolver computes a safe declaration order for a module's
// types and constants: a three-color depth-first search over the
// dependency edges between struct/enum/type-alias/const declarations,
// classifying any cycle it finds as an infinite type, an
// initialization cycle, or a type-depends-on-constant cycle.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
)

type color int

const (
	white color = iota
	grey
	black
)

type edgeKind int

const (
	hardEdge       edgeKind = iota // by-value containment: must be sized first
	softEdge                       // pointer/slice/function: breaks a cycle
	constInitEdge                  // one const's initializer references another
	typeConstEdge                  // a type's array-size expression references a const
)

type edge struct {
	to   string
	kind edgeKind
}

type node struct {
	name    string
	isConst bool
	edges   []edge
}

// Resolver orders one file's type and constant declarations.
type Resolver struct {
	nodes map[string]*node
	order []string
}

// New builds a Resolver over file's top-level struct, enum,
// type-alias, and const declarations.
func New(file *ast.File) *Resolver {
	r := &Resolver{nodes: make(map[string]*node)}
	for _, d := range file.Decls {
		switch dd := d.(type) {
		case *ast.StructDecl:
			n := r.node(dd.Name, false)
			for _, f := range dd.Fields {
				r.addTypeEdges(n, f.Type)
			}
		case *ast.EnumDecl:
			n := r.node(dd.Name, false)
			for _, c := range dd.Cases {
				for _, t := range c.Payload {
					r.addTypeEdges(n, t)
				}
			}
		case *ast.TypeAliasDecl:
			n := r.node(dd.Name, false)
			r.addTypeEdges(n, dd.Alias)
		case *ast.ConstDecl:
			n := r.node(dd.Name, true)
			for _, ref := range identRefs(dd.Value) {
				n.edges = append(n.edges, edge{to: ref, kind: constInitEdge})
			}
		}
	}
	return r
}

func (r *Resolver) node(name string, isConst bool) *node {
	n, ok := r.nodes[name]
	if !ok {
		n = &node{name: name, isConst: isConst}
		r.nodes[name] = n
	}
	return n
}

// addTypeEdges walks a type expression, adding a hard edge to every
// named type it contains by value and a soft edge to every named type
// it only refers to through a pointer, slice, or function signature.
// An ArrayType's size expression additionally contributes
// typeConstEdge edges to any constants it references.
func (r *Resolver) addTypeEdges(n *node, t ast.TypeExpr) {
	switch tt := t.(type) {
	case *ast.NamedType:
		if isBuiltinScalar(tt.Name) {
			return
		}
		n.edges = append(n.edges, edge{to: tt.Name, kind: hardEdge})
	case *ast.PointerType:
		r.addSoftEdges(n, tt.Elem)
	case *ast.SliceType:
		r.addSoftEdges(n, tt.Elem)
	case *ast.FuncType:
		for _, p := range tt.Params {
			r.addSoftEdges(n, p)
		}
		if tt.Return != nil {
			r.addSoftEdges(n, tt.Return)
		}
	case *ast.ArrayType:
		for _, ref := range identRefs(tt.Size) {
			n.edges = append(n.edges, edge{to: ref, kind: typeConstEdge})
		}
		r.addTypeEdges(n, tt.Elem)
	}
}

// addSoftEdges records a named-type reference as soft: a pointer or
// slice to T does not need T to be laid out first.
func (r *Resolver) addSoftEdges(n *node, t ast.TypeExpr) {
	if nt, ok := t.(*ast.NamedType); ok {
		if isBuiltinScalar(nt.Name) {
			return
		}
		n.edges = append(n.edges, edge{to: nt.Name, kind: softEdge})
		return
	}
	r.addTypeEdges(n, t)
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64",
		"isize", "usize", "f32", "f64", "bool", "rune", "string", "unit":
		return true
	}
	return false
}

// identRefs collects the names of every Ident appearing in expr,
// the constant-folding-relevant subset of the expression grammar
// (arithmetic and comparison over identifiers and literals).
func identRefs(expr ast.Expr) []string {
	var refs []string
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch ex := e.(type) {
		case nil:
		case *ast.Ident:
			refs = append(refs, ex.Name)
		case *ast.BinaryExpr:
			walk(ex.Left)
			walk(ex.Right)
		case *ast.UnaryExpr:
			walk(ex.X)
		case *ast.CallExpr:
			walk(ex.Fn)
			for _, a := range ex.Args {
				walk(a)
			}
		case *ast.CastExpr:
			walk(ex.X)
		case *ast.IndexExpr:
			walk(ex.X)
			walk(ex.Index)
		case *ast.FieldExpr:
			walk(ex.X)
		}
	}
	walk(expr)
	return refs
}

// CycleError describes a dependency cycle found during Resolve,
// classified per spec.md §4.5.
type CycleError struct {
	Code  string
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Cycle, " -> "))
}

// Resolve performs the three-color DFS and returns declarations in an
// order where every dependency precedes its dependent, or a
// classified cycle error if one exists.
func (r *Resolver) Resolve() ([]string, error) {
	colors := make(map[string]color, len(r.nodes))
	var stack []string
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		n, ok := r.nodes[name]
		if !ok {
			return nil // reference to an undeclared name; resolver isn't the scope checker
		}
		colors[name] = grey
		stack = append(stack, name)

		for _, e := range n.edges {
			switch colors[e.to] {
			case white:
				if err := visit(e.to); err != nil {
					return err
				}
			case grey:
				if cycleErr := classifyCycle(stack, e.to, e.kind, r.nodes); cycleErr != nil {
					return cycleErr
				}
				// soft edges back into a grey node are a valid
				// recursive type (e.g. a linked-list node pointing to
				// itself) and simply terminate this branch.
			case black:
				// already fully resolved; nothing to do
			}
		}

		colors[name] = black
		stack = stack[:len(stack)-1]
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if colors[name] == white {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func classifyCycle(stack []string, backTo string, kind edgeKind, nodes map[string]*node) error {
	if kind == softEdge {
		return nil
	}

	start := 0
	for i, n := range stack {
		if n == backTo {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, stack[start:]...), backTo)

	switch kind {
	case typeConstEdge:
		return &CycleError{Code: errors.RES006, Cycle: cycle}
	case constInitEdge:
		return &CycleError{Code: errors.RES005, Cycle: cycle}
	default: // hardEdge among type declarations
		allConst := true
		for _, name := range cycle {
			if n, ok := nodes[name]; ok && !n.isConst {
				allConst = false
			}
		}
		if allConst {
			return &CycleError{Code: errors.RES005, Cycle: cycle}
		}
		return &CycleError{Code: errors.RES004, Cycle: cycle}
	}
}
