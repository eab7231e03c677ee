package checker

import "github.com/brylang/bryc/internal/ast"

// OrderDecls combines the resolver's dependency-ordered type/const
// names with the remaining function/global-variable/factory
// declarations in source order, per spec.md §4.5: "Variables and
// functions do not participate [in the DFS]; they are added to
// sorted_decls as a block at the end ... in source order."
func OrderDecls(file *ast.File, resolverOrder []string) []ast.Decl {
	byName := make(map[string]ast.Decl, len(file.Decls))
	for _, d := range file.Decls {
		switch d.(type) {
		case *ast.StructDecl, *ast.EnumDecl, *ast.TypeAliasDecl, *ast.ConstDecl:
			byName[d.DeclName()] = d
		}
	}

	out := make([]ast.Decl, 0, len(file.Decls))
	seen := make(map[ast.Decl]bool, len(file.Decls))
	for _, name := range resolverOrder {
		if d, ok := byName[name]; ok && !seen[d] {
			out = append(out, d)
			seen[d] = true
		}
	}
	for _, d := range file.Decls {
		if !seen[d] {
			out = append(out, d)
		}
	}
	return out
}
