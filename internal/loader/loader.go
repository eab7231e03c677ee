// Package loader resolves import paths to source files, parses them,
// and assembles the project's module graph: identity caching, cycle
// detection, and the topological load order the checker consumes.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/lexer"
	"github.com/brylang/bryc/internal/parser"
	"github.com/brylang/bryc/internal/target"
)

// coreModulePath is the implicit module every file depends on last,
// providing builtin types and intrinsics without an explicit import.
const coreModulePath = "core"

// Module is one parsed, loaded source file plus its module-graph
// bookkeeping.
type Module struct {
	Identity     string
	FilePath     string
	File         *ast.File
	Dependencies []string
	Exports      map[string]ast.Decl
}

// Loader loads modules by import path, memoizing by identity and
// detecting import cycles via a load stack.
type Loader struct {
	cache map[string]*Module
	mu    sync.RWMutex

	searchPaths []string
	stdlibPath  string
	currentFile string
	loadStack   []string

	target target.Platform
	errs   *errors.Counter
}

// New creates a Loader rooted at projectDir, searching stdlibPath for
// `std/...` imports.
func New(projectDir, stdlibPath string) *Loader {
	return &Loader{
		cache:       make(map[string]*Module),
		searchPaths: []string{projectDir},
		stdlibPath:  stdlibPath,
		target:      target.Host(),
		errs:        &errors.Counter{},
	}
}

// WithTarget overrides the platform used to evaluate #if/#elif
// directives while parsing loaded modules.
func (l *Loader) WithTarget(p target.Platform) *Loader {
	l.target = p
	return l
}

// Errors returns every diagnostic recorded while loading.
func (l *Loader) Errors() *errors.Counter { return l.errs }

// Load resolves importPath to a file, parses it, recursively loads
// its dependencies (plus the implicit core module), and returns the
// cached Module.
func (l *Loader) Load(importPath string) (*Module, error) {
	identity := normalizePath(importPath)

	if mod := l.getCached(identity); mod != nil {
		return mod, nil
	}
	if err := l.checkCycle(identity); err != nil {
		return nil, err
	}

	l.loadStack = append(l.loadStack, identity)
	defer func() { l.loadStack = l.loadStack[:len(l.loadStack)-1] }()

	filePath, err := l.resolvePath(importPath)
	if err != nil {
		r := errors.New(errors.MOD001, fmt.Sprintf("module not found: %s", importPath), nil)
		l.errs.Add(r)
		return nil, errors.Wrap(r)
	}

	mod, err := l.parseModule(identity, filePath)
	if err != nil {
		return nil, err
	}
	prevFile := l.currentFile
	l.currentFile = filePath
	defer func() { l.currentFile = prevFile }()

	if identity != coreModulePath {
		if _, err := l.Load(coreModulePath); err != nil {
			return nil, err
		}
		mod.Dependencies = append(mod.Dependencies, coreModulePath)
	}

	for _, dep := range mod.Dependencies {
		if dep == coreModulePath && identity == coreModulePath {
			continue
		}
		if _, err := l.Load(dep); err != nil {
			return nil, fmt.Errorf("loading dependency %q of %q: %w", dep, identity, err)
		}
	}

	l.cacheModule(mod)
	return mod, nil
}

func (l *Loader) parseModule(identity, filePath string) (*Module, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		r := errors.New(errors.MOD001, fmt.Sprintf("cannot read %s: %v", filePath, err), nil)
		l.errs.Add(r)
		return nil, errors.Wrap(r)
	}

	lx := lexer.New(string(content), filePath)
	p := parser.New(lx, filePath).WithTarget(l.target)
	file := p.ParseFile()
	for _, r := range p.Errors().Reports() {
		l.errs.Add(r)
	}

	return &Module{
		Identity:     identity,
		FilePath:     filePath,
		File:         file,
		Dependencies: extractDependencies(file),
		Exports:      extractExports(file),
	}, nil
}

// resolvePath implements spec.md §4.4's three import forms: relative
// (`./...`, `../...`), stdlib (`std/...`), and project-root paths
// searched across every entry in searchPaths.
func (l *Loader) resolvePath(importPath string) (string, error) {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		if l.currentFile == "" {
			return "", fmt.Errorf("relative import %q with no current file", importPath)
		}
		dir := filepath.Dir(l.currentFile)
		path := withExt(filepath.Join(dir, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("module not found: %s", path)
	}

	if strings.HasPrefix(importPath, "std/") {
		path := withExt(filepath.Join(l.stdlibPath, strings.TrimPrefix(importPath, "std/")))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("stdlib module not found: %s", importPath)
	}

	if importPath == coreModulePath {
		path := withExt(filepath.Join(l.stdlibPath, "core"))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}

	for _, sp := range l.searchPaths {
		path := withExt(filepath.Join(sp, importPath))
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("module not found in search paths: %s", importPath)
}

func withExt(path string) string {
	if strings.HasSuffix(path, ".bry") {
		return path
	}
	return path + ".bry"
}

func normalizePath(path string) string {
	path = strings.TrimSuffix(path, ".bry")
	return strings.ReplaceAll(path, "\\", "/")
}

func (l *Loader) getCached(identity string) *Module {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[identity]
}

func (l *Loader) cacheModule(mod *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[mod.Identity] = mod
}

func (l *Loader) checkCycle(identity string) error {
	for i, id := range l.loadStack {
		if id == identity {
			cycle := append(append([]string{}, l.loadStack[i:]...), identity)
			r := errors.New(errors.MOD002, fmt.Sprintf("import cycle: %s", strings.Join(cycle, " -> ")), nil)
			l.errs.Add(r)
			return errors.Wrap(r)
		}
	}
	return nil
}

func extractDependencies(file *ast.File) []string {
	deps := make([]string, 0, len(file.Imports))
	for _, imp := range file.Imports {
		deps = append(deps, imp.Path)
	}
	return deps
}

func extractExports(file *ast.File) map[string]ast.Decl {
	exports := make(map[string]ast.Decl)
	for _, d := range file.Decls {
		if d.IsPub() {
			exports[d.DeclName()] = d
		}
	}
	return exports
}

// Graph returns the dependency adjacency list of every module loaded
// so far, keyed by module identity.
func (l *Loader) Graph() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	g := make(map[string][]string, len(l.cache))
	for id, mod := range l.cache {
		g[id] = mod.Dependencies
	}
	return g
}

// TopoOrder returns every loaded module's identity in dependency
// order (a module's dependencies always precede it), via Kahn's
// algorithm over Graph().
func (l *Loader) TopoOrder() ([]string, error) {
	graph := l.Graph()

	allNodes := make([]string, 0, len(graph))
	for node := range graph {
		allNodes = append(allNodes, node)
	}
	sort.Strings(allNodes)

	reverse := make(map[string][]string)
	inDegree := make(map[string]int)
	for _, node := range allNodes {
		deps := graph[node]
		inDegree[node] = len(deps)
		for _, dep := range deps {
			reverse[dep] = append(reverse[dep], node)
		}
	}

	nodeNames := make([]string, 0, len(inDegree))
	for node := range inDegree {
		nodeNames = append(nodeNames, node)
	}
	sort.Strings(nodeNames)

	var queue []string
	for _, node := range nodeNames {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, dependent := range reverse[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(graph) {
		return nil, fmt.Errorf("circular dependency detected among loaded modules")
	}
	return order, nil
}
