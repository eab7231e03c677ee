// Package driver sequences the frontend's phases — load, resolve,
// check, comptime-fold — across a whole module graph and stands in
// for the boundary where an external backend would take over, per
// spec.md §1's "producing HIR for an external LLVM-like backend."
//
// Grounded on internal/module/loader.go's cache/mutex pattern and
// internal/effects/context.go's single-owner-context discipline: a
// Pipeline is built once per compilation and not shared across
// concurrent compilations.
package driver

import (
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/brylang/bryc/internal/checker"
	"github.com/brylang/bryc/internal/config"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/loader"
	"github.com/brylang/bryc/internal/resolver"
	"github.com/brylang/bryc/internal/target"
)

// ModuleResult is one module's checked output: its HIR declarations
// (best-effort if errs is non-empty, per spec.md §4.7's
// declaration-granularity recovery) plus every diagnostic recorded
// while checking it.
type ModuleResult struct {
	Module   *loader.Module
	ModuleID int
	Decls    []hir.Decl
	Errs     []*errors.Report
}

// Pipeline owns one Loader and the platform every parsed file's
// #if/#elif directives are evaluated against.
type Pipeline struct {
	ld       *loader.Loader
	platform target.Platform

	mu      sync.Mutex
	results map[string]*ModuleResult // by module identity
}

// New builds a Pipeline from cfg: the first config root becomes the
// Loader's project directory, cfg.Stdlib its stdlib search path.
func New(cfg *config.BuildConfig) *Pipeline {
	root := "."
	if len(cfg.Roots) > 0 {
		root = cfg.Roots[0]
	}
	platform := cfg.ResolvePlatform()
	ld := loader.New(root, cfg.Stdlib).WithTarget(platform)
	return &Pipeline{ld: ld, platform: platform, results: make(map[string]*ModuleResult)}
}

// Errors returns every diagnostic the Loader recorded while reading
// and parsing files (separate from per-module checker diagnostics,
// which live on each ModuleResult).
func (p *Pipeline) Errors() *errors.Counter { return p.ld.Errors() }

// Build loads entryImportPath and its whole dependency closure, then
// checks every module in topological order, sequentially.
func (p *Pipeline) Build(entryImportPath string) ([]*ModuleResult, error) {
	return p.build(entryImportPath, false)
}

// BuildParallel behaves like Build but checks every module within a
// given topological "rank" (no module in the rank depends on another
// in the same rank) concurrently, one goroutine per module, with a
// barrier between ranks — the optional worker-pool mode spec.md §5
// permits without requiring.
func (p *Pipeline) BuildParallel(entryImportPath string) ([]*ModuleResult, error) {
	return p.build(entryImportPath, true)
}

func (p *Pipeline) build(entryImportPath string, parallel bool) ([]*ModuleResult, error) {
	if _, err := p.ld.Load(entryImportPath); err != nil {
		return nil, fmt.Errorf("loading %q: %w", entryImportPath, err)
	}
	order, err := p.ld.TopoOrder()
	if err != nil {
		return nil, err
	}
	if p.ld.Errors().Count() > 0 {
		// Parse errors already recorded; still attempt to check
		// whatever modules did parse, matching spec.md §7's
		// declaration-granularity recovery one level up.
	}

	graph := p.ld.Graph()
	moduleIDs := assignModuleIDs(order)

	if !parallel {
		for _, id := range order {
			p.checkOne(id, moduleIDs)
		}
	} else {
		for _, rank := range rankOf(order, graph) {
			var wg sync.WaitGroup
			for _, id := range rank {
				id := id
				wg.Add(1)
				go func() {
					defer wg.Done()
					p.checkOne(id, moduleIDs)
				}()
			}
			wg.Wait()
		}
	}

	out := make([]*ModuleResult, 0, len(order))
	for _, id := range order {
		out = append(out, p.results[id])
	}
	return out, nil
}

func (p *Pipeline) checkOne(identity string, moduleIDs map[string]int) {
	m, err := p.ld.Load(identity)
	if err != nil {
		return
	}

	imports := make(map[string]*loader.Module, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		if dep == "core" {
			continue
		}
		depMod, err := p.ld.Load(dep)
		if err != nil {
			continue
		}
		imports[importAlias(m, dep)] = depMod
	}

	var core *loader.Module
	if identity != "core" {
		core, _ = p.ld.Load("core")
	}

	order, rerr := resolver.New(m.File).Resolve()
	c := checker.New(moduleIDs[identity], identity, p.platform, imports, core)
	var hirDecls []hir.Decl
	if rerr != nil {
		code := errors.RES004
		if cycleErr, ok := rerr.(*resolver.CycleError); ok {
			code = cycleErr.Code
		}
		c.Errors().Add(errors.New(code, rerr.Error(), nil))
	} else {
		decls := checker.OrderDecls(m.File, order)
		hirDecls = c.CheckDecls(decls)
	}

	p.mu.Lock()
	p.results[identity] = &ModuleResult{
		Module:   m,
		ModuleID: moduleIDs[identity],
		Decls:    hirDecls,
		Errs:     c.Errors().Reports(),
	}
	p.mu.Unlock()
}

// importAlias returns the alias a module's importer should bind dep
// under: the explicit alias given in an `import "dep" as alias`
// clause, or dep's final path segment otherwise.
func importAlias(m *loader.Module, dep string) string {
	for _, imp := range m.File.Imports {
		if imp.Path == dep {
			if imp.Alias != "" {
				return imp.Alias
			}
			return path.Base(imp.Path)
		}
	}
	return path.Base(dep)
}

// assignModuleIDs hands every module a stable small integer id in
// topological order, so a module's own id is always lower than any
// module that depends on it.
func assignModuleIDs(order []string) map[string]int {
	ids := make(map[string]int, len(order))
	for i, id := range order {
		ids[id] = i
	}
	return ids
}

// rankOf groups order into topological "ranks": rank 0 has no
// dependencies among the loaded set, rank k's modules depend only on
// ranks < k. Modules within one rank can check concurrently since
// none depends on another in the same rank.
func rankOf(order []string, graph map[string][]string) [][]string {
	rank := make(map[string]int, len(order))
	for _, id := range order {
		r := 0
		for _, dep := range graph[id] {
			if dr, ok := rank[dep]; ok && dr+1 > r {
				r = dr + 1
			}
		}
		rank[id] = r
	}

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}
	ranks := make([][]string, maxRank+1)
	for _, id := range order {
		r := rank[id]
		ranks[r] = append(ranks[r], id)
	}
	for _, r := range ranks {
		sort.Strings(r)
	}
	return ranks
}
