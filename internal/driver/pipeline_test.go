package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brylang/bryc/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newProject(t *testing.T) (root, stdlib string) {
	t.Helper()
	root = t.TempDir()
	stdlib = t.TempDir()
	writeFile(t, stdlib, "core.bry", "pub func panic(msg: i64) {}\n")
	return root, stdlib
}

func TestBuildSingleModule(t *testing.T) {
	root, stdlib := newProject(t)
	writeFile(t, root, "main.bry", `func main() -> i32 {
  let x: i32 = 1 + 2;
  return x;
}
`)

	cfg := config.Default()
	cfg.Roots = []string{root}
	cfg.Stdlib = stdlib
	p := New(cfg)

	results, err := p.Build("main")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one module result")
	}
	var main *ModuleResult
	for _, r := range results {
		if r.Module.Identity == "main" {
			main = r
		}
	}
	if main == nil {
		t.Fatalf("main module missing from results: %v", results)
	}
	if len(main.Errs) != 0 {
		t.Fatalf("unexpected checker errors: %v", main.Errs)
	}
}

func TestBuildWithDependency(t *testing.T) {
	root, stdlib := newProject(t)
	writeFile(t, root, "util.bry", `pub func id(x: i32) -> i32 { return x; }
`)
	writeFile(t, root, "main.bry", `import "util";
func main() -> i32 {
  return util.id(3);
}
`)

	cfg := config.Default()
	cfg.Roots = []string{root}
	cfg.Stdlib = stdlib
	p := New(cfg)

	results, err := p.Build("main")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, r := range results {
		if len(r.Errs) != 0 {
			t.Fatalf("unexpected checker errors in %s: %v", r.Module.Identity, r.Errs)
		}
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	root, stdlib := newProject(t)
	writeFile(t, root, "leaf.bry", "pub func leaf() -> i32 { return 1; }\n")
	writeFile(t, root, "mid.bry", `import "leaf";
pub func mid() -> i32 { return leaf.leaf(); }
`)
	writeFile(t, root, "main.bry", `import "mid";
func main() -> i32 { return mid.mid(); }
`)

	cfg := config.Default()
	cfg.Roots = []string{root}
	cfg.Stdlib = stdlib

	seq, err := New(cfg).Build("main")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	par, err := New(cfg).BuildParallel("main")
	if err != nil {
		t.Fatalf("BuildParallel: %v", err)
	}
	if len(seq) != len(par) {
		t.Fatalf("expected the same module count, got %d vs %d", len(seq), len(par))
	}
}
