package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func newStdlib(t *testing.T) string {
	t.Helper()
	stdlib := t.TempDir()
	writeFile(t, stdlib, "core.bry", "pub func panic(msg: i64) {}\n")
	return stdlib
}

func TestLoadSimpleModule(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "main.bry", "pub func main() -> i64 { return 0; }\n")

	l := New(proj, newStdlib(t))
	mod, err := l.Load("main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := mod.Exports["main"]; !ok {
		t.Fatalf("expected main to be exported, got %v", mod.Exports)
	}
	if len(mod.Dependencies) != 1 || mod.Dependencies[0] != coreModulePath {
		t.Fatalf("expected implicit core dependency, got %v", mod.Dependencies)
	}
}

func TestLoadWithExplicitImport(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "util.bry", "pub func id(x: i64) -> i64 { return x; }\n")
	writeFile(t, proj, "main.bry", `import "util";
pub func main() -> i64 { return 0; }
`)

	l := New(proj, newStdlib(t))
	mod, err := l.Load("main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	found := false
	for _, d := range mod.Dependencies {
		if d == "util" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected util dependency, got %v", mod.Dependencies)
	}
}

func TestImportCycleDetected(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "a.bry", `import "b";
pub func fa() {}
`)
	writeFile(t, proj, "b.bry", `import "a";
pub func fb() {}
`)

	l := New(proj, newStdlib(t))
	if _, err := l.Load("a"); err == nil {
		t.Fatalf("expected import cycle error")
	}
	if l.Errors().Count() == 0 {
		t.Fatalf("expected a recorded MOD002 cycle diagnostic")
	}
}

func TestModuleNotFound(t *testing.T) {
	proj := t.TempDir()
	l := New(proj, newStdlib(t))
	if _, err := l.Load("does_not_exist"); err == nil {
		t.Fatalf("expected module-not-found error")
	}
}

func TestTopoOrderDependenciesFirst(t *testing.T) {
	proj := t.TempDir()
	writeFile(t, proj, "leaf.bry", "pub func leaf() {}\n")
	writeFile(t, proj, "mid.bry", `import "leaf";
pub func mid() {}
`)
	writeFile(t, proj, "top.bry", `import "mid";
pub func top() {}
`)

	l := New(proj, newStdlib(t))
	if _, err := l.Load("top"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	order, err := l.TopoOrder()
	if err != nil {
		t.Fatalf("TopoOrder: %v", err)
	}
	index := make(map[string]int)
	for i, id := range order {
		index[id] = i
	}
	if index["leaf"] > index["mid"] || index["mid"] > index["top"] {
		t.Fatalf("expected leaf before mid before top, got %v", order)
	}
}
