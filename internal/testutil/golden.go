// Package testutil provides a golden-file comparison helper: a value
// is marshaled to JSON and compared against a recorded fixture. The
// frontend's package tests check hand-written expected values and do
// not call it.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether CompareGolden overwrites fixtures
// instead of comparing against them. Set via:
//
//	UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// goldenMeta records the environment a fixture was captured under, so
// a mismatch is easier to triage (a fixture recorded on one Go version
// disagreeing with a run on another is not the same kind of bug as a
// real regression).
type goldenMeta struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

type goldenFile struct {
	Meta goldenMeta  `json:"meta"`
	Data interface{} `json:"data"`
}

// GoldenPath returns the fixture path for feature/name, under
// testdata/<feature>/<name>.golden.json relative to the test's
// package directory.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// CompareGolden marshals actual to JSON and compares it against the
// fixture at feature/name, failing the test on any structural
// difference (reported via cmp.Diff so nested mismatches are visible).
// With UPDATE_GOLDENS=true it writes actual as the new fixture
// instead of comparing.
func CompareGolden(t *testing.T, feature, name string, actual interface{}) {
	t.Helper()

	path := GoldenPath(feature, name)
	actualCanon := canonicalize(t, actual)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for golden file: %v", err)
		}
		out := goldenFile{
			Meta: goldenMeta{GoVersion: runtime.Version(), OS: runtime.GOOS, Arch: runtime.GOARCH},
			Data: actualCanon,
		}
		raw, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			t.Fatalf("marshal golden file: %v", err)
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			t.Fatalf("write golden file: %v", err)
		}
		t.Logf("updated golden file %s", path)
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file %s does not exist; rerun with UPDATE_GOLDENS=true", path)
		}
		t.Fatalf("read golden file: %v", err)
	}
	var want goldenFile
	if err := json.Unmarshal(raw, &want); err != nil {
		t.Fatalf("unmarshal golden file %s: %v", path, err)
	}

	if diff := cmp.Diff(want.Data, actualCanon); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}

// canonicalize round-trips v through JSON so struct values compare
// against the fixture's decoded map[string]interface{} shape rather
// than their original Go type.
func canonicalize(t *testing.T, v interface{}) interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal value for golden comparison: %v", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal value for golden comparison: %v", err)
	}
	return out
}
