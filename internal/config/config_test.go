package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bryc.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Roots) != 1 || cfg.Roots[0] != "." {
		t.Fatalf("expected default roots, got %v", cfg.Roots)
	}
	if cfg.Stdlib != "std" {
		t.Fatalf("expected default stdlib dir, got %q", cfg.Stdlib)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug: true to round-trip")
	}
}

func TestResolvePlatformFillsFromHost(t *testing.T) {
	cfg := Default()
	cfg.Target.OS = "linux"

	p := cfg.ResolvePlatform()
	if p.OS != "linux" {
		t.Fatalf("expected explicit OS override, got %q", p.OS)
	}
	if p.ArchBits != 32 && p.ArchBits != 64 {
		t.Fatalf("expected ArchBits filled in from host, got %d", p.ArchBits)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
