// Package config loads the driver's build configuration: import
// search roots, the target platform descriptor, and a debug-build
// flag, expressed as a YAML document so a project can commit one
// alongside its source rather than passing every flag on the command
// line every time.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brylang/bryc/internal/target"
)

// BuildConfig is the on-disk shape of a bryc.yaml project file.
type BuildConfig struct {
	// Roots lists directories for non-relative, non-stdlib imports.
	// Only the first entry is used: the driver hands it to the loader
	// as the project directory, and later entries are not searched.
	Roots []string `yaml:"roots"`
	// Stdlib points at the directory std/ and core imports resolve
	// against.
	Stdlib string `yaml:"stdlib"`
	// Target describes the compilation platform; zero-value fields
	// fall back to the host's own values (see ResolvePlatform below).
	Target PlatformConfig `yaml:"platform"`
	// Debug enables debug-build #if branches and disables the
	// optimizing passes a backend would otherwise run.
	Debug bool `yaml:"debug"`
}

// PlatformConfig is the YAML-facing counterpart of target.Platform;
// any field left at its zero value is filled in from target.Host()
// when ResolvePlatform is called, so a config file only needs to override
// what differs from the machine running bryc.
type PlatformConfig struct {
	OS       string `yaml:"os"`
	Arch     string `yaml:"arch"`
	ArchBits int    `yaml:"arch_bits"`
}

// Default returns a BuildConfig with no explicit roots and the host
// platform, suitable when no bryc.yaml is present.
func Default() *BuildConfig {
	return &BuildConfig{
		Roots:  []string{"."},
		Stdlib: "std",
	}
}

// Load reads and parses the YAML build config at path.
func Load(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	if cfg.Stdlib == "" {
		cfg.Stdlib = "std"
	}
	return cfg, nil
}

// ResolvePlatform resolves cfg's platform descriptor against
// target.Host(), filling in any field the config left unset.
func (cfg *BuildConfig) ResolvePlatform() target.Platform {
	host := target.Host()
	p := target.Platform{
		OS:       cfg.Target.OS,
		Arch:     cfg.Target.Arch,
		ArchBits: cfg.Target.ArchBits,
		Debug:    cfg.Debug,
	}
	if p.OS == "" {
		p.OS = host.OS
	}
	if p.Arch == "" {
		p.Arch = host.Arch
	}
	if p.ArchBits == 0 {
		p.ArchBits = host.ArchBits
	}
	return p
}
