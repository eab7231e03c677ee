// Package target implements the TargetPlatform oracle spec.md §6
// describes: a sizeof/alignof query surface the checker and comptime
// evaluator consult for platform-dependent values (#sizeof, #alignof,
// and comptime array-size checks), grounded on
// original_source/include/target.hpp's TargetPlatform struct, minus
// the LLVM data-layout machinery that belongs to the external
// code-generation backend, out of scope per spec.md §1.
package target

import (
	"fmt"
	"runtime"

	"github.com/brylang/bryc/internal/types"
)

// Platform describes the compilation target: OS/arch names, pointer
// width, and debug-build flag. MetaVars publishes these four fields
// as the parser's #if/#elif meta-variables (OS, ARCH, ARCH_SIZE,
// DEBUG, plus a fixed COMPILER entry), and Sizeof/Alignof answer the comptime
// evaluator's #sizeof/#alignof macros.
type Platform struct {
	OS      string
	Arch    string
	ArchBits int // 32 or 64
	Debug   bool
}

// Host returns a Platform describing the machine bryc itself runs on,
// used as the default when the driver supplies no explicit
// configuration.
func Host() Platform {
	bits := 64
	switch runtime.GOARCH {
	case "386", "arm", "mips", "mipsle":
		bits = 32
	}
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH, ArchBits: bits}
}

// MetaVars returns the preprocessor meta-variable bindings the
// parser's #if/#elif expression language resolves identifiers
// against, per spec.md §4.3.
func (p Platform) MetaVars() map[string]string {
	debug := ""
	if p.Debug {
		debug = "true"
	}
	return map[string]string{
		"OS":        p.OS,
		"ARCH":      p.Arch,
		"ARCH_SIZE": fmt.Sprintf("%d", p.ArchBits),
		"DEBUG":     debug,
		"COMPILER":  "bryc",
	}
}

// Meta returns the value of one meta-variable and whether name is
// one of MetaVars' keys.
func (p Platform) Meta(name string) (string, bool) {
	v, ok := p.MetaVars()[name]
	return v, ok
}

// ptrBytes returns the platform pointer width in bytes (4 or 8).
func (p Platform) ptrBytes() uint64 {
	if p.ArchBits == 32 {
		return 4
	}
	return 8
}

// Sizeof returns the in-memory byte size of t on this platform,
// mirroring original_source/src/target.cpp's getLLVMType size
// derivation without needing an actual LLVM data layout: integers and
// floats are sized by bit width, pointers/slices/functions by pointer
// width (slices additionally carry a length word), arrays by
// element-size*len, structs by the sum of field sizes (no padding —
// the frontend does not commit to a final ABI layout; the backend
// re-derives real alignment-padded sizes from its own data layout),
// and enums by the platform int width.
func (p Platform) Sizeof(t types.Type) uint64 {
	switch tt := types.FullUnwrap(t).(type) {
	case *types.Integer:
		return uint64(tt.Bits) / 8
	case *types.Float:
		return uint64(tt.Bits) / 8
	case *types.Bool:
		return 1
	case *types.Unit:
		return 0
	case *types.Pointer:
		return p.ptrBytes()
	case *types.Function:
		return p.ptrBytes()
	case *types.Array:
		return p.Sizeof(tt.Elem) * uint64(tt.Len)
	case *types.Slice:
		return 2 * p.ptrBytes()
	case *types.StringT:
		return 2 * p.ptrBytes()
	case *types.Struct:
		var total uint64
		for _, f := range tt.Fields {
			total += p.Sizeof(f.Type)
		}
		return total
	case *types.Enum:
		return 4
	}
	return 0
}

// Alignof returns t's preferred alignment, matching Sizeof's
// reasoning: scalars align to their own size, pointers/slices/strings
// to pointer width, arrays/structs to their widest member, enums to
// 4 bytes (the platform int width used for tags).
func (p Platform) Alignof(t types.Type) uint64 {
	switch tt := types.FullUnwrap(t).(type) {
	case *types.Integer:
		return uint64(tt.Bits) / 8
	case *types.Float:
		return uint64(tt.Bits) / 8
	case *types.Bool:
		return 1
	case *types.Unit:
		return 1
	case *types.Pointer, *types.Function, *types.Slice, *types.StringT:
		return p.ptrBytes()
	case *types.Array:
		return p.Alignof(tt.Elem)
	case *types.Struct:
		var max uint64 = 1
		for _, f := range tt.Fields {
			if a := p.Alignof(f.Type); a > max {
				max = a
			}
		}
		return max
	case *types.Enum:
		return 4
	}
	return 1
}
