// Package comptime implements the recursive tree-walking interpreter
// spec.md §4.8 describes: evaluates a subset of HIR expressions to a
// ConstValue at compile time, for `const` initializers, global
// initializers the checker can fold, array-size expressions, and
// #sizeof/#alignof macros.
//
// Grounded on internal/eval/eval_core.go's tree-walking Eval(node,
// env) shape and internal/eval/builtins_arithmetic.go's wrapping
// arithmetic/div-by-zero error pattern, generalized from AILANG's
// dynamic *Value interpreter over a live environment to bryc's
// HIR-typed, environment-free evaluator (const expressions cannot
// reference mutable state, so no Env is needed — only a const symbol
// table for cross-reference).
package comptime

import (
	"fmt"

	"github.com/brylang/bryc/internal/types"
)

// Kind discriminates ConstValue's payload.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KArray
	KZeroArray // a `new T[n]` style zero-initialized array, stored compactly
	KStruct
	KEnumTag
	KFuncPtr
	KPointer
)

// AllocHandle identifies a single logical aggregate constant's
// backend storage site, shared across modules per spec.md §4.8 ("so
// the backend can arrange a single storage site per logical constant
// even when referenced cross-module").
type AllocHandle struct {
	ModuleID int
	Handle   uint64
}

// Value is the tagged union ConstValue spec.md §3 describes.
type Value struct {
	Kind Kind
	Type types.Type

	Int    int64
	Float  float64
	Bool   bool
	Str    string
	EnumTag int64

	Elems  []Value      // KArray, KStruct (field order)
	ZeroLen int64        // KZeroArray
	FuncSym string       // KFuncPtr: the referenced function's qualified name

	Alloc *AllocHandle // non-nil for aggregate variants (array/struct/string/zero-array)
}

func (v Value) String() string {
	switch v.Kind {
	case KInt:
		return fmt.Sprintf("%d", v.Int)
	case KFloat:
		return fmt.Sprintf("%g", v.Float)
	case KBool:
		return fmt.Sprintf("%t", v.Bool)
	case KString:
		return v.Str
	case KEnumTag:
		return fmt.Sprintf("enum#%d", v.EnumTag)
	case KFuncPtr:
		return "&" + v.FuncSym
	default:
		return "<const>"
	}
}

func Int(t types.Type, n int64) Value     { return Value{Kind: KInt, Type: t, Int: n} }
func Float(t types.Type, f float64) Value { return Value{Kind: KFloat, Type: t, Float: f} }
func Bool(b bool) Value                   { return Value{Kind: KBool, Type: types.BoolT, Bool: b} }
func String(s string) Value {
	return Value{Kind: KString, Type: types.Str, Str: s, Alloc: &AllocHandle{}}
}
func EnumTag(t types.Type, tag int64) Value {
	return Value{Kind: KEnumTag, Type: t, EnumTag: tag}
}
