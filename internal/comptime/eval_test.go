package comptime

import (
	"testing"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/target"
	"github.com/brylang/bryc/internal/types"
)

var noSpan ast.Span

func intLit(n int64, t types.Type) *hir.Literal { return hir.NewLiteral(noSpan, t, n) }
func strLit(s string) *hir.Literal              { return hir.NewLiteral(noSpan, types.Str, s) }

func TestConstK_ArithmeticPrecedence(t *testing.T) {
	// const K: i32 = 2 + 3*4; -> 14
	mul := hir.NewBinary(noSpan, types.I32, "*", intLit(3, types.I32), intLit(4, types.I32))
	add := hir.NewBinary(noSpan, types.I32, "+", intLit(2, types.I32), mul)

	ev := New(target.Host())
	v, err := ev.Eval(add)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KInt || v.Int != 14 {
		t.Errorf("got %v, want I32(14)", v)
	}
}

func TestConstS_StringConcat(t *testing.T) {
	add := hir.NewBinary(noSpan, types.Str, "+", strLit("ab"), strLit("c"))

	ev := New(target.Host())
	v, err := ev.Eval(add)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KString || v.Str != "abc" {
		t.Errorf("got %v, want String(\"abc\")", v)
	}
}

func TestConst_NewArrayIsNotConstant(t *testing.T) {
	na := hir.NewNewArray(noSpan, &types.Pointer{Elem: types.I32}, intLit(4, types.I32))

	ev := New(target.Host())
	_, err := ev.Eval(na)
	if err == nil {
		t.Fatalf("expected heap allocation to be rejected as non-constant")
	}
}

func TestConstX_OutOfBounds(t *testing.T) {
	arrTy := &types.Array{Elem: types.I32, Len: 3}
	arr := hir.NewArrayLit(noSpan, arrTy, hir.AllocGlobal, []hir.Expr{
		intLit(1, types.I32), intLit(2, types.I32), intLit(3, types.I32),
	})
	index := hir.NewIndex(noSpan, types.I32, false, arr, intLit(3, types.I32))

	ev := New(target.Host())
	_, err := ev.Eval(index)
	if err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
	rep, ok := errors.As(err)
	if !ok || rep.Code != errors.CMT003 {
		t.Errorf("got %v, want CMT003", err)
	}
}

func TestConstZ_DivideByZero(t *testing.T) {
	div := hir.NewBinary(noSpan, types.I32, "/", intLit(10, types.I32), intLit(0, types.I32))

	ev := New(target.Host())
	_, err := ev.Eval(div)
	rep, ok := errors.As(err)
	if !ok || rep.Code != errors.CMT001 {
		t.Errorf("got %v, want CMT001", err)
	}
}

func TestEnum_MonotonicTags(t *testing.T) {
	enumTy := &types.Enum{Variants: []string{"A", "B", "C"}, Tags: map[string]int64{"A": 0, "B": 1, "C": 2}}
	lit := hir.NewEnumLit(noSpan, enumTy, enumTy.Tags["B"])

	ev := New(target.Host())
	v, err := ev.Eval(lit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KEnumTag || v.EnumTag != 1 {
		t.Errorf("got %v, want EnumTag(1)", v)
	}
}

func TestMinIntDivNegOne_Overflows(t *testing.T) {
	div := hir.NewBinary(noSpan, types.I64, "/", intLit(-9223372036854775808, types.I64), intLit(-1, types.I64))
	ev := New(target.Host())
	_, err := ev.Eval(div)
	rep, ok := errors.As(err)
	if !ok || rep.Code != errors.CMT002 {
		t.Errorf("got %v, want CMT002", err)
	}
}

func TestShiftOutOfRange(t *testing.T) {
	shl := hir.NewBinary(noSpan, types.I32, "<<", intLit(1, types.I32), intLit(32, types.I32))
	ev := New(target.Host())
	_, err := ev.Eval(shl)
	rep, ok := errors.As(err)
	if !ok || rep.Code != errors.CMT004 {
		t.Errorf("got %v, want CMT004", err)
	}
}
