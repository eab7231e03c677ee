package types

import "testing"

func TestEqual_Reflexive(t *testing.T) {
	vals := []Type{I8, I32, I64, U64, F32, F64, BoolT, UnitT, Str,
		&Pointer{Elem: I32}, &Array{Elem: I32, Len: 3}, &Slice{Elem: I32}}
	for _, v := range vals {
		if !v.Equals(v) {
			t.Errorf("%s not equal to itself", v.String())
		}
	}
}

func TestSubtype_ArrayToString(t *testing.T) {
	ctx := NewTypeContext()
	got := Subtype(ctx, &Array{Elem: U8, Len: 3}, Str)
	if got != SubCast {
		t.Errorf("Subtype(Array(u8,3), string) = %v, want SubCast", got)
	}
}

func TestSubtype_ArrayToSlice(t *testing.T) {
	ctx := NewTypeContext()
	got := Subtype(ctx, &Array{Elem: I32, Len: 3}, &Slice{Elem: I32})
	if got != SubCast {
		t.Errorf("Subtype(Array(i32,3), Slice(i32)) = %v, want SubCast", got)
	}
}

func TestUntyped_NumNarrowsThenFails(t *testing.T) {
	ctx := NewTypeContext()
	u := ctx.NewUntypedNum()

	if !ctx.BindConcrete(u, I32) {
		t.Fatalf("binding num to i32 should succeed")
	}
	if ctx.CheckConcrete(u, F32) {
		t.Errorf("num already bound to i32 should not also accept f32")
	}
}

func TestInferAll_Defaults(t *testing.T) {
	ctx := NewTypeContext()
	num := ctx.NewUntypedNum()
	flt := ctx.NewUntypedFloat()
	ctx.InferAll()

	got, ok := num.Concrete()
	if !ok || !got.Equals(I64) {
		t.Errorf("untyped num defaulted to %v, want i64", got)
	}
	got, ok = flt.Concrete()
	if !ok || !got.Equals(F64) {
		t.Errorf("untyped float defaulted to %v, want f64", got)
	}
}

func TestUnify_IntIntOK_IntFloatFails(t *testing.T) {
	ctx := NewTypeContext()
	a := ctx.NewUntypedInt()
	b := ctx.NewUntypedInt()
	if !ctx.Unify(a, b) {
		t.Errorf("int/int should unify")
	}

	c := ctx.NewUntypedInt()
	d := ctx.NewUntypedFloat()
	if ctx.Unify(c, d) {
		t.Errorf("int/float should not unify")
	}
}

func TestAlias_TransparentEquality(t *testing.T) {
	al := &Alias{Name: "MyInt", Target: I32}
	if !al.Equals(I32) {
		t.Errorf("alias of i32 should equal i32")
	}
	if !I32.Equals(al) {
		t.Errorf("i32 should equal alias of i32 (Named.Equals special-cases Alias, but Integer.Equals unwraps)")
	}
}

func TestNamed_NominalEquality(t *testing.T) {
	a := &Named{ModuleID: 1, Name: "Point", Underlying: &Struct{}}
	b := &Named{ModuleID: 1, Name: "Point", Underlying: &Struct{}}
	c := &Named{ModuleID: 2, Name: "Point", Underlying: &Struct{}}
	if !a.Equals(b) {
		t.Errorf("same module+name Named types should be equal")
	}
	if a.Equals(c) {
		t.Errorf("different module Named types with same name should not be equal")
	}
}
