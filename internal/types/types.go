// Package types implements the frontend's type representation: a
// tagged-sum Type interface with nominal equality for Named types,
// structural equality everywhere else, and a per-expression
// TypeContext that unifies "untyped" numeric/null literals over a
// union-find lattice (see untyped.go).
package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every type-system variant. Equals is
// structural except for Named, which is nominal (module id + name).
type Type interface {
	String() string
	Equals(Type) bool
	exprKind() // marker, unexported so only this package can add variants
}

// ---- Scalars ----

// Integer is a signed or unsigned integer of a fixed bit width.
type Integer struct {
	Bits   int // 8, 16, 32, 64
	Signed bool
}

func (t *Integer) exprKind() {}
func (t *Integer) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Bits)
	}
	return fmt.Sprintf("u%d", t.Bits)
}
func (t *Integer) Equals(o Type) bool {
	oi, ok := Unwrap(o).(*Integer)
	return ok && oi.Bits == t.Bits && oi.Signed == t.Signed
}

// Float is a 32- or 64-bit IEEE-754 float.
type Float struct{ Bits int }

func (t *Float) exprKind()        {}
func (t *Float) String() string   { return fmt.Sprintf("f%d", t.Bits) }
func (t *Float) Equals(o Type) bool {
	of, ok := Unwrap(o).(*Float)
	return ok && of.Bits == t.Bits
}

// Bool is the boolean type.
type Bool struct{}

func (t *Bool) exprKind()      {}
func (t *Bool) String() string { return "bool" }
func (t *Bool) Equals(o Type) bool {
	_, ok := Unwrap(o).(*Bool)
	return ok
}

// Unit is the empty/void type (`()`).
type Unit struct{}

func (t *Unit) exprKind()      {}
func (t *Unit) String() string { return "unit" }
func (t *Unit) Equals(o Type) bool {
	_, ok := Unwrap(o).(*Unit)
	return ok
}

// StringT is the built-in string type, structurally a slice of u8.
type StringT struct{}

func (t *StringT) exprKind()      {}
func (t *StringT) String() string { return "string" }
func (t *StringT) Equals(o Type) bool {
	_, ok := Unwrap(o).(*StringT)
	return ok
}

// ---- Compound ----

// Pointer is `*Elem`.
type Pointer struct{ Elem Type }

func (t *Pointer) exprKind()      {}
func (t *Pointer) String() string { return "*" + t.Elem.String() }
func (t *Pointer) Equals(o Type) bool {
	op, ok := Unwrap(o).(*Pointer)
	return ok && t.Elem.Equals(op.Elem)
}

// Array is `[Len]Elem`.
type Array struct {
	Elem Type
	Len  int64
}

func (t *Array) exprKind()      {}
func (t *Array) String() string { return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String()) }
func (t *Array) Equals(o Type) bool {
	oa, ok := Unwrap(o).(*Array)
	return ok && t.Len == oa.Len && t.Elem.Equals(oa.Elem)
}

// Slice is `[]Elem`.
type Slice struct{ Elem Type }

func (t *Slice) exprKind()      {}
func (t *Slice) String() string { return "[]" + t.Elem.String() }
func (t *Slice) Equals(o Type) bool {
	os, ok := Unwrap(o).(*Slice)
	return ok && t.Elem.Equals(os.Elem)
}

// Function is `func(Params) -> Return`.
type Function struct {
	Params []Type
	Return Type
}

func (t *Function) exprKind() {}
func (t *Function) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("func(%s) -> %s", strings.Join(parts, ", "), t.Return.String())
}
func (t *Function) Equals(o Type) bool {
	of, ok := Unwrap(o).(*Function)
	if !ok || len(of.Params) != len(t.Params) || !t.Return.Equals(of.Return) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equals(of.Params[i]) {
			return false
		}
	}
	return true
}

// Method is one entry of a Named type's method table.
type Method struct {
	Name string
	Func *Function
}

// Named is a user-declared nominal type: two Named types are equal
// iff they originate from the same module and share a name.
type Named struct {
	ModuleID   int
	ModuleName string
	Name       string
	Underlying Type
	Methods    []Method
	Factory    *Function // nil if none declared
}

func (t *Named) exprKind()      {}
func (t *Named) String() string { return t.ModuleName + "." + t.Name }
func (t *Named) Equals(o Type) bool {
	on, ok := o.(*Named)
	if !ok {
		if al, ok2 := o.(*Alias); ok2 {
			return t.Equals(al.Target)
		}
		return false
	}
	return t.ModuleID == on.ModuleID && t.Name == on.Name
}

func (t *Named) Method(name string) (*Function, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m.Func, true
		}
	}
	return nil, false
}

// Alias is structurally transparent: Equals unwraps to Target.
type Alias struct {
	ModuleID   int
	ModuleName string
	Name       string
	Target     Type
}

func (t *Alias) exprKind()      {}
func (t *Alias) String() string { return t.ModuleName + "." + t.Name }
func (t *Alias) Equals(o Type) bool { return t.Target.Equals(o) }

// StructField is one field of a Struct type.
type StructField struct {
	Name     string
	Type     Type
	Exported bool
}

// Struct is an ordered-field aggregate type.
type Struct struct{ Fields []StructField }

func (t *Struct) exprKind() {}
func (t *Struct) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "struct{" + strings.Join(parts, ", ") + "}"
}
func (t *Struct) Equals(o Type) bool {
	os, ok := Unwrap(o).(*Struct)
	if !ok || len(os.Fields) != len(t.Fields) {
		return false
	}
	for i := range t.Fields {
		if t.Fields[i].Name != os.Fields[i].Name || !t.Fields[i].Type.Equals(os.Fields[i].Type) {
			return false
		}
	}
	return true
}

func (t *Struct) FieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Enum is a closed set of named variants, each mapped to a unique
// integer tag assigned monotonically from 0 in declaration order.
type Enum struct {
	Variants []string
	Tags     map[string]int64
}

func (t *Enum) exprKind()      {}
func (t *Enum) String() string { return "enum{" + strings.Join(t.Variants, ", ") + "}" }
func (t *Enum) Equals(o Type) bool {
	oe, ok := Unwrap(o).(*Enum)
	if !ok || len(oe.Variants) != len(t.Variants) {
		return false
	}
	for i := range t.Variants {
		if t.Variants[i] != oe.Variants[i] {
			return false
		}
	}
	return true
}

// Tag returns the numeric tag for variant, if present.
func (t *Enum) Tag(variant string) (int64, bool) {
	v, ok := t.Tags[variant]
	return v, ok
}

// ---- Unwrap helpers (spec.md §4.6: Inner()/FullUnwrap()) ----

// Inner unwraps a single layer of Alias; Named is left intact (it is
// nominal, not transparent).
func Inner(t Type) Type {
	if a, ok := t.(*Alias); ok {
		return a.Target
	}
	return t
}

// Unwrap repeatedly unwraps Alias layers only (used by Equals so two
// aliases of the same structural type compare equal to it).
func Unwrap(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.Target
	}
}

// FullUnwrap unwraps both Alias and Named down to the underlying
// representation type, per spec.md §4.6.
func FullUnwrap(t Type) Type {
	for {
		switch tt := t.(type) {
		case *Alias:
			t = tt.Target
		case *Named:
			t = tt.Underlying
		default:
			return t
		}
	}
}

// IsNumeric reports whether t's FullUnwrap is Integer or Float.
func IsNumeric(t Type) bool {
	switch FullUnwrap(t).(type) {
	case *Integer, *Float:
		return true
	}
	return false
}

// IsInt reports whether t's FullUnwrap is Integer.
func IsInt(t Type) bool {
	_, ok := FullUnwrap(t).(*Integer)
	return ok
}

// IsPointer reports whether t's FullUnwrap is Pointer.
func IsPointer(t Type) bool {
	_, ok := FullUnwrap(t).(*Pointer)
	return ok
}

// Builtin scalar singletons, shared across the checker to avoid
// re-allocating the common cases.
var (
	I8     = &Integer{Bits: 8, Signed: true}
	I16    = &Integer{Bits: 16, Signed: true}
	I32    = &Integer{Bits: 32, Signed: true}
	I64    = &Integer{Bits: 64, Signed: true}
	U8     = &Integer{Bits: 8, Signed: false}
	U16    = &Integer{Bits: 16, Signed: false}
	U32    = &Integer{Bits: 32, Signed: false}
	U64    = &Integer{Bits: 64, Signed: false}
	F32    = &Float{Bits: 32}
	F64    = &Float{Bits: 64}
	BoolT  = &Bool{}
	UnitT  = &Unit{}
	Str    = &StringT{}
)

// Lookup returns the builtin scalar type for name, if any. ptrBits
// gives the platform word width used for isize/usize.
func Lookup(name string, ptrBits int) (Type, bool) {
	switch name {
	case "i8":
		return I8, true
	case "i16":
		return I16, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	case "isize":
		return &Integer{Bits: ptrBits, Signed: true}, true
	case "usize":
		return &Integer{Bits: ptrBits, Signed: false}, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	case "bool":
		return BoolT, true
	case "unit":
		return UnitT, true
	case "string":
		return Str, true
	case "rune":
		return I32, true
	}
	return nil, false
}
