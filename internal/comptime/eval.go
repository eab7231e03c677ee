package comptime

import (
	"fmt"
	"math"

	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/target"
	"github.com/brylang/bryc/internal/types"
)

// Evaluator walks HIR expressions to a ConstValue. It has no mutable
// environment: constant expressions by definition cannot read
// variables, only other already-folded constants (looked up by
// Symbol in Consts) and literals.
type Evaluator struct {
	Platform target.Platform
	Consts   map[*hir.Symbol]Value

	errs *errors.Counter
}

// New creates an Evaluator targeting platform, used to answer
// #sizeof/#alignof and pointer-width-dependent folding.
func New(platform target.Platform) *Evaluator {
	return &Evaluator{Platform: platform, Consts: make(map[*hir.Symbol]Value), errs: &errors.Counter{}}
}

// Errors returns every diagnostic recorded by Eval calls so far.
func (e *Evaluator) Errors() *errors.Counter { return e.errs }

func (e *Evaluator) fail(code, msg string, span hir.Node) error {
	var sp *errors.Span
	if span != nil {
		s := span.Position()
		sp = &errors.Span{StartLine: s.Start.Line, StartCol: s.Start.Col, EndLine: s.End.Line, EndCol: s.End.Col, File: s.Start.File}
	}
	r := errors.New(code, msg, sp)
	e.errs.Add(r)
	return errors.Wrap(r)
}

// Eval recursively evaluates expr to a Value, or returns a *Report
// error for a comptime failure (division by zero, overflow,
// out-of-bounds, non-constant construct, ...), per spec.md §4.8/§7.6.
func (e *Evaluator) Eval(expr hir.Expr) (Value, error) {
	switch x := expr.(type) {
	case *hir.Literal:
		return e.evalLiteral(x)
	case *hir.Ident:
		if v, ok := e.Consts[x.Sym]; ok {
			return v, nil
		}
		return Value{}, e.fail(errors.CMT005, fmt.Sprintf("%q is not a constant expression", x.Sym.Name), x)
	case *hir.StaticGet:
		if v, ok := e.Consts[x.Sym]; ok {
			return v, nil
		}
		return Value{}, e.fail(errors.CMT005, fmt.Sprintf("%q is not a constant expression", x.Sym.Name), x)
	case *hir.EnumLit:
		return EnumTag(x.Type, x.Tag), nil
	case *hir.Unary:
		return e.evalUnary(x)
	case *hir.Binary:
		return e.evalBinary(x)
	case *hir.Cast:
		return e.evalCast(x)
	case *hir.ArrayLit:
		return e.evalArrayLit(x)
	case *hir.StructLit:
		return e.evalStructLit(x)
	case *hir.Index:
		return e.evalIndex(x)
	case *hir.SliceExpr:
		return e.evalSlice(x)
	case *hir.Field:
		return e.evalField(x)
	case *hir.New:
		return Value{}, e.fail(errors.CMT005, "heap allocation is not a constant expression", x)
	case *hir.NewArray:
		return Value{}, e.fail(errors.CMT005, "heap allocation is not a constant expression", x)
	case *hir.Call:
		return Value{}, e.fail(errors.CMT005, "call to a non-constant function in a constant expression", x)
	}
	return Value{}, e.fail(errors.CMT005, "expression is not constant", expr)
}

func (e *Evaluator) evalLiteral(x *hir.Literal) (Value, error) {
	switch v := x.Value.(type) {
	case int64:
		return Int(x.Type, v), nil
	case float64:
		return Float(x.Type, v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case rune:
		return Int(x.Type, int64(v)), nil
	}
	return Value{}, e.fail(errors.CMT005, "unsupported literal kind", x)
}

// wrapInt truncates n to the wrapping semantics of an N-bit integer
// (two's-complement for signed), per spec.md §4.8's "wrapping
// semantics matching the operand's bit width".
func wrapInt(n int64, bits int, signed bool) int64 {
	if bits >= 64 {
		return n
	}
	mask := int64(1)<<uint(bits) - 1
	v := n & mask
	if signed && v&(int64(1)<<uint(bits-1)) != 0 {
		v -= int64(1) << uint(bits)
	}
	return v
}

func intInfo(t types.Type) (bits int, signed bool) {
	if it, ok := types.FullUnwrap(t).(*types.Integer); ok {
		return it.Bits, it.Signed
	}
	return 64, true
}

func (e *Evaluator) evalUnary(x *hir.Unary) (Value, error) {
	v, err := e.Eval(x.X)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case "-":
		if v.Kind == KFloat {
			return Float(v.Type, -v.Float), nil
		}
		bits, signed := intInfo(v.Type)
		if v.Int == math.MinInt64 && bits == 64 {
			return Value{}, e.fail(errors.CMT002, "negation overflows", x)
		}
		return Int(v.Type, wrapInt(-v.Int, bits, signed)), nil
	case "!":
		return Bool(!v.Bool), nil
	case "~":
		bits, signed := intInfo(v.Type)
		return Int(v.Type, wrapInt(^v.Int, bits, signed)), nil
	case "&":
		return Value{}, e.fail(errors.CMT005, "address-of is not a constant expression", x)
	}
	return Value{}, e.fail(errors.CMT005, fmt.Sprintf("unsupported unary operator %q in constant expression", x.Op), x)
}

func (e *Evaluator) evalBinary(x *hir.Binary) (Value, error) {
	// Logical operators short-circuit: evaluate rhs only when needed.
	if x.Op == "&&" {
		l, err := e.Eval(x.Left)
		if err != nil {
			return Value{}, err
		}
		if !l.Bool {
			return Bool(false), nil
		}
		r, err := e.Eval(x.Right)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.Bool), nil
	}
	if x.Op == "||" {
		l, err := e.Eval(x.Left)
		if err != nil {
			return Value{}, err
		}
		if l.Bool {
			return Bool(true), nil
		}
		r, err := e.Eval(x.Right)
		if err != nil {
			return Value{}, err
		}
		return Bool(r.Bool), nil
	}

	l, err := e.Eval(x.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := e.Eval(x.Right)
	if err != nil {
		return Value{}, err
	}

	switch x.Op {
	case "==", "!=", "<", ">", "<=", ">=":
		return e.evalCompare(x.Op, l, r)
	}

	if l.Kind == KString && r.Kind == KString && x.Op == "+" {
		return String(l.Str + r.Str), nil
	}

	if l.Kind == KFloat || r.Kind == KFloat {
		lf, rf := asFloat(l), asFloat(r)
		var out float64
		switch x.Op {
		case "+":
			out = lf + rf
		case "-":
			out = lf - rf
		case "*":
			out = lf * rf
		case "/":
			if rf == 0 {
				return Value{}, e.fail(errors.CMT001, "division by zero", x)
			}
			out = lf / rf
		default:
			return Value{}, e.fail(errors.CMT005, fmt.Sprintf("operator %q not defined on float in constant context", x.Op), x)
		}
		return Float(l.Type, out), nil
	}

	bits, signed := intInfo(l.Type)
	switch x.Op {
	case "+":
		return Int(l.Type, wrapInt(l.Int+r.Int, bits, signed)), nil
	case "-":
		return Int(l.Type, wrapInt(l.Int-r.Int, bits, signed)), nil
	case "*":
		return Int(l.Type, wrapInt(l.Int*r.Int, bits, signed)), nil
	case "/":
		if r.Int == 0 {
			return Value{}, e.fail(errors.CMT001, "division by zero", x)
		}
		if r.Int == -1 && (l.Int == math.MinInt64 || (signed && bits > 0 && bits < 64 && l.Int == -(int64(1)<<uint(bits-1)))) {
			return Value{}, e.fail(errors.CMT002, "signed overflow: min_int / -1", x)
		}
		return Int(l.Type, wrapInt(l.Int/r.Int, bits, signed)), nil
	case "%":
		if r.Int == 0 {
			return Value{}, e.fail(errors.CMT001, "modulo by zero", x)
		}
		return Int(l.Type, wrapInt(l.Int%r.Int, bits, signed)), nil
	case "&":
		return Int(l.Type, wrapInt(l.Int&r.Int, bits, signed)), nil
	case "|":
		return Int(l.Type, wrapInt(l.Int|r.Int, bits, signed)), nil
	case "^":
		return Int(l.Type, wrapInt(l.Int^r.Int, bits, signed)), nil
	case "<<":
		if r.Int < 0 || r.Int >= int64(bits) {
			return Value{}, e.fail(errors.CMT004, fmt.Sprintf("shift amount %d out of range for %d-bit operand", r.Int, bits), x)
		}
		return Int(l.Type, wrapInt(l.Int<<uint(r.Int), bits, signed)), nil
	case ">>":
		if r.Int < 0 || r.Int >= int64(bits) {
			return Value{}, e.fail(errors.CMT004, fmt.Sprintf("shift amount %d out of range for %d-bit operand", r.Int, bits), x)
		}
		return Int(l.Type, wrapInt(l.Int>>uint(r.Int), bits, signed)), nil
	}
	return Value{}, e.fail(errors.CMT005, fmt.Sprintf("operator %q not supported in constant context", x.Op), x)
}

func asFloat(v Value) float64 {
	if v.Kind == KFloat {
		return v.Float
	}
	return float64(v.Int)
}

func (e *Evaluator) evalCompare(op string, l, r Value) (Value, error) {
	var cmp int
	switch {
	case l.Kind == KFloat || r.Kind == KFloat:
		lf, rf := asFloat(l), asFloat(r)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case l.Kind == KString:
		switch {
		case l.Str < r.Str:
			cmp = -1
		case l.Str > r.Str:
			cmp = 1
		}
	case l.Kind == KBool:
		cmp = boolCmp(l.Bool, r.Bool)
	default:
		switch {
		case l.Int < r.Int:
			cmp = -1
		case l.Int > r.Int:
			cmp = 1
		}
	}
	switch op {
	case "==":
		return Bool(cmp == 0), nil
	case "!=":
		return Bool(cmp != 0), nil
	case "<":
		return Bool(cmp < 0), nil
	case ">":
		return Bool(cmp > 0), nil
	case "<=":
		return Bool(cmp <= 0), nil
	case ">=":
		return Bool(cmp >= 0), nil
	}
	return Value{}, fmt.Errorf("unreachable comparison operator %q", op)
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func (e *Evaluator) evalArrayLit(x *hir.ArrayLit) (Value, error) {
	elems := make([]Value, len(x.Elems))
	for i, el := range x.Elems {
		v, err := e.Eval(el)
		if err != nil {
			return Value{}, err
		}
		elems[i] = v
	}
	return Value{Kind: KArray, Type: x.Type, Elems: elems, Alloc: &AllocHandle{}}, nil
}

func (e *Evaluator) evalStructLit(x *hir.StructLit) (Value, error) {
	elems := make([]Value, len(x.Fields))
	for _, f := range x.Fields {
		v, err := e.Eval(f.Value)
		if err != nil {
			return Value{}, err
		}
		elems[f.Index] = v
	}
	return Value{Kind: KStruct, Type: x.Type, Elems: elems, Alloc: &AllocHandle{}}, nil
}

func (e *Evaluator) evalCast(x *hir.Cast) (Value, error) {
	v, err := e.Eval(x.X)
	if err != nil {
		return Value{}, err
	}
	dest := x.Type

	switch types.FullUnwrap(dest).(type) {
	case *types.Integer:
		bits, signed := intInfo(dest)
		switch v.Kind {
		case KInt, KEnumTag:
			n := v.Int
			if v.Kind == KEnumTag {
				n = v.EnumTag
			}
			return Int(dest, wrapInt(n, bits, signed)), nil
		case KFloat:
			return Int(dest, wrapInt(int64(v.Float), bits, signed)), nil
		case KBool:
			if v.Bool {
				return Int(dest, 1), nil
			}
			return Int(dest, 0), nil
		}
	case *types.Float:
		return Float(dest, asFloat(v)), nil
	case *types.Bool:
		return Bool(v.Int != 0), nil
	case *types.Enum:
		return EnumTag(dest, v.Int), nil
	case *types.Pointer:
		return Value{}, e.fail(errors.CMT006, "comptime pointer casts are rejected", x)
	}
	return Value{}, e.fail(errors.CMT005, "unsupported constant cast", x)
}

// evalIndex implements spec.md §4.8's indexing semantics: lo
// inclusive, hi exclusive; hi > len is an error for indexing, hi ==
// len allowed for slicing; lo > hi is an error.
func (e *Evaluator) evalIndex(x *hir.Index) (Value, error) {
	base, err := e.Eval(x.X)
	if err != nil {
		return Value{}, err
	}
	idx, err := e.Eval(x.Idx)
	if err != nil {
		return Value{}, err
	}
	var length int64
	switch base.Kind {
	case KArray, KStruct:
		length = int64(len(base.Elems))
	case KString:
		length = int64(len(base.Str))
	case KZeroArray:
		length = base.ZeroLen
	default:
		return Value{}, e.fail(errors.CMT005, "cannot index this constant", x)
	}
	if idx.Int < 0 || idx.Int >= length {
		return Value{}, e.fail(errors.CMT003, fmt.Sprintf("index %d out of bounds for length %d", idx.Int, length), x)
	}
	if base.Kind == KString {
		return Int(types.U8, int64(base.Str[idx.Int])), nil
	}
	if base.Kind == KZeroArray {
		return zeroValue(x.Type), nil
	}
	return base.Elems[idx.Int], nil
}

func (e *Evaluator) evalSlice(x *hir.SliceExpr) (Value, error) {
	base, err := e.Eval(x.X)
	if err != nil {
		return Value{}, err
	}
	var length int64
	switch base.Kind {
	case KArray:
		length = int64(len(base.Elems))
	case KString:
		length = int64(len(base.Str))
	default:
		return Value{}, e.fail(errors.CMT005, "cannot slice this constant", x)
	}
	lo, hi := int64(0), length
	if x.Lo != nil {
		v, err := e.Eval(x.Lo)
		if err != nil {
			return Value{}, err
		}
		lo = v.Int
	}
	if x.Hi != nil {
		v, err := e.Eval(x.Hi)
		if err != nil {
			return Value{}, err
		}
		hi = v.Int
	}
	if lo > hi {
		return Value{}, e.fail(errors.CMT003, fmt.Sprintf("slice low bound %d greater than high bound %d", lo, hi), x)
	}
	if hi > length {
		return Value{}, e.fail(errors.CMT003, fmt.Sprintf("slice high bound %d exceeds length %d", hi, length), x)
	}
	if base.Kind == KString {
		return String(base.Str[lo:hi]), nil
	}
	return Value{Kind: KArray, Type: x.Type, Elems: append([]Value{}, base.Elems[lo:hi]...), Alloc: &AllocHandle{}}, nil
}

// evalField implements spec.md §4.8's `_len`/`_ptr` pseudo-fields on
// arrays/strings, and plain struct field selection otherwise.
func (e *Evaluator) evalField(x *hir.Field) (Value, error) {
	base, err := e.Eval(x.X)
	if err != nil {
		return Value{}, err
	}
	switch x.Name {
	case "_len":
		switch base.Kind {
		case KArray:
			return Int(types.U64, int64(len(base.Elems))), nil
		case KString:
			return Int(types.U64, int64(len(base.Str))), nil
		case KZeroArray:
			return Int(types.U64, base.ZeroLen), nil
		}
		return Value{}, e.fail(errors.CMT005, "_len is only defined on arrays and strings", x)
	case "_ptr":
		return Value{Kind: KPointer, Type: x.Type, Alloc: base.Alloc}, nil
	}
	if base.Kind == KStruct && x.Index < len(base.Elems) {
		return base.Elems[x.Index], nil
	}
	return Value{}, e.fail(errors.CMT005, fmt.Sprintf("field %q is not a constant field", x.Name), x)
}

func zeroValue(t types.Type) Value {
	switch types.FullUnwrap(t).(type) {
	case *types.Integer:
		return Int(t, 0)
	case *types.Float:
		return Float(t, 0)
	case *types.Bool:
		return Bool(false)
	}
	return Value{Kind: KInt, Type: t}
}

// Sizeof/Alignof answer the #sizeof/#alignof comptime macros by
// delegating to the TargetPlatform oracle, per spec.md §4.8.
func (e *Evaluator) Sizeof(t types.Type) Value  { return Int(types.U64, int64(e.Platform.Sizeof(t))) }
func (e *Evaluator) Alignof(t types.Type) Value { return Int(types.U64, int64(e.Platform.Alignof(t))) }
