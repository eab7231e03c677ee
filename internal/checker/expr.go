package checker

import (
	"strconv"
	"strings"

	"github.com/brylang/bryc/internal/ast"
	"github.com/brylang/bryc/internal/errors"
	"github.com/brylang/bryc/internal/hir"
	"github.com/brylang/bryc/internal/types"
)

// checkExpr type-checks expr within tctx (the enclosing full
// expression's union-find scratchpad) and returns its HIR form.
// expected carries the type context demands, if any (e.g. a let's
// declared type); it is used only to seed untyped-literal resolution,
// never to force a mismatch silently.
func (c *Checker) checkExpr(expr ast.Expr, tctx *types.TypeContext, expected types.Type) hir.Expr {
	switch x := expr.(type) {
	case *ast.IntLit:
		return c.checkIntLit(x, tctx, expected)
	case *ast.FloatLit:
		return c.checkFloatLit(x, tctx, expected)
	case *ast.RuneLit:
		return hir.NewLiteral(x.Span, types.I32, int64(x.Value))
	case *ast.StringLit:
		return hir.NewLiteral(x.Span, types.Str, x.Value)
	case *ast.BoolLit:
		return hir.NewLiteral(x.Span, types.BoolT, x.Value)
	case *ast.Ident:
		return c.checkIdent(x)
	case *ast.BinaryExpr:
		return c.checkBinary(x, tctx, expected)
	case *ast.UnaryExpr:
		return c.checkUnary(x, tctx)
	case *ast.DerefExpr:
		return c.checkDeref(x, tctx)
	case *ast.CallExpr:
		return c.checkCall(x, tctx)
	case *ast.IndexExpr:
		return c.checkIndex(x, tctx)
	case *ast.SliceExpr:
		return c.checkSlice(x, tctx)
	case *ast.FieldExpr:
		return c.checkField(x, tctx)
	case *ast.CastExpr:
		return c.checkCast(x, tctx)
	case *ast.NewExpr:
		return c.checkNew(x, tctx)
	case *ast.NewArrayExpr:
		return c.checkNewArray(x, tctx)
	case *ast.StructLit:
		return c.checkStructLit(x, tctx, expected)
	case *ast.ArrayLit:
		return c.checkArrayLit(x, tctx, expected)
	case *ast.UnsafeExpr:
		c.unsafeDepth++
		v := c.checkExpr(x.X, tctx, expected)
		c.unsafeDepth--
		return v
	}
	c.errAt(errors.INT001, expr.Position(), "unhandled expression kind %T", expr)
	return hir.NewLiteral(expr.Position(), placeholderType, nil)
}

func parseIntRaw(raw string) (int64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		if u, uerr := strconv.ParseUint(s, 0, 64); uerr == nil {
			return int64(u), true
		}
		return 0, false
	}
	return n, true
}

func (c *Checker) checkIntLit(x *ast.IntLit, tctx *types.TypeContext, expected types.Type) hir.Expr {
	n, ok := parseIntRaw(x.Raw)
	if !ok {
		c.errAt(errors.LEX003, x.Span, "malformed integer literal %q", x.Raw)
	}
	u := tctx.NewUntypedInt()
	t := c.seedUntyped(u, tctx, expected)
	return hir.NewLiteral(x.Span, t, n)
}

func (c *Checker) checkFloatLit(x *ast.FloatLit, tctx *types.TypeContext, expected types.Type) hir.Expr {
	s := strings.ReplaceAll(x.Raw, "_", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.errAt(errors.LEX003, x.Span, "malformed float literal %q", x.Raw)
	}
	u := tctx.NewUntypedFloat()
	t := c.seedUntyped(u, tctx, expected)
	return hir.NewLiteral(x.Span, t, f)
}

// seedUntyped binds u to expected immediately when the caller already
// knows the target type (a declared let/const type, a cast
// destination, ...), otherwise leaves it untyped for InferAll to
// default at FinishExpr.
func (c *Checker) seedUntyped(u *types.Untyped, tctx *types.TypeContext, expected types.Type) types.Type {
	if expected != nil {
		if tctx.BindConcrete(u, expected) {
			return expected
		}
	}
	return u
}

func (c *Checker) checkIdent(x *ast.Ident) hir.Expr {
	if sym, ok := c.scopes.lookup(x.Name); ok {
		return hir.NewIdent(x.Span, sym)
	}
	if sym, ok := c.symbols[x.Name]; ok {
		return hir.NewIdent(x.Span, sym)
	}
	if t, ok := c.namedTypes[x.Name]; ok {
		// bare reference to a type name used as a value is a kind error
		// unless it is an enum whose case is selected via FieldExpr;
		// here it stands alone, which is never valid.
		c.errAt(errors.RES002, x.Span, "type %q used as a value", x.Name)
		return hir.NewLiteral(x.Span, t, nil)
	}
	if c.core != nil {
		if decl, ok := c.core.Exports[x.Name]; ok {
			sym := c.foreignSymbol(c.core, "core", x.Name, decl)
			if sym.IsType {
				c.errAt(errors.RES002, x.Span, "type %q used as a value", x.Name)
			}
			return hir.NewStaticGet(x.Span, sym)
		}
	}
	if builtin, ok := types.Lookup(x.Name, c.platform.ArchBits); ok {
		c.errAt(errors.RES002, x.Span, "type %q used as a value", x.Name)
		return hir.NewLiteral(x.Span, builtin, nil)
	}
	c.errAt(errors.RES001, x.Span, "undefined identifier %q", x.Name)
	return hir.NewIdent(x.Span, &hir.Symbol{Name: x.Name, Type: placeholderType})
}

func (c *Checker) checkBinary(x *ast.BinaryExpr, tctx *types.TypeContext, expected types.Type) hir.Expr {
	switch x.Op {
	case "&&", "||":
		l := c.checkExpr(x.Left, tctx, types.BoolT)
		r := c.checkExpr(x.Right, tctx, types.BoolT)
		c.requireSubtype(x.Span, tctx, l.ExprType(), types.BoolT)
		c.requireSubtype(x.Span, tctx, r.ExprType(), types.BoolT)
		return hir.NewBinary(x.Span, types.BoolT, x.Op, l, r)
	case "==", "!=", "<", ">", "<=", ">=":
		l := c.checkExpr(x.Left, tctx, nil)
		r := c.checkExpr(x.Right, tctx, l.ExprType())
		if !c.unifyOperands(tctx, l.ExprType(), r.ExprType()) {
			c.errAt(errors.TYP002, x.Span, "cannot compare %s and %s", l.ExprType().String(), r.ExprType().String())
		}
		return hir.NewBinary(x.Span, types.BoolT, x.Op, l, r)
	default:
		l := c.checkExpr(x.Left, tctx, expected)
		r := c.checkExpr(x.Right, tctx, l.ExprType())
		if !c.unifyOperands(tctx, l.ExprType(), r.ExprType()) {
			c.errAt(errors.TYP002, x.Span, "operator %q requires matching operand types, got %s and %s", x.Op, l.ExprType().String(), r.ExprType().String())
			return hir.NewBinary(x.Span, l.ExprType(), x.Op, l, r)
		}
		resultType := l.ExprType()
		if x.Op == "+" {
			if _, ok := types.FullUnwrap(resultType).(*types.StringT); ok {
				return hir.NewBinary(x.Span, types.Str, x.Op, l, r)
			}
		}
		if !types.IsNumeric(resultType) {
			switch x.Op {
			case "&", "|", "^", "<<", ">>":
				if !types.IsInt(resultType) {
					c.errAt(errors.TYP002, x.Span, "bitwise operator %q requires an integer operand, got %s", x.Op, resultType.String())
				}
			default:
				c.errAt(errors.TYP002, x.Span, "operator %q requires a numeric operand, got %s", x.Op, resultType.String())
			}
		}
		return hir.NewBinary(x.Span, resultType, x.Op, l, r)
	}
}

// unifyOperands asserts that a and b are the same type, resolving any
// untyped literal against the other side.
func (c *Checker) unifyOperands(tctx *types.TypeContext, a, b types.Type) bool {
	ua, aIsU := a.(*types.Untyped)
	ub, bIsU := b.(*types.Untyped)
	switch {
	case aIsU && bIsU:
		return tctx.Unify(ua, ub)
	case aIsU:
		return tctx.BindConcrete(ua, b)
	case bIsU:
		return tctx.BindConcrete(ub, a)
	default:
		return a.Equals(b)
	}
}

func (c *Checker) requireSubtype(span ast.Span, tctx *types.TypeContext, sub, super types.Type) {
	if types.Subtype(tctx, sub, super) == types.SubFail {
		c.errAt(errors.TYP004, span, "expected %s, got %s", super.String(), sub.String())
	}
}

func (c *Checker) checkUnary(x *ast.UnaryExpr, tctx *types.TypeContext) hir.Expr {
	operand := c.checkExpr(x.X, tctx, nil)
	switch x.Op {
	case "-":
		if !types.IsNumeric(operand.ExprType()) {
			c.errAt(errors.TYP002, x.Span, "unary - requires a numeric operand, got %s", operand.ExprType().String())
		}
		return hir.NewUnary(x.Span, operand.ExprType(), x.Op, operand)
	case "!":
		c.requireSubtype(x.Span, tctx, operand.ExprType(), types.BoolT)
		return hir.NewUnary(x.Span, types.BoolT, x.Op, operand)
	case "~":
		if !types.IsInt(operand.ExprType()) {
			c.errAt(errors.TYP002, x.Span, "unary ~ requires an integer operand, got %s", operand.ExprType().String())
		}
		return hir.NewUnary(x.Span, operand.ExprType(), x.Op, operand)
	case "&":
		if !operand.Assignable() {
			c.errAt(errors.TYP002, x.Span, "cannot take address of a non-addressable expression")
		}
		return hir.NewUnary(x.Span, &types.Pointer{Elem: operand.ExprType()}, x.Op, operand)
	}
	c.errAt(errors.INT001, x.Span, "unhandled unary operator %q", x.Op)
	return hir.NewUnary(x.Span, operand.ExprType(), x.Op, operand)
}

func (c *Checker) checkDeref(x *ast.DerefExpr, tctx *types.TypeContext) hir.Expr {
	operand := c.checkExpr(x.X, tctx, nil)
	ptr, ok := types.FullUnwrap(operand.ExprType()).(*types.Pointer)
	if !ok {
		c.errAt(errors.TYP002, x.Span, "cannot dereference non-pointer type %s", operand.ExprType().String())
		return hir.NewDeref(x.Span, placeholderType, false, operand)
	}
	if c.unsafeDepth == 0 {
		c.errAt(errors.TYP007, x.Span, "pointer dereference requires an unsafe context")
	}
	return hir.NewDeref(x.Span, ptr.Elem, true, operand)
}

func (c *Checker) checkCall(x *ast.CallExpr, tctx *types.TypeContext) hir.Expr {
	fn := c.checkExpr(x.Fn, tctx, nil)
	ft, ok := types.FullUnwrap(fn.ExprType()).(*types.Function)
	if !ok {
		c.errAt(errors.TYP002, x.Span, "cannot call non-function type %s", fn.ExprType().String())
		args := make([]hir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = c.checkExpr(a, tctx, nil)
		}
		return hir.NewCall(x.Span, placeholderType, fn, args)
	}
	args := make([]hir.Expr, len(x.Args))
	for i, a := range x.Args {
		var expected types.Type
		if i < len(ft.Params) {
			expected = ft.Params[i]
		}
		av := c.checkExpr(a, tctx, expected)
		if i < len(ft.Params) {
			c.requireSubtype(a.Position(), tctx, av.ExprType(), ft.Params[i])
		}
		args[i] = av
	}
	if len(args) != len(ft.Params) {
		c.errAt(errors.TYP002, x.Span, "call has %d argument(s), function expects %d", len(args), len(ft.Params))
	}
	return hir.NewCall(x.Span, ft.Return, fn, args)
}

func (c *Checker) checkIndex(x *ast.IndexExpr, tctx *types.TypeContext) hir.Expr {
	base := c.checkExpr(x.X, tctx, nil)
	idx := c.checkExpr(x.Index, tctx, &types.Integer{Bits: 64, Signed: false})
	if !types.IsInt(idx.ExprType()) {
		c.errAt(errors.TYP002, x.Index.Position(), "index must be an integer, got %s", idx.ExprType().String())
	}
	switch bt := types.FullUnwrap(base.ExprType()).(type) {
	case *types.Array:
		return hir.NewIndex(x.Span, bt.Elem, base.Assignable(), base, idx)
	case *types.Slice:
		return hir.NewIndex(x.Span, bt.Elem, true, base, idx)
	case *types.Pointer:
		if c.unsafeDepth == 0 {
			c.errAt(errors.TYP007, x.Span, "indexing through a pointer requires an unsafe context")
		}
		return hir.NewIndex(x.Span, bt.Elem, true, base, idx)
	case *types.StringT:
		return hir.NewIndex(x.Span, types.U8, false, base, idx)
	}
	c.errAt(errors.TYP002, x.Span, "cannot index type %s", base.ExprType().String())
	return hir.NewIndex(x.Span, placeholderType, false, base, idx)
}

func (c *Checker) checkSlice(x *ast.SliceExpr, tctx *types.TypeContext) hir.Expr {
	base := c.checkExpr(x.X, tctx, nil)
	usize := &types.Integer{Bits: 64, Signed: false}
	var lo, hi hir.Expr
	if x.Lo != nil {
		lo = c.checkExpr(x.Lo, tctx, usize)
	}
	if x.Hi != nil {
		hi = c.checkExpr(x.Hi, tctx, usize)
	}
	var resultType types.Type
	switch bt := types.FullUnwrap(base.ExprType()).(type) {
	case *types.Array:
		resultType = &types.Slice{Elem: bt.Elem}
	case *types.Slice:
		resultType = bt
	case *types.StringT:
		resultType = types.Str
	default:
		c.errAt(errors.TYP002, x.Span, "cannot slice type %s", base.ExprType().String())
		resultType = placeholderType
	}
	return hir.NewSlice(x.Span, resultType, base, lo, hi)
}

// pseudoFieldType resolves the `_len`/`_ptr` pseudo-field types for an
// array/slice/string/pointer base, per spec.md §4.8. elemOf is the
// base's element type (u8 for string).
func pseudoFieldType(name string, elemOf types.Type) (types.Type, bool) {
	switch name {
	case "_len":
		return &types.Integer{Bits: 64, Signed: false}, true
	case "_ptr":
		return &types.Pointer{Elem: elemOf}, true
	}
	return nil, false
}

func elemTypeOf(t types.Type) types.Type {
	switch bt := types.FullUnwrap(t).(type) {
	case *types.Array:
		return bt.Elem
	case *types.Slice:
		return bt.Elem
	case *types.Pointer:
		return bt.Elem
	case *types.StringT:
		return types.U8
	}
	return placeholderType
}

func (c *Checker) checkField(x *ast.FieldExpr, tctx *types.TypeContext) hir.Expr {
	if id, ok := x.X.(*ast.Ident); ok {
		if _, isImport := c.imports[id.Name]; isImport {
			return c.checkStaticGet(x.Span, id.Name, x.Field)
		}
		if named, ok := c.namedTypes[id.Name].(*types.Named); ok {
			if et, ok := types.FullUnwrap(named).(*types.Enum); ok {
				if tag, ok := et.Tag(x.Field); ok {
					return hir.NewEnumLit(x.Span, named, tag)
				}
				c.errAt(errors.RES001, x.Span, "enum %q has no case %q", id.Name, x.Field)
				return hir.NewEnumLit(x.Span, named, 0)
			}
		}
	}

	base := c.checkExpr(x.X, tctx, nil)

	switch types.FullUnwrap(base.ExprType()).(type) {
	case *types.Array, *types.Slice, *types.StringT, *types.Pointer:
		if t, ok := pseudoFieldType(x.Field, elemTypeOf(base.ExprType())); ok {
			return hir.NewField(x.Span, t, false, base, -1, x.Field)
		}
	}

	st, ok := types.FullUnwrap(base.ExprType()).(*types.Struct)
	if !ok {
		c.errAt(errors.TYP002, x.Span, "field access on non-struct type %s", base.ExprType().String())
		return hir.NewField(x.Span, placeholderType, false, base, -1, x.Field)
	}
	idx, ok := st.FieldIndex(x.Field)
	if !ok {
		c.errAt(errors.RES001, x.Span, "undefined field %q on %s", x.Field, base.ExprType().String())
		return hir.NewField(x.Span, placeholderType, false, base, -1, x.Field)
	}
	return hir.NewField(x.Span, st.Fields[idx].Type, base.Assignable(), base, idx, x.Field)
}

func (c *Checker) checkCast(x *ast.CastExpr, tctx *types.TypeContext) hir.Expr {
	dest := c.resolveType(x.Type)
	operand := c.checkExpr(x.X, tctx, nil)
	switch types.Cast(tctx, operand.ExprType(), dest) {
	case types.CastFail:
		c.errAt(errors.TYP003, x.Span, "cannot cast %s to %s", operand.ExprType().String(), dest.String())
	case types.CastUnsafeOnly:
		if c.unsafeDepth == 0 {
			c.errAt(errors.TYP007, x.Span, "cast from %s to %s requires an unsafe context", operand.ExprType().String(), dest.String())
		}
	}
	return hir.NewCast(x.Span, dest, operand)
}

func (c *Checker) checkNew(x *ast.NewExpr, tctx *types.TypeContext) hir.Expr {
	t := c.resolveType(x.Type)
	args := make([]hir.Expr, len(x.Args))

	if st, ok := types.FullUnwrap(t).(*types.Struct); ok && len(x.Args) > 0 {
		for i, a := range x.Args {
			var expected types.Type
			if i < len(st.Fields) {
				expected = st.Fields[i].Type
			}
			av := c.checkExpr(a, tctx, expected)
			if i < len(st.Fields) {
				c.requireSubtype(a.Position(), tctx, av.ExprType(), st.Fields[i].Type)
			}
			args[i] = av
		}
	} else {
		for i, a := range x.Args {
			args[i] = c.checkExpr(a, tctx, t)
		}
	}
	return hir.NewNew(x.Span, &types.Pointer{Elem: t}, hir.AllocHeap, args)
}

// checkNewArray checks `new T[size]`, the heap-array allocation form
// distinct from new T's single-value allocation.
func (c *Checker) checkNewArray(x *ast.NewArrayExpr, tctx *types.TypeContext) hir.Expr {
	t := c.resolveType(x.Type)
	size := c.checkExpr(x.Size, tctx, &types.Integer{Bits: 64, Signed: false})
	if !types.IsInt(size.ExprType()) {
		c.errAt(errors.TYP001, x.Size.Position(), "array size must be an integer, got %s", size.ExprType().String())
	}
	return hir.NewNewArray(x.Span, &types.Pointer{Elem: t}, size)
}

func (c *Checker) checkStructLit(x *ast.StructLit, tctx *types.TypeContext, expected types.Type) hir.Expr {
	t := c.resolveType(x.Type)
	named, _ := t.(*types.Named)

	if named != nil && named.Factory != nil {
		if fsym, ok := c.symbols[named.Name+"#factory"]; ok {
			args := make([]hir.Expr, len(x.Fields))
			for i, f := range x.Fields {
				var fieldExpected types.Type
				if i < len(named.Factory.Params) {
					fieldExpected = named.Factory.Params[i]
				}
				args[i] = c.checkExpr(f.Value, tctx, fieldExpected)
			}
			call := hir.NewCall(x.Span, named, hir.NewStaticGet(x.Span, fsym), args)
			return hir.NewFactoryStructLit(x.Span, named, call)
		}
	}

	st, ok := types.FullUnwrap(t).(*types.Struct)
	if !ok {
		c.errAt(errors.RES003, x.Span, "%s is not a struct type", t.String())
		return hir.NewStructLit(x.Span, t, hir.AllocStack, nil)
	}

	fields := make([]hir.StructLitField, 0, len(x.Fields))
	for _, f := range x.Fields {
		idx, ok := st.FieldIndex(f.Name)
		if !ok {
			c.errAt(errors.RES001, f.Span, "%s has no field %q", t.String(), f.Name)
			continue
		}
		v := c.checkExpr(f.Value, tctx, st.Fields[idx].Type)
		c.requireSubtype(f.Span, tctx, v.ExprType(), st.Fields[idx].Type)
		fields = append(fields, hir.StructLitField{Index: idx, Value: v})
	}
	return hir.NewStructLit(x.Span, t, hir.AllocStack, fields)
}

func (c *Checker) checkArrayLit(x *ast.ArrayLit, tctx *types.TypeContext, expected types.Type) hir.Expr {
	var elemExpected types.Type
	if arr, ok := expected.(*types.Array); ok {
		elemExpected = arr.Elem
	} else if sl, ok := expected.(*types.Slice); ok {
		elemExpected = sl.Elem
	}

	elems := make([]hir.Expr, len(x.Elems))
	var elemType types.Type
	for i, e := range x.Elems {
		ev := c.checkExpr(e, tctx, elemExpected)
		elems[i] = ev
		if i == 0 {
			elemType = ev.ExprType()
		} else if elemType != nil {
			c.unifyOperands(tctx, elemType, ev.ExprType())
		}
	}
	if elemType == nil {
		if elemExpected != nil {
			elemType = elemExpected
		} else {
			elemType = placeholderType
		}
	}
	arrType := &types.Array{Elem: elemType, Len: int64(len(elems))}
	return hir.NewArrayLit(x.Span, arrType, hir.AllocStack, elems)
}
