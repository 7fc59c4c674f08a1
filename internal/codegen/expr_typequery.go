package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// lowerSizeof lowers sizeof(T) and sizeof(expr) to a C sizeof cast to long
// long.
func lowerSizeof(g *G, n *ast.SizeofExpr) (string, error) {
	t := n.Operand.Type
	if t == nil && n.Operand.Expr != nil {
		t = n.Operand.Expr.ExprType()
	}
	if t == nil {
		return "", internalf("sizeof with neither type nor expression operand")
	}
	return fmt.Sprintf("(long long)sizeof(%s)", CType(t)), nil
}

// lowerTypeof lowers typeof(T) to the compile-time RT_ANY_* constant, and
// typeof(e) to a dynamic tag read when e: Any, or the same constant
// otherwise.
func lowerTypeof(g *G, n *ast.TypeofExpr) (string, error) {
	if n.Operand.Type != nil {
		return AnyTagConstant(n.Operand.Type), nil
	}
	e := n.Operand.Expr
	if isAnyType(e.ExprType()) {
		v, err := lowerObjectRaw(g, e)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_any_get_tag(%s)", v), nil
	}
	return AnyTagConstant(e.ExprType()), nil
}

func isAnyType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KAny
}

// lowerIs lowers `e is T`: array types check both the array
// tag and the element tag, structs go through rt_any_is_struct_type,
// everything else is a straight tag comparison.
func lowerIs(g *G, n *ast.IsExpr) (string, error) {
	v, err := lowerObjectRaw(g, n.Operand)
	if err != nil {
		return "", err
	}
	switch t := n.Target.(type) {
	case sdtypes.Array:
		return fmt.Sprintf("(rt_any_get_tag(%s) == RT_ANY_ARRAY && rt_any_get_elem_tag(%s) == %s)",
			v, v, ElementTypeTag(t.Element)), nil
	case sdtypes.Struct:
		return fmt.Sprintf("rt_any_is_struct_type(%s, %dU)", v, StructTypeID(t.Name)), nil
	default:
		return fmt.Sprintf("(%s.tag == %s)", v, AnyTagConstant(n.Target)), nil
	}
}

// lowerAs lowers `e as T`.
func lowerAs(g *G, n *ast.AsExpr) (string, error) {
	v, err := lowerObjectRaw(g, n.Operand)
	if err != nil {
		return "", err
	}
	if arr, ok := n.Target.(sdtypes.Array); ok {
		if srcArr, ok := n.Operand.ExprType().(sdtypes.Array); ok && isAnyType(srcArr.Element) {
			return fmt.Sprintf("rt_array_from_any_%s(%s)", TypeSuffix(arr.Element), v), nil
		}
	}
	if isNumericType(n.Target) {
		return fmt.Sprintf("((%s)(%s))", CType(n.Target), v), nil
	}
	return UnboxValue(n.Target, v), nil
}

func isNumericType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	if !ok {
		return false
	}
	switch p.Kind {
	case sdtypes.KInt, sdtypes.KLong, sdtypes.KInt32, sdtypes.KUInt, sdtypes.KUInt32,
		sdtypes.KFloat, sdtypes.KDouble, sdtypes.KChar, sdtypes.KByte:
		return true
	}
	return false
}
