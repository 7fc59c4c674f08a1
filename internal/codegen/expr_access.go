package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// lowerMemberAccess lowers member access (a.f) for typed
// objects (the namespace-variable case is its own AST node,
// NamespaceVarRef, resolved ahead of time by the checker).
func lowerMemberAccess(g *G, n *ast.MemberAccess, mode Mode) (string, error) {
	objType := n.Object.ExprType()

	if isArrayType(objType) && n.Field == "length" {
		obj, err := LowerExpr(g, n.Object, Handle)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_array_length(%s)", obj), nil
	}
	if isStringType(objType) && n.Field == "length" {
		obj, err := lowerObjectRaw(g, n.Object)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_str_length(%s)", obj), nil
	}

	switch t := objType.(type) {
	case sdtypes.Struct:
		obj, err := LowerExpr(g, n.Object, Raw)
		if err != nil {
			return "", err
		}
		fieldC := n.FieldCAlias
		if fieldC == "" {
			fieldC = Mangle(n.Field)
		} else {
			fieldC = GuardCIdent(fieldC)
		}
		access := fmt.Sprintf("(%s).%s", obj, fieldC)
		return pinFieldIfNeeded(t, n.Field, access, mode), nil
	case sdtypes.Pointer:
		if st, ok := t.Base.(sdtypes.Struct); ok {
			obj, err := LowerExpr(g, n.Object, Raw)
			if err != nil {
				return "", err
			}
			fieldC := n.FieldCAlias
			if fieldC == "" {
				fieldC = Mangle(n.Field)
			} else {
				fieldC = GuardCIdent(fieldC)
			}
			access := fmt.Sprintf("(%s)->%s", obj, fieldC)
			return pinFieldIfNeeded(st, n.Field, access, mode), nil
		}
	}

	if g.Diag != nil {
		g.Diag.UnresolvedMarker(fmt.Sprintf("member access %s.%s", objType, n.Field))
	}
	return unresolvedFragment(fmt.Sprintf("%s.%s", objType, n.Field), "NULL"), nil
}

func pinFieldIfNeeded(st sdtypes.Struct, fieldName, access string, mode Mode) string {
	f, ok := st.FieldByName(fieldName)
	if !ok {
		return access
	}
	return pinIfNeeded(f.Type, access, mode)
}

func lowerObjectRaw(g *G, e ast.Expression) (string, error) {
	restore := g.SaveMode(Raw)
	defer restore()
	return LowerExpr(g, e, Raw)
}

// lowerIndexAccess lowers arr[i]: pin the array handle to a raw element
// pointer, then index as plain C.
func lowerIndexAccess(g *G, n *ast.IndexAccess, mode Mode) (string, error) {
	arrType, ok := n.Object.ExprType().(sdtypes.Array)
	if !ok {
		if g.Diag != nil {
			g.Diag.Unsupported("index access on non-array type %s", n.Object.ExprType())
		}
		return "", unsupportedf("index access on non-array type %s", n.Object.ExprType())
	}
	obj, err := lowerObjectRaw(g, n.Object)
	if err != nil {
		return "", err
	}
	idx, err := lowerObjectRaw(g, n.Index)
	if err != nil {
		return "", err
	}
	elemType := CArrayElemType(arrType.Element)
	access := fmt.Sprintf("(((%s *)%s)[%s])", elemType, obj, idx)
	return pinIfNeeded(arrType.Element, access, mode), nil
}
