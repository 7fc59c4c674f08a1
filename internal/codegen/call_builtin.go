package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// LowerBuiltinCall dispatches the fixed builtin name set to their canonical
// runtime entry points.
func LowerBuiltinCall(g *G, n *ast.BuiltinCall) (string, error) {
	switch n.Name {
	case "print", "println", "printErr", "printErrLn":
		return lowerPrintFamily(g, n)
	case "len":
		return lowerLen(g, n)
	case "readLine":
		return "rt_read_line()", nil
	case "exit":
		code, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_exit(%s)", code), nil
	case "assert":
		cond, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		if len(n.Args) > 1 {
			msg, err := lowerObjectRaw(g, n.Args[1])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("rt_assert((%s), %s)", cond, msg), nil
		}
		return fmt.Sprintf("rt_assert((%s), NULL)", cond), nil
	}
	if g.Diag != nil {
		g.Diag.Unsupported("unknown builtin %q", n.Name)
	}
	return "", unsupportedf("unknown builtin %q", n.Name)
}

var printFamilyFn = map[string]string{
	"print":      "rt_print",
	"println":    "rt_println",
	"printErr":   "rt_print_err",
	"printErrLn": "rt_print_err_ln",
}

func lowerPrintFamily(g *G, n *ast.BuiltinCall) (string, error) {
	fnBase := printFamilyFn[n.Name]
	if len(n.Args) == 0 {
		return fmt.Sprintf("%s()", fnBase), nil
	}
	arg := n.Args[0]
	if p, ok := arg.ExprType().(sdtypes.Primitive); ok {
		v, err := lowerObjectRaw(g, arg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s_%s(%s)", fnBase, printSuffix(p.Kind), v), nil
	}
	frag, err := toStringFragment(g, arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_string(%s)", fnBase, frag), nil
}

func printSuffix(k sdtypes.PrimitiveKind) string {
	switch k {
	case sdtypes.KString:
		return "string"
	case sdtypes.KBool:
		return "bool"
	case sdtypes.KDouble, sdtypes.KFloat:
		return "double"
	case sdtypes.KChar:
		return "char"
	default:
		return "long"
	}
}

func lowerLen(g *G, n *ast.BuiltinCall) (string, error) {
	arg := n.Args[0]
	t := arg.ExprType()
	if isArrayType(t) {
		v, err := LowerExpr(g, arg, Handle)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_array_length(%s)", v), nil
	}
	if isStringType(t) {
		v, err := lowerObjectRaw(g, arg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_str_length(%s)", v), nil
	}
	if g.Diag != nil {
		g.Diag.Unsupported("len() on unsupported type %s", t)
	}
	return "", unsupportedf("len() on unsupported type %s", t)
}
