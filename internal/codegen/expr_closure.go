package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

func isVoidType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KVoid
}

// lowerLambda synthesizes a static function for a lambda body and returns
// a __Closure__ construction expression wrapping it
// "Closures"). Lambda bodies in this core are a flat list of expression
// statements; the last one's value is the lambda's result unless the
// lambda returns void.
func lowerLambda(g *G, n *ast.Lambda) (string, error) {
	id := g.NextWrapperID()
	name := fmt.Sprintf("__lambda_%d__", id)

	params := []string{"RtArenaV2 *__arena__", "void *__closure_self__"}
	for _, p := range n.Params {
		params = append(params, fmt.Sprintf("%s %s", CType(p.Type), Mangle(p.Name)))
	}
	sig := fmt.Sprintf("static %s %s(%s)", CType(n.ReturnType), name, strings.Join(params, ", "))
	g.LambdaForwardDecls.WriteString(sig + ";\n")

	var body strings.Builder
	for i, stmt := range n.Body {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			return "", unsupportedf("lambda body statement kind %T not supported", stmt)
		}
		v, err := LowerExpr(g, es.Expr, Handle)
		if err != nil {
			return "", err
		}
		if i == len(n.Body)-1 && !isVoidType(n.ReturnType) {
			fmt.Fprintf(&body, "  return %s;\n", v)
		} else {
			fmt.Fprintf(&body, "  (void)(%s);\n", v)
		}
	}
	g.LambdaDefinitions.WriteString(sig + " {\n" + body.String() + "}\n")

	return fmt.Sprintf("rt_closure_create((void *)%s, %s)", name, g.arenaOrNull()), nil
}

// lowerNamedFuncValue wraps a reference to a named top-level function in a
// synthesized adapter closure: the wrapper drops the closure-self pointer
// every __Closure__ call site passes and forwards to the real function
// (the generated adapter is what the glossary calls a "Wrapper").
func lowerNamedFuncValue(g *G, n *ast.NamedFuncValue) (string, error) {
	t := n.Target
	id := g.NextWrapperID()
	name := fmt.Sprintf("__fnadapter_%d__", id)

	params := []string{"RtArenaV2 *__arena__", "void *__closure_self__"}
	var callArgs []string
	if t.HasArenaParam || t.HasBody {
		callArgs = append(callArgs, "__arena__")
	}
	for i, pt := range t.ParamTypes {
		pname := fmt.Sprintf("a%d", i)
		params = append(params, fmt.Sprintf("%s %s", CType(pt), pname))
		callArgs = append(callArgs, pname)
	}
	sig := fmt.Sprintf("static %s %s(%s)", CType(t.ReturnType), name, strings.Join(params, ", "))
	g.LambdaForwardDecls.WriteString(sig + ";\n")

	callee := t.CAlias
	if callee == "" {
		callee = Mangle(t.Name)
	} else {
		callee = GuardCIdent(callee)
	}
	call := fmt.Sprintf("%s(%s)", callee, strings.Join(callArgs, ", "))
	var stmt string
	if isVoidType(t.ReturnType) {
		stmt = fmt.Sprintf("  %s;\n", call)
	} else {
		stmt = fmt.Sprintf("  return %s;\n", call)
	}
	g.LambdaDefinitions.WriteString(sig + " {\n" + stmt + "}\n")

	return fmt.Sprintf("rt_closure_create((void *)%s, %s)", name, g.arenaOrNull()), nil
}
