package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// LowerStaticCall lowers Type.method(args): the built-in Interceptor
// control surface, or a user-defined static struct method.
func LowerStaticCall(g *G, n *ast.StaticCall, mode Mode) (string, error) {
	if n.TypeName == "Interceptor" {
		return lowerInterceptorControl(g, n)
	}
	if n.ResolvedMethod == nil || n.ResolvedStruct == nil {
		return "", internalf("static call %s.%s missing resolution", n.TypeName, n.Method)
	}
	st := *n.ResolvedStruct
	m := *n.ResolvedMethod

	calleeName := m.CAlias
	if calleeName == "" {
		calleeName = MangleMethod(Mangle(st.Name), m.Name)
	} else {
		calleeName = GuardCIdent(calleeName)
	}

	args := make([]string, 0, len(n.Args)+1)
	argRaw := make([]string, len(n.Args))
	if m.HasArenaParam {
		args = append(args, g.arenaOrNull())
	}
	for i, a := range n.Args {
		var pt sdtypes.Type
		if i < len(m.Params) {
			pt = m.Params[i]
		}
		var mq sdtypes.MemQual
		if i < len(m.ParamMemQuals) {
			mq = m.ParamMemQuals[i]
		}
		raw, err := lowerObjectRaw(g, a)
		if err != nil {
			return "", err
		}
		argRaw[i] = raw
		v := raw
		switch {
		case pt != nil && isAnyType(pt) && !isAnyType(a.ExprType()):
			v = BoxValue(a.ExprType(), raw)
		case mq == sdtypes.MemAsRef:
			v = "&(" + raw + ")"
		case m.HasBody:
			hv, err := LowerExpr(g, a, Handle)
			if err != nil {
				return "", err
			}
			v = hv
		}
		args = append(args, v)
	}

	eligible := !m.IsNative && !st.IsNative && m.HasBody && !isPointerOrStructType(m.Return)
	for _, p := range m.Params {
		if isPointerOrStructType(p) {
			eligible = false
		}
	}

	if eligible {
		call, err := emitIntercepted(g, st.Name+"."+m.Name, calleeName, m.HasArenaParam, nil, m.Params, m.ParamMemQuals, m.Return, argRaw, args)
		if err != nil {
			return "", err
		}
		return finishCallResult(g, m.Return, false, call, mode), nil
	}

	call := fmt.Sprintf("%s(%s)", calleeName, strings.Join(args, ", "))
	return finishCallResult(g, m.Return, m.IsNative, call, mode), nil
}

func lowerInterceptorControl(g *G, n *ast.StaticCall) (string, error) {
	arg := func(i int) (string, error) { return lowerObjectRaw(g, n.Args[i]) }
	switch n.Method {
	case "register":
		name, err := arg(0)
		if err != nil {
			return "", err
		}
		cb, err := arg(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_interceptor_register(%s, %s)", name, cb), nil
	case "registerWhere":
		name, err := arg(0)
		if err != nil {
			return "", err
		}
		pred, err := arg(1)
		if err != nil {
			return "", err
		}
		cb, err := arg(2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_interceptor_register_where(%s, %s, %s)", name, pred, cb), nil
	case "clearAll":
		return "rt_interceptor_clear_all()", nil
	case "isActive":
		name, err := arg(0)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_interceptor_is_active(%s)", name), nil
	case "count":
		return "rt_interceptor_count()", nil
	}
	if g.Diag != nil {
		g.Diag.Unsupported("unknown Interceptor control method %q", n.Method)
	}
	return "", unsupportedf("unknown Interceptor control method %q", n.Method)
}
