package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// LowerCall lowers a bare call: either a named function with a
// checker-resolved CallTarget, or a call through a closure-valued
// expression (Target == nil).
func LowerCall(g *G, n *ast.Call, mode Mode) (string, error) {
	if n.Target == nil {
		return lowerClosureCall(g, n, mode)
	}
	t := n.Target

	argMode := Handle
	if t.IsNative {
		argMode = Raw
	}

	calleeName := t.CAlias
	if calleeName == "" {
		calleeName = Mangle(t.Name)
	} else {
		calleeName = GuardCIdent(calleeName)
	}

	prependArena := t.HasBody || (t.IsNative && t.HasArenaParam)

	argRaw := make([]string, len(n.Args))
	args := make([]string, 0, len(n.Args)+1)
	if prependArena {
		args = append(args, g.arenaOrNull())
	}
	for i, a := range n.Args {
		raw, v, err := lowerCallArg(g, a, t, i, argMode)
		if err != nil {
			return "", err
		}
		argRaw[i] = raw
		args = append(args, v)
	}

	if t.IsInterceptEligible() {
		call, err := emitIntercepted(g, t.Name, calleeName, prependArena, nil, t.ParamTypes, t.ParamMemQuals, t.ReturnType, argRaw, args)
		if err != nil {
			return "", err
		}
		return finishCallResult(g, t.ReturnType, t.IsNative, call, mode), nil
	}

	call := fmt.Sprintf("%s(%s)", calleeName, strings.Join(args, ", "))
	return finishCallResult(g, t.ReturnType, t.IsNative, call, mode), nil
}

// lowerCallArg lowers one argument per the regular-call argument rules:
// boxing for Any-typed parameters receiving a concrete value, address-of
// for AsRef parameters, a pinned char** for a native callee's Array<String>
// parameter, otherwise plain lowering in argMode. It also returns a
// Raw-mode fragment for the same argument, used when the call turns out to
// be interceptable and needs to box it independently of the direct path.
func lowerCallArg(g *G, a ast.Expression, t *ast.CallTarget, i int, argMode Mode) (string, string, error) {
	var paramType sdtypes.Type
	if i < len(t.ParamTypes) {
		paramType = t.ParamTypes[i]
	}
	var memQual sdtypes.MemQual
	if i < len(t.ParamMemQuals) {
		memQual = t.ParamMemQuals[i]
	}

	raw, err := lowerObjectRaw(g, a)
	if err != nil {
		return "", "", err
	}

	if paramType != nil && isAnyType(paramType) && !isAnyType(a.ExprType()) {
		boxed := BoxValue(a.ExprType(), raw)
		return raw, boxed, nil
	}

	if memQual == sdtypes.MemAsRef {
		return raw, "&(" + raw + ")", nil
	}

	if argMode == Raw {
		if arr, ok := paramType.(sdtypes.Array); ok && isStringType(arr.Element) {
			return raw, fmt.Sprintf("rt_pin_string_array_v2(%s)", raw), nil
		}
		return raw, raw, nil
	}

	v, err := LowerExpr(g, a, Handle)
	if err != nil {
		return "", "", err
	}
	return raw, v, nil
}

// finishCallResult reconciles a call's return representation against the
// caller's requested mode: a source-language callee already returns its
// result in whatever representation its body assembled (handle, normally),
// so Raw pins it; a native callee returns raw, so Handle wraps it.
func finishCallResult(g *G, returnType sdtypes.Type, isNative bool, call string, mode Mode) string {
	if isNative {
		return wrapAsHandleIfNeeded(g, returnType, call, mode)
	}
	return pinIfNeeded(returnType, call, mode)
}

// lowerClosureCall lowers a call through a closure-valued expression: the
// closure's fn pointer is cast to the right signature and the closure
// itself is threaded through as the first argument.
func lowerClosureCall(g *G, n *ast.Call, mode Mode) (string, error) {
	fnType, ok := n.Callee.ExprType().(sdtypes.Function)
	if !ok {
		return "", unsupportedf("call through non-function-typed expression %T", n.Callee.ExprType())
	}
	closure, err := lowerObjectRaw(g, n.Callee)
	if err != nil {
		return "", err
	}

	paramCTypes := make([]string, 0, len(fnType.Params)+2)
	paramCTypes = append(paramCTypes, "RtArenaV2 *", "void *")
	args := make([]string, 0, len(n.Args)+2)
	args = append(args, g.arenaOrNull(), fmt.Sprintf("(void *)(%s)", closure))
	for i, a := range n.Args {
		var pt sdtypes.Type
		if i < len(fnType.Params) {
			pt = fnType.Params[i]
		}
		paramCTypes = append(paramCTypes, CType(pt))
		v, err := LowerExpr(g, a, Handle)
		if err != nil {
			return "", err
		}
		args = append(args, v)
	}

	fnPtrType := fmt.Sprintf("%s (*)(%s)", CType(fnType.Return), strings.Join(paramCTypes, ", "))
	call := fmt.Sprintf("((%s)(((__Closure__ *)(%s))->fn))(%s)", fnPtrType, closure, strings.Join(args, ", "))
	return finishCallResult(g, fnType.Return, false, call, mode), nil
}
