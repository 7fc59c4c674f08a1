package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
)

// LowerNamespaceCall lowers ns.f(...) and ns1.ns2.f(...): identical to a
// regular call once the callee name is resolved, except the fallback C name
// (when no c_alias is set) is the prefix-mangled form.
func LowerNamespaceCall(g *G, n *ast.NamespaceCall, mode Mode) (string, error) {
	t := n.Target
	if t == nil {
		return "", internalf("namespace call %s.%s missing resolved target", strings.Join(n.Prefix, "."), n.Name)
	}

	argMode := Handle
	if t.IsNative {
		argMode = Raw
	}

	calleeName := t.CAlias
	if calleeName == "" {
		calleeName = MangleNamespace(n.Prefix, n.Name)
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

	interceptName := strings.Join(n.Prefix, ".") + "." + n.Name
	if t.IsInterceptEligible() {
		call, err := emitIntercepted(g, interceptName, calleeName, prependArena, nil, t.ParamTypes, t.ParamMemQuals, t.ReturnType, argRaw, args)
		if err != nil {
			return "", err
		}
		return finishCallResult(g, t.ReturnType, t.IsNative, call, mode), nil
	}

	call := fmt.Sprintf("%s(%s)", calleeName, strings.Join(args, ", "))
	return finishCallResult(g, t.ReturnType, t.IsNative, call, mode), nil
}
