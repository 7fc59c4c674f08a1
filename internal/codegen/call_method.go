package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// LowerMethodCall dispatches obj.method(args) on the object's static type:
// builtin array/string/char methods, or a resolved struct method (value or
// pointer receiver).
func LowerMethodCall(g *G, n *ast.MethodCall, mode Mode) (string, error) {
	switch t := n.ObjectType.(type) {
	case sdtypes.Array:
		return lowerArrayMethod(g, n, t, mode)
	case sdtypes.Primitive:
		switch t.Kind {
		case sdtypes.KString:
			return lowerStringMethod(g, n, mode)
		case sdtypes.KChar:
			return lowerCharMethod(g, n, mode)
		}
	case sdtypes.Struct:
		return lowerStructMethod(g, n, t, false, mode)
	case sdtypes.Pointer:
		if st, ok := t.Base.(sdtypes.Struct); ok {
			return lowerStructMethod(g, n, st, true, mode)
		}
	}
	if g.Diag != nil {
		g.Diag.Unsupported("method call %s.%s on unsupported type %s", "", n.Method, n.ObjectType)
	}
	return "", unsupportedf("method call .%s on unsupported object type %s", n.Method, n.ObjectType)
}

func isByteType(t sdtypes.Type) bool {
	p, ok := t.(sdtypes.Primitive)
	return ok && p.Kind == sdtypes.KByte
}

func isPointerOrStructType(t sdtypes.Type) bool {
	switch t.(type) {
	case sdtypes.Pointer, sdtypes.Struct:
		return true
	}
	return false
}

func isSimpleLValue(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberAccess, *ast.IndexAccess:
		return true
	}
	return false
}

// rebindIfVariable implements the "mutating array/string method rebinds its
// receiver variable" convention: when the receiver is
// a bare variable, the method's result is assigned back into it; otherwise
// the new handle is simply yielded.
func rebindIfVariable(g *G, obj ast.Expression, t sdtypes.Type, call string, mode Mode) (string, error) {
	if id, ok := obj.(*ast.Identifier); ok {
		if sym, ok2 := g.Syms.Lookup(id.Name); ok2 {
			call = fmt.Sprintf("(%s = %s)", Mangle(sym.Name), call)
		}
	}
	return pinIfNeeded(t, call, mode), nil
}

// ---- array methods ----

var byteArrayStringMethods = map[string]string{
	"toString":       "rt_byte_array_to_string",
	"toStringLatin1": "rt_byte_array_to_string_latin1",
	"toHex":          "rt_byte_array_to_hex",
	"toBase64":       "rt_byte_array_to_base64",
}

func lowerArrayMethod(g *G, n *ast.MethodCall, arrType sdtypes.Array, mode Mode) (string, error) {
	obj, err := LowerExpr(g, n.Object, Handle)
	if err != nil {
		return "", err
	}
	arena := g.arenaOrNull()
	suffix := TypeSuffix(arrType.Element)

	if fn, ok := byteArrayStringMethods[n.Method]; ok {
		if !isByteType(arrType.Element) {
			return "", unsupportedf("method %q is only defined on Byte[]", n.Method)
		}
		call := fmt.Sprintf("%s(%s, %s)", fn, arena, obj)
		return pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KString}, call, mode), nil
	}

	switch n.Method {
	case "push":
		v, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		call := fmt.Sprintf("rt_array_push_%s(%s, %s, %s)", suffix, arena, obj, v)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "pop":
		call := fmt.Sprintf("rt_array_pop_%s(%s, %s)", suffix, arena, obj)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "clear":
		call := fmt.Sprintf("rt_array_alloc_%s_v2(%s, 0)", suffix, arena)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "reverse":
		call := fmt.Sprintf("rt_array_rev_%s(%s, %s)", suffix, arena, obj)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "insert":
		idx, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		v, err := lowerObjectRaw(g, n.Args[1])
		if err != nil {
			return "", err
		}
		call := fmt.Sprintf("rt_array_ins_%s(%s, %s, %s, %s)", suffix, arena, obj, idx, v)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "remove":
		idx, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		call := fmt.Sprintf("rt_array_rem_%s(%s, %s, %s)", suffix, arena, obj, idx)
		return rebindIfVariable(g, n.Object, arrType, call, mode)
	case "concat":
		other, err := LowerExpr(g, n.Args[0], Handle)
		if err != nil {
			return "", err
		}
		call := fmt.Sprintf("rt_array_concat_%s(%s, %s, %s)", suffix, arena, obj, other)
		return pinIfNeeded(arrType, call, mode), nil
	case "clone":
		call := fmt.Sprintf("rt_array_clone_%s(%s, %s)", suffix, arena, obj)
		return pinIfNeeded(arrType, call, mode), nil
	case "indexOf":
		v, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_array_indexOf_%s(%s, %s)", suffix, obj, v), nil
	case "contains":
		v, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rt_array_contains_%s(%s, %s)", suffix, obj, v), nil
	case "join":
		sep, err := lowerObjectRaw(g, n.Args[0])
		if err != nil {
			return "", err
		}
		call := fmt.Sprintf("rt_array_join_%s(%s, %s, %s)", suffix, arena, obj, sep)
		return pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KString}, call, mode), nil
	}

	if g.Diag != nil {
		g.Diag.Unsupported("unknown array method %q", n.Method)
	}
	return "", unsupportedf("unknown array method %q", n.Method)
}

// ---- string methods ----

func lowerStringMethod(g *G, n *ast.MethodCall, mode Mode) (string, error) {
	obj, err := lowerObjectRaw(g, n.Object)
	if err != nil {
		return "", err
	}
	arena := g.arenaOrNull()
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := lowerObjectRaw(g, a)
		if err != nil {
			return "", err
		}
		args[i] = v
	}
	strResult := func(call string) (string, error) {
		return pinIfNeeded(sdtypes.Primitive{Kind: sdtypes.KString}, call, mode), nil
	}

	switch n.Method {
	case "substring":
		end := "-1LL"
		if len(args) > 1 {
			end = args[1]
		}
		return strResult(fmt.Sprintf("rt_str_substring_v2(%s, %s, %s, %s)", arena, obj, args[0], end))
	case "trim":
		return strResult(fmt.Sprintf("rt_str_trim_v2(%s, %s)", arena, obj))
	case "toUpper":
		return strResult(fmt.Sprintf("rt_str_toUpper_v2(%s, %s)", arena, obj))
	case "toLower":
		return strResult(fmt.Sprintf("rt_str_toLower_v2(%s, %s)", arena, obj))
	case "replace":
		return strResult(fmt.Sprintf("rt_str_replace_v2(%s, %s, %s, %s)", arena, obj, args[0], args[1]))
	case "split":
		if len(args) == 0 {
			return fmt.Sprintf("rt_str_split_whitespace(%s, %s)", arena, obj), nil
		}
		return fmt.Sprintf("rt_str_split_v2(%s, %s, %s)", arena, obj, args[0]), nil
	case "splitN":
		return fmt.Sprintf("rt_str_split_n(%s, %s, %s, %s)", arena, obj, args[0], args[1]), nil
	case "splitLines":
		return fmt.Sprintf("rt_str_split_lines(%s, %s)", arena, obj), nil
	case "indexOf":
		return fmt.Sprintf("rt_str_indexOf(%s, %s)", obj, args[0]), nil
	case "startsWith":
		return fmt.Sprintf("rt_str_startsWith(%s, %s)", obj, args[0]), nil
	case "endsWith":
		return fmt.Sprintf("rt_str_endsWith(%s, %s)", obj, args[0]), nil
	case "contains":
		return fmt.Sprintf("rt_str_contains(%s, %s)", obj, args[0]), nil
	case "charAt":
		return fmt.Sprintf("rt_str_charAt(%s, %s)", obj, args[0]), nil
	case "regionEquals":
		return fmt.Sprintf("rt_str_region_equals(%s, %s, %s, %s, %s)", obj, args[0], args[1], args[2], args[3]), nil
	case "isBlank":
		return fmt.Sprintf("rt_str_is_blank(%s)", obj), nil
	case "toInt":
		return fmt.Sprintf("rt_str_to_int(%s)", obj), nil
	case "toLong":
		return fmt.Sprintf("rt_str_to_long(%s)", obj), nil
	case "toDouble":
		return fmt.Sprintf("rt_str_to_double(%s)", obj), nil
	case "append":
		call := fmt.Sprintf("rt_str_append_v2(%s, %s, %s)", arena, obj, args[0])
		return rebindIfVariable(g, n.Object, sdtypes.Primitive{Kind: sdtypes.KString}, call, mode)
	case "toBytes":
		byteArr := sdtypes.Array{Element: sdtypes.Primitive{Kind: sdtypes.KByte}}
		call := fmt.Sprintf("rt_string_to_bytes(%s, %s)", arena, obj)
		return pinIfNeeded(byteArr, call, mode), nil
	}

	if g.Diag != nil {
		g.Diag.Unsupported("unknown string method %q", n.Method)
	}
	return "", unsupportedf("unknown string method %q", n.Method)
}

// ---- char methods ----

func lowerCharMethod(g *G, n *ast.MethodCall, mode Mode) (string, error) {
	obj, err := lowerObjectRaw(g, n.Object)
	if err != nil {
		return "", err
	}
	switch n.Method {
	case "toString":
		call := fmt.Sprintf("rt_to_string_char(%s)", obj)
		return wrapAsHandleIfNeeded(g, sdtypes.Primitive{Kind: sdtypes.KString}, call, mode), nil
	case "toUpper":
		return fmt.Sprintf("rt_char_toUpper(%s)", obj), nil
	case "toLower":
		return fmt.Sprintf("rt_char_toLower(%s)", obj), nil
	case "toInt":
		return fmt.Sprintf("((long long)(%s))", obj), nil
	case "isDigit":
		return fmt.Sprintf("rt_char_isDigit(%s)", obj), nil
	case "isAlpha":
		return fmt.Sprintf("rt_char_isAlpha(%s)", obj), nil
	case "isWhitespace":
		return fmt.Sprintf("rt_char_isWhitespace(%s)", obj), nil
	case "isAlnum":
		return fmt.Sprintf("rt_char_isAlnum(%s)", obj), nil
	}
	if g.Diag != nil {
		g.Diag.Unsupported("unknown char method %q", n.Method)
	}
	return "", unsupportedf("unknown char method %q", n.Method)
}

// ---- struct methods ----

func lowerStructMethod(g *G, n *ast.MethodCall, st sdtypes.Struct, throughPointer bool, mode Mode) (string, error) {
	if n.ResolvedMethod == nil {
		return "", internalf("method call %s.%s missing resolved method", st.Name, n.Method)
	}
	m := *n.ResolvedMethod

	selfRaw, err := LowerExpr(g, n.Object, Raw)
	if err != nil {
		return "", err
	}

	var spillPrefix, spillSuffix string
	if !m.IsStatic && !throughPointer && !isSimpleLValue(n.Object) {
		tmp := g.NextTemp()
		spillPrefix = fmt.Sprintf("({ %s %s = %s; ", CType(st), tmp, selfRaw)
		spillSuffix = "; })"
		selfRaw = tmp
	}

	calleeName := m.CAlias
	if calleeName == "" {
		calleeName = MangleMethod(Mangle(st.Name), m.Name)
	} else {
		calleeName = GuardCIdent(calleeName)
	}

	args := make([]string, 0, len(n.Args)+2)
	argRaw := make([]string, len(n.Args))
	if m.HasArenaParam {
		args = append(args, g.arenaOrNull())
	}
	if !m.IsStatic {
		selfArg := selfRaw
		if !throughPointer && st.PassSelfByRef {
			selfArg = "&(" + selfRaw + ")"
		}
		args = append(args, selfArg)
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

	var result string
	if eligible {
		self := &interceptSelf{StructType: st, Raw: selfRaw, ThroughPointer: throughPointer}
		call, err := emitIntercepted(g, st.Name+"."+m.Name, calleeName, m.HasArenaParam, self, m.Params, m.ParamMemQuals, m.Return, argRaw, args)
		if err != nil {
			return "", err
		}
		result = finishCallResult(g, m.Return, false, call, mode)
	} else {
		result = finishCallResult(g, m.Return, m.IsNative, fmt.Sprintf("%s(%s)", calleeName, strings.Join(args, ", ")), mode)
	}

	return spillPrefix + result + spillSuffix, nil
}
