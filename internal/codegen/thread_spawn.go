package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// resolveMethodStruct extracts the struct (and whether it is reached
// through a pointer) a method-call-shaped thread spawn target dispatches
// through.
func resolveMethodStruct(t sdtypes.Type) (sdtypes.Struct, bool, bool) {
	switch v := t.(type) {
	case sdtypes.Struct:
		return v, false, true
	case sdtypes.Pointer:
		if st, ok := v.Base.(sdtypes.Struct); ok {
			return st, true, true
		}
	}
	return sdtypes.Struct{}, false, false
}

// LowerThreadSpawn lowers &fn(args)/&obj.method(args): it synthesizes a
// per-call args struct, a wrapper function the runtime's thread pool
// invokes, and (when eligible) an interception thunk, then emits the
// statement expression that allocates the args, fills them, and spawns.
func LowerThreadSpawn(g *G, n *ast.ThreadSpawn) (string, error) {
	id := g.NextThreadWrapperID()
	argsStructName := fmt.Sprintf("__ThreadArgs_%d__", id)
	wrapperName := fmt.Sprintf("__thread_wrapper_%d__", id)

	var (
		calleeName         string
		hasArenaParam      bool
		paramTypes         []sdtypes.Type
		paramMemQuals      []sdtypes.MemQual
		returnType         sdtypes.Type
		interceptName      string
		eligible           bool
		argExprs           []ast.Expression
		selfStruct         *sdtypes.Struct
		selfThroughPointer bool
		selfRaw            string
	)

	switch c := n.Call.(type) {
	case *ast.Call:
		t := c.Target
		if t == nil {
			return "", unsupportedf("thread spawn of a closure-valued call is not supported")
		}
		calleeName = t.CAlias
		if calleeName == "" {
			calleeName = Mangle(t.Name)
		} else {
			calleeName = GuardCIdent(calleeName)
		}
		hasArenaParam = t.HasBody || (t.IsNative && t.HasArenaParam)
		paramTypes, paramMemQuals, returnType = t.ParamTypes, t.ParamMemQuals, t.ReturnType
		interceptName = t.Name
		eligible = t.IsInterceptEligible()
		argExprs = c.Args
	case *ast.MethodCall:
		st, throughPointer, ok := resolveMethodStruct(c.ObjectType)
		if !ok || c.ResolvedMethod == nil {
			return "", unsupportedf("thread spawn of a builtin method call is not supported")
		}
		m := *c.ResolvedMethod
		calleeName = m.CAlias
		if calleeName == "" {
			calleeName = MangleMethod(Mangle(st.Name), m.Name)
		} else {
			calleeName = GuardCIdent(calleeName)
		}
		hasArenaParam = m.HasArenaParam
		paramTypes, paramMemQuals, returnType = m.Params, m.ParamMemQuals, m.Return
		interceptName = st.Name + "." + m.Name
		eligible = !m.IsNative && !st.IsNative && m.HasBody && !isPointerOrStructType(m.Return)
		for _, p := range m.Params {
			if isPointerOrStructType(p) {
				eligible = false
			}
		}
		argExprs = c.Args
		selfStruct = &st
		selfThroughPointer = throughPointer
		raw, err := LowerExpr(g, c.Object, Raw)
		if err != nil {
			return "", err
		}
		selfRaw = raw
	case *ast.NamespaceCall:
		t := c.Target
		if t == nil {
			return "", internalf("namespace call missing resolved target in thread spawn")
		}
		calleeName = t.CAlias
		if calleeName == "" {
			calleeName = MangleNamespace(c.Prefix, c.Name)
		} else {
			calleeName = GuardCIdent(calleeName)
		}
		hasArenaParam = t.HasBody || (t.IsNative && t.HasArenaParam)
		paramTypes, paramMemQuals, returnType = t.ParamTypes, t.ParamMemQuals, t.ReturnType
		interceptName = strings.Join(c.Prefix, ".") + "." + c.Name
		eligible = t.IsInterceptEligible()
		argExprs = c.Args
	default:
		return "", unsupportedf("thread spawn of unsupported call shape %T", n.Call)
	}

	// ---- args struct: RtThreadArgs-shaped header, then self, then args ----
	var structDef strings.Builder
	fmt.Fprintf(&structDef, "typedef struct %s {\n", argsStructName)
	structDef.WriteString("  void *func_ptr;\n  void *args_data;\n  size_t args_size;\n  RtThreadResult *result;\n  RtArenaV2 *caller_arena;\n  RtArenaV2 *thread_arena;\n  int is_shared;\n  int is_private;\n")
	if selfStruct != nil {
		selfCType := CType(*selfStruct)
		if selfThroughPointer {
			selfCType += " *"
		}
		fmt.Fprintf(&structDef, "  %s self;\n", selfCType)
	}
	for i, pt := range paramTypes {
		cType := CType(pt)
		if i < len(paramMemQuals) && paramMemQuals[i] == sdtypes.MemAsRef {
			cType += " *"
		}
		fmt.Fprintf(&structDef, "  %s arg%d;\n", cType, i)
	}
	fmt.Fprintf(&structDef, "} %s;\n", argsStructName)
	g.LambdaForwardDecls.WriteString(structDef.String())

	voidCall := isVoidType(returnType)

	var callArgs []string
	if hasArenaParam {
		callArgs = append(callArgs, "__arena__")
	}
	if selfStruct != nil {
		switch {
		case selfThroughPointer:
			callArgs = append(callArgs, "args->self")
		case selfStruct.PassSelfByRef:
			callArgs = append(callArgs, "&args->self")
		default:
			callArgs = append(callArgs, "args->self")
		}
	}
	for i := range paramTypes {
		callArgs = append(callArgs, fmt.Sprintf("args->arg%d", i))
	}
	directCall := fmt.Sprintf("%s(%s)", calleeName, strings.Join(callArgs, ", "))

	// ---- wrapper ----
	var wrapper strings.Builder
	fmt.Fprintf(&wrapper, "static void *%s(void *raw) {\n", wrapperName)
	fmt.Fprintf(&wrapper, "  %s *args = (%s *)raw;\n", argsStructName, argsStructName)
	wrapper.WriteString("  RtArenaV2 *__arena__ = args->thread_arena;\n")
	wrapper.WriteString("  rt_set_thread_arena(__arena__);\n")
	wrapper.WriteString("  RtThreadPanicContext __panic_ctx__;\n")
	wrapper.WriteString("  rt_thread_panic_context_init(&__panic_ctx__);\n")

	if n.Modifier != sdtypes.FuncShared {
		for i, pt := range paramTypes {
			if sdtypes.IsHandleType(pt) {
				fmt.Fprintf(&wrapper, "  args->arg%d = rt_managed_clone(__arena__, args->caller_arena, args->arg%d);\n", i, i)
			}
		}
	}

	if eligible {
		thunkName := fmt.Sprintf("__thunk_%d", g.NextThunkID())
		fmt.Fprintf(&g.ThunkForwardDecls, "static RtAny %s(void);\n", thunkName)
		var self *interceptSelf
		if selfStruct != nil {
			self = &interceptSelf{StructType: *selfStruct, Raw: "args->self", ThroughPointer: selfThroughPointer}
		}
		g.ThunkDefinitions.WriteString(buildThunkDefinition(thunkName, calleeName, hasArenaParam, self, paramTypes, paramMemQuals, returnType))

		argRaw := make([]string, len(paramTypes))
		for i := range paramTypes {
			argRaw[i] = fmt.Sprintf("args->arg%d", i)
		}
		base := 0
		argCount := len(paramTypes)
		if selfStruct != nil {
			base = 1
			argCount++
		}

		wrapper.WriteString("  if (__rt_interceptor_count > 0) {\n")
		fmt.Fprintf(&wrapper, "    RtAny __targs__[%d];\n", argCount)
		if selfStruct != nil {
			fmt.Fprintf(&wrapper, "    __targs__[0] = rt_box_struct(__arena__, &(args->self), sizeof(%s), %dU);\n",
				CType(*selfStruct), StructTypeID(selfStruct.Name))
		}
		for i, pt := range paramTypes {
			fmt.Fprintf(&wrapper, "    __targs__[%d] = %s;\n", base+i, BoxValue(pt, argRaw[i]))
		}
		wrapper.WriteString("    __rt_thunk_args = __targs__;\n")
		wrapper.WriteString("    __rt_thunk_arena = __arena__;\n")
		callExpr := fmt.Sprintf("rt_call_intercepted(\"%s\", __targs__, %d, %s)", interceptName, argCount, thunkName)
		if voidCall {
			fmt.Fprintf(&wrapper, "    (void)(%s);\n", callExpr)
		} else {
			fmt.Fprintf(&wrapper, "    %s __result__ = %s;\n", CType(returnType), UnboxValue(returnType, callExpr))
		}
		wrapper.WriteString("  } else {\n")
		if voidCall {
			fmt.Fprintf(&wrapper, "    %s;\n", directCall)
		} else {
			fmt.Fprintf(&wrapper, "    %s __result__ = %s;\n", CType(returnType), directCall)
		}
		wrapper.WriteString("  }\n")
	} else {
		if voidCall {
			fmt.Fprintf(&wrapper, "  %s;\n", directCall)
		} else {
			fmt.Fprintf(&wrapper, "  %s __result__ = %s;\n", CType(returnType), directCall)
		}
	}

	if !voidCall {
		fmt.Fprintf(&wrapper, "  rt_thread_result_set_value(args->result, __arena__, %s);\n", BoxValue(returnType, "__result__"))
	}
	wrapper.WriteString("  rt_thread_panic_context_clear(&__panic_ctx__);\n")
	wrapper.WriteString("  rt_set_thread_arena(NULL);\n")
	wrapper.WriteString("  return NULL;\n")
	wrapper.WriteString("}\n")
	fmt.Fprintf(&g.LambdaForwardDecls, "static void *%s(void *raw);\n", wrapperName)
	g.LambdaDefinitions.WriteString(wrapper.String())

	// ---- call site ----
	callerArena := g.arenaOrNull()
	var site strings.Builder
	site.WriteString("({\n")
	fmt.Fprintf(&site, "  %s *__targs__ = (%s *)rt_arena_v2_alloc(%s, sizeof(%s));\n", argsStructName, argsStructName, callerArena, argsStructName)
	fmt.Fprintf(&site, "  __targs__->func_ptr = (void *)%s;\n", wrapperName)
	site.WriteString("  __targs__->args_data = (void *)__targs__;\n")
	fmt.Fprintf(&site, "  __targs__->args_size = sizeof(%s);\n", argsStructName)
	fmt.Fprintf(&site, "  __targs__->caller_arena = %s;\n", callerArena)
	site.WriteString("  __targs__->thread_arena = NULL;\n")
	fmt.Fprintf(&site, "  __targs__->result = rt_thread_result_create(%s);\n", callerArena)
	isShared, isPrivate := 0, 0
	switch n.Modifier {
	case sdtypes.FuncShared:
		isShared = 1
	case sdtypes.FuncPrivate:
		isPrivate = 1
	}
	fmt.Fprintf(&site, "  __targs__->is_shared = %d;\n", isShared)
	fmt.Fprintf(&site, "  __targs__->is_private = %d;\n", isPrivate)

	if selfStruct != nil {
		fmt.Fprintf(&site, "  __targs__->self = %s;\n", selfRaw)
	}
	for i, a := range argExprs {
		var pt sdtypes.Type
		if i < len(paramTypes) {
			pt = paramTypes[i]
		}
		var v string
		var err error
		if pt != nil && sdtypes.IsHandleType(pt) {
			v, err = LowerExpr(g, a, Handle)
		} else {
			v, err = lowerObjectRaw(g, a)
		}
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&site, "  __targs__->arg%d = %s;\n", i, v)
	}
	fmt.Fprintf(&site, "  RtThread *__th__ = rt_thread_spawn(%s, %s, __targs__);\n", callerArena, wrapperName)
	fmt.Fprintf(&site, "  __th__->result_type = %s;\n", AnyTagConstant(returnType))
	site.WriteString("  __th__;\n")
	site.WriteString("})")

	return site.String(), nil
}
