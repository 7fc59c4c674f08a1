package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// interceptSelf carries a method receiver through thunk and call-site
// synthesis. Free-function intercepts pass a nil *interceptSelf.
type interceptSelf struct {
	StructType     sdtypes.Struct
	Raw            string // raw (assignable) fragment naming the receiver
	ThroughPointer bool
}

// buildThunkDefinition emits a static RtAny thunk that reads the
// thread-local __rt_thunk_args/__rt_thunk_arena slots, unboxes each
// parameter (and the receiver, for methods) per its declared type, invokes
// the real callee, boxes the return value, and writes back any AsRef
// parameter plus a by-value receiver.
func buildThunkDefinition(thunkName, calleeName string, hasArenaParam bool, self *interceptSelf, paramTypes []sdtypes.Type, paramMemQuals []sdtypes.MemQual, returnType sdtypes.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "static RtAny %s(void) {\n", thunkName)
	b.WriteString("  RtArenaV2 *__arena__ = __rt_thunk_arena;\n")
	b.WriteString("  RtAny *__args__ = __rt_thunk_args;\n")

	base := 0
	if self != nil {
		fmt.Fprintf(&b, "  %s __self__ = %s;\n", CType(self.StructType), UnboxValue(self.StructType, "__args__[0]"))
		base = 1
	}
	for i, pt := range paramTypes {
		fmt.Fprintf(&b, "  %s __a%d__ = %s;\n", CType(pt), i, UnboxValue(pt, fmt.Sprintf("__args__[%d]", base+i)))
	}

	var callArgs []string
	if hasArenaParam {
		callArgs = append(callArgs, "__arena__")
	}
	if self != nil {
		if self.StructType.PassSelfByRef {
			callArgs = append(callArgs, "&__self__")
		} else {
			callArgs = append(callArgs, "__self__")
		}
	}
	for i := range paramTypes {
		arg := fmt.Sprintf("__a%d__", i)
		if i < len(paramMemQuals) && paramMemQuals[i] == sdtypes.MemAsRef {
			arg = "&" + arg
		}
		callArgs = append(callArgs, arg)
	}
	call := fmt.Sprintf("%s(%s)", calleeName, strings.Join(callArgs, ", "))

	voidCall := isVoidType(returnType)
	if voidCall {
		fmt.Fprintf(&b, "  %s;\n", call)
	} else {
		fmt.Fprintf(&b, "  %s __ret__ = %s;\n", CType(returnType), call)
	}

	for i, mq := range paramMemQuals {
		if mq == sdtypes.MemAsRef {
			fmt.Fprintf(&b, "  __args__[%d] = %s;\n", base+i, BoxValue(paramTypes[i], fmt.Sprintf("__a%d__", i)))
		}
	}
	if self != nil && !self.ThroughPointer {
		fmt.Fprintf(&b, "  __args__[0] = %s;\n", BoxValue(self.StructType, "__self__"))
	}

	if voidCall {
		b.WriteString("  RtAny __void_any__ = {0};\n  __void_any__.tag = RT_ANY_NIL;\n  return __void_any__;\n")
	} else {
		fmt.Fprintf(&b, "  return %s;\n", BoxValue(returnType, "__ret__"))
	}
	b.WriteString("}\n")
	return b.String()
}

// emitIntercepted synthesizes the thunk and a guarded call-site statement
// expression: the fast path (interceptor_count == 0) calls calleeName
// directly with directArgs, doing no boxing at all; the slow path boxes
// argRaw into an RtAny array and routes through rt_call_intercepted.
// argRaw holds each parameter's raw-mode fragment, parallel to paramTypes;
// directArgs is the complete fast-path argument list (arena/self/params,
// already in whatever representation the direct callee expects).
func emitIntercepted(g *G, interceptName, calleeName string, hasArenaParam bool, self *interceptSelf, paramTypes []sdtypes.Type, paramMemQuals []sdtypes.MemQual, returnType sdtypes.Type, argRaw []string, directArgs []string) (string, error) {
	thunkName := fmt.Sprintf("__thunk_%d", g.NextThunkID())
	fmt.Fprintf(&g.ThunkForwardDecls, "static RtAny %s(void);\n", thunkName)
	g.ThunkDefinitions.WriteString(buildThunkDefinition(thunkName, calleeName, hasArenaParam, self, paramTypes, paramMemQuals, returnType))

	voidCall := isVoidType(returnType)
	resultVar := g.NextTemp()
	base := 0
	argCount := len(paramTypes)
	if self != nil {
		base = 1
		argCount++
	}

	var buf strings.Builder
	buf.WriteString("({\n")
	if !voidCall {
		fmt.Fprintf(&buf, "  %s %s;\n", CType(returnType), resultVar)
	}
	buf.WriteString("  if (__rt_interceptor_count > 0) {\n")
	fmt.Fprintf(&buf, "    RtAny __args__[%d];\n", argCount)
	if self != nil {
		fmt.Fprintf(&buf, "    __args__[0] = rt_box_struct(%s, &(%s), sizeof(%s), %dU);\n",
			g.arenaOrNull(), self.Raw, CType(self.StructType), StructTypeID(self.StructType.Name))
	}
	for i, pt := range paramTypes {
		fmt.Fprintf(&buf, "    __args__[%d] = %s;\n", base+i, BoxValue(pt, argRaw[i]))
	}
	buf.WriteString("    __rt_thunk_args = __args__;\n")
	fmt.Fprintf(&buf, "    __rt_thunk_arena = %s;\n", g.arenaOrNull())
	callExpr := fmt.Sprintf("rt_call_intercepted(\"%s\", __args__, %d, %s)", interceptName, argCount, thunkName)
	if voidCall {
		fmt.Fprintf(&buf, "    (void)(%s);\n", callExpr)
	} else {
		fmt.Fprintf(&buf, "    %s = %s;\n", resultVar, UnboxValue(returnType, callExpr))
	}
	for i, mq := range paramMemQuals {
		if mq == sdtypes.MemAsRef {
			fmt.Fprintf(&buf, "    %s = %s;\n", argRaw[i], UnboxValue(paramTypes[i], fmt.Sprintf("__args__[%d]", base+i)))
		}
	}
	if self != nil && !self.ThroughPointer {
		fmt.Fprintf(&buf, "    %s = %s;\n", self.Raw, UnboxValue(self.StructType, "__args__[0]"))
	}
	buf.WriteString("  } else {\n")
	direct := fmt.Sprintf("%s(%s)", calleeName, strings.Join(directArgs, ", "))
	if voidCall {
		fmt.Fprintf(&buf, "    %s;\n", direct)
	} else {
		fmt.Fprintf(&buf, "    %s = %s;\n", resultVar, direct)
	}
	buf.WriteString("  }\n")
	if voidCall {
		buf.WriteString("  (void)0;\n")
	} else {
		fmt.Fprintf(&buf, "  %s;\n", resultVar)
	}
	buf.WriteString("})")
	return buf.String(), nil
}
