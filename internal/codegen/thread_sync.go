package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// promoteArrayFn names the deep-promotion entry point for an array result
// type that contains handles below its top level (string arrays, 2-D, 3-D
// arrays). It returns "" for a simple array, whose handle already survives
// an arena swap untouched.
func promoteArrayFn(arr sdtypes.Array) string {
	if inner, ok := arr.Element.(sdtypes.Array); ok {
		if _, ok2 := inner.Element.(sdtypes.Array); ok2 {
			return "rt_promote_array_3d_v2"
		}
		return "rt_promote_array_2d_v2"
	}
	if isStringType(arr.Element) {
		return "rt_promote_array_string_v2"
	}
	return ""
}

func needsDeepPromotion(t sdtypes.Type) bool {
	arr, ok := t.(sdtypes.Array)
	return ok && promoteArrayFn(arr) != ""
}

func structHasHandleFields(st sdtypes.Struct) bool {
	for _, f := range st.Fields {
		if sdtypes.IsHandleType(f.Type) {
			return true
		}
	}
	return false
}

// syncCore builds the fragment that performs one thread join against
// handleExpr (a C expression naming an RtThread *) and yields resultType's
// value, per the sync variant table.
func syncCore(g *G, resultType sdtypes.Type, handleExpr string) string {
	callerArena := g.arenaOrNull()

	switch {
	case isVoidType(resultType):
		return fmt.Sprintf("(rt_thread_v2_sync(%s), (void)0)", handleExpr)

	case sdtypes.IsHandleType(resultType) && !needsDeepPromotion(resultType):
		return fmt.Sprintf("((%s)rt_thread_v2_sync(%s))", CType(resultType), handleExpr)

	case isArrayType(resultType) && needsDeepPromotion(resultType):
		arr := resultType.(sdtypes.Array)
		tmp := g.NextTemp()
		var b strings.Builder
		b.WriteString("({\n")
		fmt.Fprintf(&b, "  RtThread *%s_th = %s;\n", tmp, handleExpr)
		fmt.Fprintf(&b, "  RtArenaV2 *%s_ta = rt_thread_v2_sync_keep_arena(%s_th);\n", tmp, tmp)
		fmt.Fprintf(&b, "  RtHandleV2 *%s_raw = (RtHandleV2 *)%s_th->result.handle;\n", tmp, tmp)
		fmt.Fprintf(&b, "  RtHandleV2 *%s_promoted = %s(%s, %s_raw);\n", tmp, promoteArrayFn(arr), callerArena, tmp)
		fmt.Fprintf(&b, "  rt_arena_v2_destroy(%s_ta);\n", tmp)
		fmt.Fprintf(&b, "  %s_promoted;\n", tmp)
		b.WriteString("})")
		return b.String()

	case isStructType(resultType) && structHasHandleFields(resultType.(sdtypes.Struct)):
		st := resultType.(sdtypes.Struct)
		tmp := g.NextTemp()
		var b strings.Builder
		b.WriteString("({\n")
		fmt.Fprintf(&b, "  RtThread *%s_th = %s;\n", tmp, handleExpr)
		fmt.Fprintf(&b, "  RtArenaV2 *%s_ta = rt_thread_v2_sync_keep_arena(%s_th);\n", tmp, tmp)
		fmt.Fprintf(&b, "  %s %s_val = *(%s *)%s_th->result.ptr;\n", CType(st), tmp, CType(st), tmp)
		for _, f := range st.Fields {
			fieldC := f.CAlias
			if fieldC == "" {
				fieldC = Mangle(f.Name)
			} else {
				fieldC = GuardCIdent(fieldC)
			}
			access := fmt.Sprintf("%s_val.%s", tmp, fieldC)
			switch {
			case isStringType(f.Type):
				fmt.Fprintf(&b, "  %s = rt_arena_v2_strdup(%s, rt_managed_pin(%s));\n", access, callerArena, access)
			case isArrayType(f.Type):
				fieldArr := f.Type.(sdtypes.Array)
				fn := promoteArrayFn(fieldArr)
				if fn == "" {
					fn = "rt_arena_v2_promote"
				}
				fmt.Fprintf(&b, "  %s = %s(%s, %s);\n", access, fn, callerArena, access)
			}
		}
		fmt.Fprintf(&b, "  rt_arena_v2_destroy(%s_ta);\n", tmp)
		fmt.Fprintf(&b, "  %s_val;\n", tmp)
		b.WriteString("})")
		return b.String()

	default:
		return fmt.Sprintf("(*(%s *)(rt_thread_v2_sync(%s)->result.ptr))", CType(resultType), handleExpr)
	}
}

// LowerThreadSync lowers r!. A bare-variable target reads the running
// thread's handle out of an associated __<var>_pending__ slot (set at
// spawn time) rather than from the variable itself, so that a variable
// already synced or never spawned stays a no-op read.
func LowerThreadSync(g *G, n *ast.ThreadSync, mode Mode) (string, error) {
	resultType := n.ExprType()

	if n.IsVar {
		pendingVar := fmt.Sprintf("__%s_pending__", n.VarName)
		varName := Mangle(n.VarName)
		core := syncCore(g, resultType, pendingVar)
		return fmt.Sprintf("(%s != NULL ? (%s = %s, %s = NULL, %s) : %s)",
			pendingVar, varName, core, pendingVar, varName, varName), nil
	}

	handleRaw, err := lowerObjectRaw(g, n.Handle)
	if err != nil {
		return "", err
	}
	return syncCore(g, resultType, handleRaw), nil
}

// LowerThreadSyncList lowers [r1, r2, ...]! — a barrier over every listed
// thread followed by an independent per-handle sync, so each element still
// gets its own variant's promotion treatment.
func LowerThreadSyncList(g *G, n *ast.ThreadSyncList) (string, error) {
	handles := make([]string, len(n.Handles))
	for i, h := range n.Handles {
		if id, ok := h.(*ast.Identifier); ok {
			handles[i] = fmt.Sprintf("__%s_pending__", id.Name)
			continue
		}
		raw, err := lowerObjectRaw(g, h)
		if err != nil {
			return "", err
		}
		handles[i] = raw
	}

	tmp := g.NextTemp()
	var b strings.Builder
	b.WriteString("({\n")
	fmt.Fprintf(&b, "  RtThread *%s_arr[%d] = {%s};\n", tmp, len(handles), strings.Join(handles, ", "))
	fmt.Fprintf(&b, "  rt_thread_v2_sync_all(%s_arr, %d);\n", tmp, len(handles))

	// Each element's own variant promotion still runs individually after
	// the barrier; rt_thread_v2_sync on an already-joined thread just
	// extracts and promotes its result. Bare-variable elements rebind
	// through their pending slot exactly like a single `r!` sync.
	for i, h := range n.Handles {
		elemHandle := fmt.Sprintf("%s_arr[%d]", tmp, i)
		if id, ok := h.(*ast.Identifier); ok {
			pendingVar := fmt.Sprintf("__%s_pending__", id.Name)
			varName := Mangle(id.Name)
			core := syncCore(g, h.ExprType(), pendingVar)
			fmt.Fprintf(&b, "  if (%s != NULL) { %s = %s; %s = NULL; }\n", pendingVar, varName, core, pendingVar)
			continue
		}
		fmt.Fprintf(&b, "  (void)(%s);\n", syncCore(g, h.ExprType(), elemHandle))
	}
	b.WriteString("  (void)0;\n")
	b.WriteString("})")
	return b.String(), nil
}
