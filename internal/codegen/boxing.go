package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// BoxValue wraps an already-lowered C fragment of type t into an RtAny
// literal. expr must already be in the representation the boxing function
// expects: raw pointer for String (pinned), struct value (not pointer) for
// Struct, concrete primitive otherwise.
func BoxValue(t sdtypes.Type, expr string) string {
	if st, ok := t.(sdtypes.Struct); ok {
		return fmt.Sprintf("rt_box_struct(%s, &(%s), sizeof(%s), %dU)",
			"__arena__", expr, CType(st), StructTypeID(st.Name))
	}
	if arr, ok := t.(sdtypes.Array); ok {
		return fmt.Sprintf("rt_box_array((void *)(%s), %s)", expr, ElementTypeTag(arr.Element))
	}
	return fmt.Sprintf("%s(%s)", BoxingFunction(t), expr)
}

// BoxValueArena is BoxValue but with an explicit arena fragment for struct
// boxing, used at call sites where current_arena_var may be NULL.
func BoxValueArena(t sdtypes.Type, expr, arena string) string {
	if st, ok := t.(sdtypes.Struct); ok {
		return fmt.Sprintf("rt_box_struct(%s, &(%s), sizeof(%s), %dU)",
			arena, expr, CType(st), StructTypeID(st.Name))
	}
	return BoxValue(t, expr)
}

// UnboxValue unwraps an RtAny-typed fragment back to a concrete C value of
// type t.
func UnboxValue(t sdtypes.Type, expr string) string {
	if st, ok := t.(sdtypes.Struct); ok {
		return fmt.Sprintf("(*(%s *)rt_unbox_struct(%s, %dU))", CType(st), expr, StructTypeID(st.Name))
	}
	if arr, ok := t.(sdtypes.Array); ok {
		return fmt.Sprintf("rt_array_from_any_%s(%s)", TypeSuffix(arr.Element), expr)
	}
	return fmt.Sprintf("%s(%s)", UnboxingFunction(t), expr)
}
