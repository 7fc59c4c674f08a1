package codegen

import (
	"fmt"

	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// pinIfNeeded wraps a handle-typed fragment in the appropriate pin call
// when the caller wants a raw pointer but mode produced a handle. t is the
// static type of the expression that produced expr.
func pinIfNeeded(t sdtypes.Type, expr string, mode Mode) string {
	if mode == Handle || !sdtypes.IsHandleType(t) {
		return expr
	}
	return pinFragment(t, expr)
}

// pinFragment unconditionally pins a handle fragment of type t.
func pinFragment(t sdtypes.Type, expr string) string {
	if _, ok := t.(sdtypes.Array); ok {
		return fmt.Sprintf("rt_array_data_v2(%s)", expr)
	}
	return fmt.Sprintf("rt_handle_v2_pin(%s)", expr)
}

// wrapAsHandleIfNeeded is pinIfNeeded's inverse: a native/raw fragment of
// handle type t must be promoted to a handle when the caller wants Handle
// mode ("wrap it: strings via rt_arena_v2_strdup, arrays via
// rt_array_create_<...>_v2").
func wrapAsHandleIfNeeded(g *G, t sdtypes.Type, expr string, mode Mode) string {
	if mode == Raw || !sdtypes.IsHandleType(t) {
		return expr
	}
	arena := g.arenaOrNull()
	if arr, ok := t.(sdtypes.Array); ok {
		return fmt.Sprintf("rt_array_create_%s_v2(%s, (void *)(%s))", TypeSuffix(arr.Element), arena, expr)
	}
	return fmt.Sprintf("rt_arena_v2_strdup(%s, %s)", arena, expr)
}

// arenaOrNull returns the current arena variable, or the literal "NULL"
// at file scope (no arena in scope).
func (g *G) arenaOrNull() string {
	if g.CurrentArenaVar == "" {
		return "NULL"
	}
	return g.CurrentArenaVar
}

// castLongLong wraps expr in a C cast to long long, the integer result
// width every checked/native arithmetic op and bitwise op settles on
// across the binary/unary/inc-dec arithmetic lowering paths.
func castLongLong(expr string) string {
	return fmt.Sprintf("((long long)(%s))", expr)
}
