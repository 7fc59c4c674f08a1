package codegen

import (
	"fmt"
	"strings"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// lowerArrayLiteral emits a C compound literal of the correct element type
// wrapped in arena-managed array creation, or a zero-length array when the
// literal has no elements.
func lowerArrayLiteral(g *G, n *ast.ArrayLiteral, mode Mode) (string, error) {
	elemC := CArrayElemType(n.ElementType)
	arena := g.arenaOrNull()
	suffix := TypeSuffix(n.ElementType)

	if len(n.Elements) == 0 {
		handle := fmt.Sprintf("rt_array_alloc_%s_v2(%s, 0)", suffix, arena)
		if mode == Raw {
			return pinFragment(n.Type, handle), nil
		}
		return handle, nil
	}

	prevCompound := g.InArrayCompoundLiteral
	g.InArrayCompoundLiteral = true
	elems := make([]string, len(n.Elements))
	restore := g.SaveMode(Handle)
	for i, e := range n.Elements {
		v, err := LowerExpr(g, e, Handle)
		if err != nil {
			restore()
			g.InArrayCompoundLiteral = prevCompound
			return "", err
		}
		elems[i] = pinIfNeeded(n.ElementType, v, Raw)
	}
	restore()
	g.InArrayCompoundLiteral = prevCompound

	compound := fmt.Sprintf("(%s[]){%s}", elemC, strings.Join(elems, ", "))
	handle := fmt.Sprintf("rt_array_create_%s_v2(%s, %d, %s)", suffix, arena, len(n.Elements), compound)
	if mode == Raw {
		return pinFragment(n.Type, handle), nil
	}
	return handle, nil
}

// lowerRange lowers a..b into the arena-allocated range array.
func lowerRange(g *G, n *ast.RangeExpr, mode Mode) (string, error) {
	start, end, err := lowerOperandsRaw(g, n.Start, n.End)
	if err != nil {
		return "", err
	}
	arena := g.arenaOrNull()
	handle := fmt.Sprintf("rt_array_range_v2(%s, %s, %s)", arena, start, end)
	if mode == Raw {
		return pinFragment(n.Type, handle), nil
	}
	return handle, nil
}

// nullSentinel is the literal used for an omitted slice bound.
const nullSentinel = "NULL"

// lowerSlice lowers arr[start..end:step], preserving any omitted bound as
// a null sentinel for the runtime to interpret ("Range/spread/
// slice").
func lowerSlice(g *G, n *ast.SliceExpr, mode Mode) (string, error) {
	obj, err := lowerObjectRaw(g, n.Object)
	if err != nil {
		return "", err
	}
	start, err := lowerOptionalBound(g, n.Start)
	if err != nil {
		return "", err
	}
	end, err := lowerOptionalBound(g, n.End)
	if err != nil {
		return "", err
	}
	step, err := lowerOptionalBound(g, n.Step)
	if err != nil {
		return "", err
	}
	arena := g.arenaOrNull()
	suffix := "generic"
	if arr, ok := n.Object.ExprType().(sdtypes.Array); ok {
		suffix = TypeSuffix(arr.Element)
	}
	handle := fmt.Sprintf("rt_array_slice_%s_v2(%s, %s, %s, %s, %s)", suffix, arena, obj, start, end, step)
	if mode == Raw {
		return pinFragment(n.Type, handle), nil
	}
	return handle, nil
}

func lowerOptionalBound(g *G, e ast.Expression) (string, error) {
	if e == nil {
		return nullSentinel, nil
	}
	return lowerObjectRaw(g, e)
}
