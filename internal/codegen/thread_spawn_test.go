package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sindarinsdk/sindacc/internal/ast"
	"github.com/sindarinsdk/sindacc/internal/sdtypes"
)

// assertOrdered checks that each needle in order appears strictly after
// the previous one in haystack, failing with the full text on a mismatch.
func assertOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	pos := -1
	for _, n := range needles {
		idx := strings.Index(haystack[pos+1:], n)
		require.GreaterOrEqualf(t, idx, 0, "expected to find %q after position %d in:\n%s", n, pos, haystack)
		pos = pos + 1 + idx
	}
}

func TestThreadSpawnArgsStructFieldOrder(t *testing.T) {
	g := &G{}
	intT := sdtypes.Primitive{Kind: sdtypes.KInt}
	strT := sdtypes.Primitive{Kind: sdtypes.KString}

	spawn := &ast.ThreadSpawn{
		Modifier: sdtypes.FuncDefault,
		Call: &ast.Call{
			Callee: &ast.Identifier{Name: "work"},
			Args:   []ast.Expression{intLit(1), &ast.StringLiteral{Value: "hi"}},
			Target: &ast.CallTarget{
				Name:       "work",
				HasBody:    true,
				ParamTypes: []sdtypes.Type{intT, strT},
				ReturnType: intT,
			},
		},
	}

	_, err := LowerThreadSpawn(g, spawn)
	require.NoError(t, err)

	structDef := g.LambdaForwardDecls.String()
	assertOrdered(t, structDef,
		"func_ptr", "args_data", "args_size", "result",
		"caller_arena", "thread_arena", "is_shared", "is_private",
		"arg0", "arg1",
	)
}

func TestThreadSpawnArgsStructFieldOrderWithSelf(t *testing.T) {
	g := &G{}
	st := sdtypes.Struct{Name: "Counter", Fields: []sdtypes.Field{{Name: "n", Type: sdtypes.Primitive{Kind: sdtypes.KInt}}}}
	method := sdtypes.Method{Name: "bump", HasBody: true, Return: sdtypes.Primitive{Kind: sdtypes.KInt}}

	spawn := &ast.ThreadSpawn{
		Modifier: sdtypes.FuncDefault,
		Call: &ast.MethodCall{
			Object:         &ast.StructLiteral{StructType: st},
			ObjectType:     st,
			Method:         "bump",
			ResolvedMethod: &method,
			ResolvedStruct: &st,
		},
	}

	_, err := LowerThreadSpawn(g, spawn)
	require.NoError(t, err)

	structDef := g.LambdaForwardDecls.String()
	assertOrdered(t, structDef,
		"func_ptr", "args_data", "args_size", "result",
		"caller_arena", "thread_arena", "is_shared", "is_private",
		"self",
	)
}

func TestThreadSpawnCallSiteSetsModifierFlags(t *testing.T) {
	g := &G{}
	intT := sdtypes.Primitive{Kind: sdtypes.KInt}
	spawn := &ast.ThreadSpawn{
		Modifier: sdtypes.FuncShared,
		Call: &ast.Call{
			Callee: &ast.Identifier{Name: "work"},
			Target: &ast.CallTarget{Name: "work", HasBody: true, ReturnType: intT},
		},
	}
	out, err := LowerThreadSpawn(g, spawn)
	require.NoError(t, err)
	assert.Contains(t, out, "__targs__->is_shared = 1;")
	assert.Contains(t, out, "__targs__->is_private = 0;")
}
